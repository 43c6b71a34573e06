// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package record

import (
	"strings"
	"testing"
)

func scanAll(t *testing.T, in string, d Dialect) [][]string {
	t.Helper()
	r := NewReader(strings.NewReader(in), d)
	var out [][]string
	for r.Scan() {
		rec := r.Record()
		row := make([]string, len(rec.Fields))
		for i, f := range rec.Fields {
			row[i] = string(f)
		}
		out = append(out, row)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	return out
}

func TestScanBasic(t *testing.T) {
	in := "a,b,c\n1,2,3\n"
	got := scanAll(t, in, Default())
	want := [][]string{{"a", "b", "c"}, {"1", "2", "3"}}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("row %d: got %v want %v", i, got[i], want[i])
			}
		}
	}
}

func TestScanQuotedEmbeddedNewline(t *testing.T) {
	in := "a,b\n\"hello\nworld\",2\n"
	got := scanAll(t, in, Default())
	if len(got) != 2 || got[1][0] != "hello\nworld" {
		t.Fatalf("got %v", got)
	}
}

func TestScanDoubleQuote(t *testing.T) {
	in := `a,b` + "\n" + `"say ""hi""",2` + "\n"
	got := scanAll(t, in, Default())
	if got[1][0] != `say "hi"` {
		t.Fatalf("got %q", got[1][0])
	}
}

func TestScanFlexible(t *testing.T) {
	in := "a,b,c\n1,2\n3,4,5,6\n"
	got := scanAll(t, in, Default())
	if len(got[1]) != 2 || len(got[2]) != 4 {
		t.Fatalf("got %v", got)
	}
}

func TestScanComment(t *testing.T) {
	d := Default()
	d.Comment = '#'
	in := "# a comment\na,b\n# another\n1,2\n"
	got := scanAll(t, in, d)
	want := [][]string{{"a", "b"}, {"1", "2"}}
	if len(got) != len(want) || got[0][0] != "a" || got[1][0] != "1" {
		t.Fatalf("got %v", got)
	}
}

func TestScanTrim(t *testing.T) {
	d := Default()
	d.Trim = TrimAll
	in := " a , b \n 1 , 2 \n"
	got := scanAll(t, in, d)
	if got[0][0] != "a" || got[0][1] != "b" || got[1][0] != "1" {
		t.Fatalf("got %v", got)
	}
}

func TestScanCustomDelimiter(t *testing.T) {
	d := Default().WithDelimiter('\t')
	in := "a\tb\n1\t2\n"
	got := scanAll(t, in, d)
	if got[0][1] != "b" || got[1][1] != "2" {
		t.Fatalf("got %v", got)
	}
}

func TestScanRecordPositions(t *testing.T) {
	in := "ab,cd\nef,gh\n"
	r := NewReader(strings.NewReader(in), Default())
	var positions []uint64
	for r.Scan() {
		positions = append(positions, r.Record().Pos)
	}
	if len(positions) != 2 || positions[0] != 0 || positions[1] != 6 {
		t.Fatalf("positions = %v", positions)
	}
}

func TestScanUnterminatedQuote(t *testing.T) {
	in := "a,\"unterminated\n"
	r := NewReader(strings.NewReader(in), Default())
	for r.Scan() {
	}
	var perr *ParseError
	if err := r.Err(); err == nil {
		t.Fatal("expected parse error")
	} else if !asParseError(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func asParseError(err error, target **ParseError) bool {
	if pe, ok := err.(*ParseError); ok {
		*target = pe
		return true
	}
	return false
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewReader(strings.NewReader("a,b\nc,d\n"), Default())
	r.Scan()
	first := r.Record().Clone()
	r.Scan()
	if string(first.Fields[0]) != "a" {
		t.Fatalf("clone mutated: %q", first.Fields[0])
	}
}
