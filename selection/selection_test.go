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

package selection

import (
	"reflect"
	"testing"
)

var header = []string{"id", "name", "age", "name", "city"}

func resolveOK(t *testing.T, expr string) []int {
	t.Helper()
	sel, err := Resolve(expr, header, false)
	if err != nil {
		t.Fatalf("Resolve(%q) error: %v", expr, err)
	}
	return sel.Iter()
}

func TestResolveNameAndIndex(t *testing.T) {
	if got := resolveOK(t, "id"); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("id -> %v", got)
	}
	if got := resolveOK(t, "3"); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("3 -> %v", got)
	}
	if got := resolveOK(t, "_"); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("_ -> %v", got)
	}
}

func TestResolveOccurrence(t *testing.T) {
	if got := resolveOK(t, "name[0]"); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("name[0] -> %v", got)
	}
	if got := resolveOK(t, "name[1]"); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("name[1] -> %v", got)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	_, err := Resolve("name", header, false)
	var ambig *AmbiguousColumn
	if err == nil {
		t.Fatal("expected an AmbiguousColumn error")
	}
	if ae, ok := err.(*AmbiguousColumn); !ok {
		t.Fatalf("got %T, want *AmbiguousColumn", err)
	} else {
		ambig = ae
	}
	if !reflect.DeepEqual(ambig.Positions, []int{1, 3}) {
		t.Errorf("positions = %v", ambig.Positions)
	}
}

func TestResolveUnknownColumn(t *testing.T) {
	_, err := Resolve("nope", header, false)
	if _, ok := err.(*UnknownColumn); !ok {
		t.Fatalf("got %T, want *UnknownColumn", err)
	}
}

func TestResolveIndexOutOfRange(t *testing.T) {
	_, err := Resolve("99", header, false)
	if _, ok := err.(*IndexOutOfRange); !ok {
		t.Fatalf("got %T, want *IndexOutOfRange", err)
	}
}

func TestResolveRangeDescending(t *testing.T) {
	got := resolveOK(t, "3-1")
	if !reflect.DeepEqual(got, []int{2, 1, 0}) {
		t.Errorf("3-1 -> %v, want [2 1 0]", got)
	}
}

func TestResolveRangeAscending(t *testing.T) {
	got := resolveOK(t, "1-3")
	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("1-3 -> %v, want [0 1 2]", got)
	}
}

func TestResolveRegex(t *testing.T) {
	got := resolveOK(t, "/^name/")
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("/^name/ -> %v, want [1 3]", got)
	}
}

func TestResolveNegate(t *testing.T) {
	got := resolveOK(t, "!id")
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("!id -> %v, want [1 2 3 4]", got)
	}
}

func TestResolveMultipleTermsConcatenateWithDuplicates(t *testing.T) {
	got := resolveOK(t, "id,id,3-1")
	if !reflect.DeepEqual(got, []int{0, 0, 2, 1, 0}) {
		t.Errorf("id,id,3-1 -> %v", got)
	}
}

func TestNormalDedupsAndSorts(t *testing.T) {
	sel, err := Resolve("city,id,id,age", header, false)
	if err != nil {
		t.Fatal(err)
	}
	norm := sel.Normal().Iter()
	if !reflect.DeepEqual(norm, []int{0, 2, 4}) {
		t.Errorf("Normal() = %v, want [0 2 4]", norm)
	}
}

func TestSelectProjectsInSelectionOrder(t *testing.T) {
	sel, err := Resolve("city,id", header, false)
	if err != nil {
		t.Fatal(err)
	}
	row := []string{"1", "alice", "30", "alicia", "nyc"}
	got := sel.SelectStrings(row)
	if !reflect.DeepEqual(got, []string{"nyc", "1"}) {
		t.Errorf("SelectStrings = %v", got)
	}
}

func TestNoHeadersRejectsNames(t *testing.T) {
	_, err := Resolve("name", nil, true)
	if _, ok := err.(*UnknownColumn); !ok {
		t.Fatalf("got %T, want *UnknownColumn", err)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	cases := []string{"/unterminated", `"unterminated`, "name[", "1,"}
	for _, expr := range cases {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q) should fail", expr)
		}
	}
}
