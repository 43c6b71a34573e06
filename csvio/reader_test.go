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

package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "a,b,c\n1,2,3\n")

	src, err := Open(path, ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if !src.Seekable || src.Snappy {
		t.Fatalf("expected a seekable, non-snappy source, got %+v", src)
	}
	if src.Dialect.Delimiter != ',' {
		t.Fatalf("expected comma delimiter, got %q", src.Dialect.Delimiter)
	}

	var rows [][]string
	for src.Reader.Scan() {
		rows = append(rows, src.Reader.Record().ToString().Fields)
	}
	if err := src.Reader.Err(); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][0] != "1" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestOpenTSVExtensionInference(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.tsv", "a\tb\n1\t2\n")

	src, err := Open(path, ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if src.Dialect.Delimiter != '\t' {
		t.Fatalf("expected tab delimiter, got %q", src.Dialect.Delimiter)
	}
}

func TestOpenRejectsBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path, ReadConfig{})
	if err == nil {
		t.Fatal("expected a format error for PNG content")
	}
	var fe *FormatError
	if !asFormatError(err, &fe) {
		t.Fatalf("expected *FormatError, got %T: %v", err, err)
	}
}

func asFormatError(err error, target **FormatError) bool {
	if fe, ok := err.(*FormatError); ok {
		*target = fe
		return true
	}
	return false
}

func TestOpenSnappyFramed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv.sz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := snappy.NewBufferedWriter(f)
	if _, err := w.Write([]byte("a,b\n1,2\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	src, err := Open(path, ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if !src.Snappy || src.Seekable {
		t.Fatalf("expected a snappy, non-seekable source, got %+v", src)
	}

	var rows [][]string
	for src.Reader.Scan() {
		rows = append(rows, src.Reader.Record().ToString().Fields)
	}
	if err := src.Reader.Err(); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][1] != "2" {
		t.Fatalf("unexpected rows decoded from snappy stream: %v", rows)
	}
}

func TestOpenAtSeeksToOffset(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "a,b\n1,2\n3,4\n")

	first, err := Open(path, ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}
	first.Reader.Scan() // header
	first.Reader.Scan() // first data row
	pos := first.Reader.Pos()
	first.Close()

	src, err := OpenAt(path, pos, ReadConfig{NoHeaders: true})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if !src.Reader.Scan() {
		t.Fatal("expected a row at the seeked offset")
	}
	got := src.Reader.Record().ToString().Fields
	if got[0] != "3" || got[1] != "4" {
		t.Fatalf("unexpected row after seek: %v", got)
	}
}

func TestOpenAtRejectsStdin(t *testing.T) {
	_, err := OpenAt("-", 0, ReadConfig{})
	if _, ok := err.(*NeedsSeekableInputError); !ok {
		t.Fatalf("expected *NeedsSeekableInputError, got %T: %v", err, err)
	}
}
