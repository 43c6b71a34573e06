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

package rowindex

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tabkit/tabkit/csvio"
)

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildAndCount(t *testing.T) {
	dir := t.TempDir()
	path := writeData(t, dir, "people.csv", "name,age\na,1\nb,2\nc,3\n")

	idx, err := Build(path, csvio.ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if idx.Count() != 4 { // header + 3 rows
		t.Fatalf("Count() = %d, want 4", idx.Count())
	}
}

func TestBuildRejectsSnappy(t *testing.T) {
	dir := t.TempDir()
	path := writeData(t, dir, "people.csv.sz", "")
	// Not a real Snappy stream, but the ".sz" suffix alone is enough to
	// route Build through the "cannot index Snappy" rejection before
	// any content is read.
	_, err := Build(path, csvio.ReadConfig{SkipFormatCheck: true})
	if err == nil {
		t.Fatal("expected an error indexing a .sz path")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idxPath := filepath.Join(dir, "people.csv.idx")
	want := &Index{Offsets: []uint64{0, 9, 13, 17, 3}}

	if err := WriteFile(idxPath, want); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(idxPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Offsets) != len(want.Offsets) {
		t.Fatalf("got %v, want %v", got.Offsets, want.Offsets)
	}
	for i := range want.Offsets {
		if got.Offsets[i] != want.Offsets[i] {
			t.Fatalf("offset[%d] = %d, want %d", i, got.Offsets[i], want.Offsets[i])
		}
	}
}

func TestIsFresh(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeData(t, dir, "people.csv", "name,age\na,1\n")
	idxPath := PathFor(dataPath)

	if IsFresh(dataPath, idxPath) {
		t.Fatal("expected stale: index does not exist yet")
	}

	idx, err := Build(dataPath, csvio.ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(idxPath, idx); err != nil {
		t.Fatal(err)
	}
	if !IsFresh(dataPath, idxPath) {
		t.Fatal("expected fresh immediately after building")
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(dataPath, future, future); err != nil {
		t.Fatal(err)
	}
	if IsFresh(dataPath, idxPath) {
		t.Fatal("expected stale after touching the data file")
	}
}

func TestEnsureFreshAutoBuilds(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeData(t, dir, "people.csv", "name,age\na,1\nb,2\n")

	idx, rebuilt, err := EnsureFresh(dataPath, csvio.ReadConfig{}, AutoIndexPolicy{StalePath: true})
	if err != nil {
		t.Fatal(err)
	}
	if !rebuilt {
		t.Fatal("expected a rebuilt index")
	}
	if idx.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", idx.Count())
	}
	if !WasAutoBuilt(dataPath) {
		t.Fatal("expected the auto-built latch to be set")
	}

	idx2, rebuilt2, err := EnsureFresh(dataPath, csvio.ReadConfig{}, AutoIndexPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	if rebuilt2 {
		t.Fatal("expected the second call to reuse the fresh index")
	}
	if idx2.Count() != idx.Count() {
		t.Fatalf("Count() = %d, want %d", idx2.Count(), idx.Count())
	}
}

func TestSeekAndReadOne(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeData(t, dir, "people.csv", "name,age\na,1\nb,2\nc,3\n")

	idx, err := Build(dataPath, csvio.ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}

	r := Open(dataPath, idx, csvio.ReadConfig{NoHeaders: true})
	defer r.Close()

	if r.Count() != 4 {
		t.Fatalf("Count() = %d, want 4", r.Count())
	}
	if err := r.Seek(2); err != nil {
		t.Fatal(err)
	}
	rec, ok := r.ReadOne()
	if !ok {
		t.Fatal("expected a record at index 2")
	}
	got := rec.ToString().Fields
	if got[0] != "b" || got[1] != "2" {
		t.Fatalf("unexpected record at index 2: %v", got)
	}

	if err := r.Seek(99); err != ErrOutOfRange {
		t.Fatalf("Seek(99) error = %v, want ErrOutOfRange", err)
	}
}
