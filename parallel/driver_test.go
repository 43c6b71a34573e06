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

package parallel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tabkit/tabkit/csvio"
	"github.com/tabkit/tabkit/rowindex"
)

func TestPlan(t *testing.T) {
	chunks := Plan(10, 3)
	want := []Chunk{{0, 3}, {3, 3}, {6, 3}, {9, 1}}
	if len(chunks) != len(want) {
		t.Fatalf("len(chunks) = %d, want %d", len(chunks), len(want))
	}
	for i, c := range chunks {
		if c != want[i] {
			t.Errorf("chunks[%d] = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestJobsCap(t *testing.T) {
	if got := Jobs(0, 4); got < 1 {
		t.Errorf("Jobs(0, 4) = %d, want >= 1", got)
	}
	if got := Jobs(100, 2); got != 2 {
		t.Errorf("Jobs(100, 2) = %d, want 2 (capped by chunk count)", got)
	}
}

func TestRunSumsRecordCounts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	var content string
	content = "n\n"
	for i := 0; i < 20; i++ {
		content += "x\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := rowindex.Build(path, csvio.ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}

	chunks := Plan(idx.Count(), 7)
	jobs := Jobs(0, len(chunks))

	sum, err := Run(chunks, jobs,
		func() *rowindex.IndexedReader { return rowindex.Open(path, idx, csvio.ReadConfig{NoHeaders: true}) },
		func(c Chunk, r *rowindex.IndexedReader) (int, error) {
			if err := r.Seek(c.Start); err != nil {
				return 0, err
			}
			n := 0
			for i := 0; i < c.Count; i++ {
				if _, ok := r.ReadOne(); !ok {
					break
				}
				n++
			}
			return n, nil
		},
		func(a, b int) int { return a + b },
		0,
	)
	if err != nil {
		t.Fatal(err)
	}
	if sum != idx.Count() {
		t.Fatalf("sum = %d, want %d", sum, idx.Count())
	}
}

func TestRunPropagatesWorkerError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("n\nx\nx\nx\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	idx, err := rowindex.Build(path, csvio.ReadConfig{})
	if err != nil {
		t.Fatal(err)
	}
	chunks := Plan(idx.Count(), 1)

	boom := errors.New("boom")
	_, err = Run(chunks, 2,
		func() *rowindex.IndexedReader { return rowindex.Open(path, idx, csvio.ReadConfig{NoHeaders: true}) },
		func(c Chunk, r *rowindex.IndexedReader) (int, error) {
			return 0, boom
		},
		func(a, b int) int { return a + b },
		0,
	)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}
