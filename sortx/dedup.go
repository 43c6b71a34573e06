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

package sortx

import "fmt"

// NotSorted is returned by the streaming dedup when a record arrives
// out of order under the comparator in use — the input cannot be
// assumed already sorted, so constant-memory dedup is unsafe.
type NotSorted struct {
	Index int
}

func (e *NotSorted) Error() string {
	return fmt.Sprintf("sortx: input is not sorted at record %d", e.Index)
}

// Dedup runs the sorted-input, constant-memory dedup strategy
// (spec.md section 4.6): it assumes rows arrive in cmp's order and
// rejects the input as soon as that assumption breaks. Push and Flush
// yield one result per distinct key, in arrival order: the first row
// seen for that key and the number of rows that shared it (1 for a
// unique row). Rows after the first for a repeated key are only
// counted; they are not passed on anywhere.
type Dedup struct {
	cmp     Comparator
	have    bool
	prev    Row
	count   uint64
	emitted uint64
	index   int
}

// NewDedup constructs a streaming dedup over cmp.
func NewDedup(cmp Comparator) *Dedup { return &Dedup{cmp: cmp} }

// Push feeds the next row in input order. It returns the (row, count)
// pair to emit when a run closes (ok is false while still accumulating
// a run or on the very first row), and an error the moment input order
// is violated.
func (d *Dedup) Push(r Row) (emit Row, count uint64, ok bool, err error) {
	defer func() { d.index++ }()
	if !d.have {
		d.prev, d.have, d.count = r, true, 1
		return Row{}, 0, false, nil
	}

	switch cmp := d.cmp.Compare(r.Key, d.prev.Key); {
	case cmp < 0:
		return Row{}, 0, false, &NotSorted{Index: d.index}
	case cmp == 0:
		d.count++
		return Row{}, 0, false, nil
	default:
		emit, count = d.prev, d.count
		d.prev, d.count = r, 1
		return emit, count, true, nil
	}
}

// Flush returns the final accumulated run, if any rows were pushed.
func (d *Dedup) Flush() (emit Row, count uint64, ok bool) {
	if !d.have {
		return Row{}, 0, false
	}
	d.have = false
	return d.prev, d.count, true
}

// DedupUnsorted sorts rows under cmp (stable, so the first occurrence
// of each key in the original input is the one kept) and then runs the
// same run-length collapsing as the streaming strategy, returning the
// deduplicated rows and a parallel slice of how many input rows each
// one stood in for.
func DedupUnsorted(rows []Row, cmp Comparator) (kept []Row, counts []uint64) {
	Sort(rows, cmp, true)
	d := NewDedup(cmp)
	for _, r := range rows {
		// Sort has just established cmp's order, so Push can never
		// return the NotSorted error here.
		if emit, count, ok, _ := d.Push(r); ok {
			kept = append(kept, emit)
			counts = append(counts, count)
		}
	}
	if emit, count, ok := d.Flush(); ok {
		kept = append(kept, emit)
		counts = append(counts, count)
	}
	return kept, counts
}
