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

import "github.com/tabkit/tabkit/heap"

// Row is one CSV record flowing through the sort pipeline: its full
// field tuple (for output) alongside the Key the Comparator compares
// (the selected sort-key columns, extracted once up front).
type Row struct {
	Fields [][]byte
	Key    Key
}

// Ktop keeps the limit smallest rows seen so far under a Comparator,
// without ever holding more than limit rows at once. It is the early
// exit for "--limit N" sorts: instead of sorting the whole input, the
// driver streams rows through Ktop and only the survivors get a final
// sort (spec.md section 4.6's k-top crossover).
//
// Rows are stored once and referenced by index so that heap
// maintenance only ever swaps ints, never whole field tuples.
type Ktop struct {
	indirect []int
	rows     []Row
	cmp      Comparator
	limit    int
}

// NewKtop constructs a Ktop that retains at most limit rows.
func NewKtop(limit int, cmp Comparator) *Ktop {
	return &Ktop{cmp: cmp, limit: limit}
}

// Add offers rec to the collection, cloning its backing bytes first
// when keep is true (the caller's buffer is about to be reused).
// Returns whether rec was retained.
func (k *Ktop) Add(rec Row, keep bool) bool {
	if keep {
		rec = cloneRow(rec)
	}
	if len(k.rows) < k.limit {
		n := len(k.rows)
		k.rows = append(k.rows, rec)
		heap.PushSlice(&k.indirect, n, k.greater)
		return true
	}
	if len(k.indirect) == 0 {
		return false
	}
	root := k.rows[k.indirect[0]]
	if k.cmp.Compare(root.Key, rec.Key) > 0 {
		k.rows[k.indirect[0]] = rec
		heap.FixSlice(k.indirect, 0, k.greater)
		return true
	}
	return false
}

// Greatest returns the row furthest from the beginning of the sort
// order currently held, or nil when empty.
func (k *Ktop) Greatest() *Row {
	if len(k.indirect) == 0 {
		return nil
	}
	return &k.rows[k.indirect[0]]
}

// Full reports whether the collection holds limit rows.
func (k *Ktop) Full() bool { return len(k.indirect) == k.limit }

// Merge folds another Ktop's rows into this one.
func (k *Ktop) Merge(o *Ktop) {
	for _, i := range o.indirect {
		k.Add(o.rows[i], false)
	}
}

// Capture drains the collection in ascending sort order and resets it.
func (k *Ktop) Capture() []Row {
	result := make([]Row, len(k.indirect))
	i := len(k.indirect) - 1
	for len(k.indirect) > 0 {
		idx := heap.PopSlice(&k.indirect, k.greater)
		result[i] = k.rows[idx]
		i--
	}
	k.rows = nil
	return result
}

// greater is the heap "less" predicate: ordering the heap by the
// reverse sort relation puts the single greatest held row at the
// root, which is exactly the row a smaller arrival should evict.
func (k *Ktop) greater(lhsIdx, rhsIdx int) bool {
	return k.cmp.Compare(k.rows[lhsIdx].Key, k.rows[rhsIdx].Key) > 0
}

func cloneRow(r Row) Row {
	buf := make([]byte, 0, rowByteLen(r))
	out := Row{Fields: make([][]byte, len(r.Fields)), Key: make(Key, len(r.Key))}
	for i, f := range r.Fields {
		start := len(buf)
		buf = append(buf, f...)
		out.Fields[i] = buf[start:len(buf):len(buf)]
	}
	for i, f := range r.Key {
		start := len(buf)
		buf = append(buf, f...)
		out.Key[i] = buf[start:len(buf):len(buf)]
	}
	return out
}

func rowByteLen(r Row) int {
	n := 0
	for _, f := range r.Fields {
		n += len(f)
	}
	for _, f := range r.Key {
		n += len(f)
	}
	return n
}
