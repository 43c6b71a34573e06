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

// Package rowindex is the random-access index core (spec.md section
// 4.3): byte-offset indexing for O(1) row seek, staleness detection,
// auto-indexing, and the IndexedReader surface the parallel map-merge
// driver builds on.
package rowindex

import "errors"

// Suffix is the filename suffix an index file is stored under, next
// to the data file it indexes.
const Suffix = ".idx"

// ErrOutOfRange is returned by Seek when the requested record index
// is beyond the indexed record count.
var ErrOutOfRange = errors.New("rowindex: record index out of range")

// Index is a sequence of N+1 byte offsets for a file of N records
// (including the header, when present): entry i (i < N) is the byte
// offset of the first byte of record i, and the final entry doubles
// as the total record count, so Count is an O(1) slice access rather
// than a second counting pass.
type Index struct {
	Offsets []uint64
}

// Count returns the number of records the index covers.
func (x *Index) Count() int {
	if len(x.Offsets) == 0 {
		return 0
	}
	return int(x.Offsets[len(x.Offsets)-1])
}

// Offset returns the byte offset of record i's first byte.
func (x *Index) Offset(i int) (uint64, error) {
	if i < 0 || i >= x.Count() {
		return 0, ErrOutOfRange
	}
	return x.Offsets[i], nil
}
