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

import "golang.org/x/exp/slices"

// Selection is the resolved form of a selector expression: an ordered
// multiset of 0-based column indices (spec.md section 4.4).
type Selection struct {
	indices []int
	width   int
}

// All returns a Selection over every column 0..width-1, in order; it
// is the identity projection used when a verb is given no selector.
func All(width int) *Selection {
	idx := make([]int, width)
	for i := range idx {
		idx[i] = i
	}
	return &Selection{indices: idx, width: width}
}

// Iter returns the selection's indices in the order the selector
// expression produced them, duplicates included.
func (s *Selection) Iter() []int { return s.indices }

// Len reports the number of indices the selection produces per row,
// including duplicates.
func (s *Selection) Len() int { return len(s.indices) }

// Select projects record's fields through the selection, in the
// selection's own order (not the record's). The returned slice aliases
// record's backing fields, so it is only valid until the caller's next
// read from the same stream (the reuse contract the record package
// already documents).
func (s *Selection) Select(record [][]byte) [][]byte {
	out := make([][]byte, len(s.indices))
	for i, idx := range s.indices {
		if idx < len(record) {
			out[i] = record[idx]
		}
	}
	return out
}

// SelectStrings is Select's []string counterpart, for the already
// decoded StringRecord path.
func (s *Selection) SelectStrings(fields []string) []string {
	out := make([]string, len(s.indices))
	for i, idx := range s.indices {
		if idx < len(fields) {
			out[i] = fields[idx]
		}
	}
	return out
}

// Normal returns a new Selection over the same indices deduplicated
// and sorted ascending, the form stats/freq use internally so that a
// column is only ever accumulated into once regardless of how many
// times the user's expression named it.
func (s *Selection) Normal() *Selection {
	cp := slices.Clone(s.indices)
	slices.Sort(cp)
	cp = slices.Compact(cp)
	return &Selection{indices: cp, width: s.width}
}
