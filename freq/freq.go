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

// Package freq builds per-column frequency tables (spec.md section
// 4.5.4): value -> count, with case-fold/trim/null-inclusion options,
// top-N limiting with an "Other" collapse row, and the same monoid
// merge shape as the stats core so the parallel map-merge driver can
// fold worker-local tables.
package freq

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Options controls how values are normalized and how the report is
// limited, per spec.md section 4.5.4.
type Options struct {
	CaseFold     bool
	Trim         bool
	IncludeNulls bool
	Ascending    bool   // default is descending by count
	Limit        int    // 0 => unlimited
	UniqueLimit  int    // applies instead of Limit when cardinality == total
	BypassBelow  int    // at or below this many distinct values, limits are bypassed
	OtherSorted  bool   // emit the Other(k) row in sorted position rather than last
	OtherText    string // label for the collapsed row, default "Other"
}

// Table is a single column's frequency table.
type Table struct {
	Name   string
	opt    Options
	counts map[string]uint64
	total  uint64
}

// New returns an empty frequency table for a column named name.
func New(name string, opt Options) *Table {
	return &Table{Name: name, opt: opt, counts: make(map[string]uint64)}
}

// normalize applies the case-fold/trim policy. Invalid UTF-8 bytes are
// preserved verbatim even when CaseFold is set, since folding is only
// defined over valid UTF-8 (spec.md section 4.5.4).
func (t *Table) normalize(field []byte) []byte {
	out := field
	if t.opt.Trim {
		out = bytes.TrimSpace(out)
	}
	if t.opt.CaseFold && utf8.Valid(out) {
		out = bytes.ToLower(out)
	}
	return out
}

// Observe folds one field value into the table.
func (t *Table) Observe(field []byte) {
	if len(field) == 0 && !t.opt.IncludeNulls {
		return
	}
	key := string(t.normalize(field))
	t.counts[key]++
	t.total++
}

// Cardinality returns the number of distinct (normalized) values.
func (t *Table) Cardinality() int { return len(t.counts) }

// Total returns the number of values folded in (after null filtering).
func (t *Table) Total() uint64 { return t.total }

// Row is one reported (value, count) pair, or the collapsed Other(k)
// row when Other is true, in which case OtherK is the number of
// distinct values folded into it.
type Row struct {
	Value  string
	Count  uint64
	Other  bool
	OtherK int
}

// Merge combines two tables for the same logical column computed over
// disjoint record ranges.
func Merge(a, b *Table) *Table {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := &Table{Name: a.Name, opt: a.opt, counts: make(map[string]uint64, len(a.counts)+len(b.counts))}
	for k, v := range a.counts {
		out.counts[k] = v
	}
	for k, v := range b.counts {
		out.counts[k] += v
	}
	out.total = a.total + b.total
	return out
}

// Report computes the ordered, limited row list for the table, per
// spec.md section 4.5.4: descending by count by default (ascending
// when Options.Ascending), ties broken by value byte order, a top-N
// limit (or UniqueLimit when every value is distinct) collapsing the
// remainder into a trailing Other(k) row (or in sorted position, when
// OtherSorted is set) — unless cardinality is at or below
// BypassBelow, in which case no limit is applied at all.
func (t *Table) Report() []Row {
	rows := make([]Row, 0, len(t.counts))
	for v, c := range t.counts {
		rows = append(rows, Row{Value: v, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			if t.opt.Ascending {
				return rows[i].Count < rows[j].Count
			}
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Value < rows[j].Value
	})

	limit := t.opt.Limit
	if t.Cardinality() == int(t.total) && t.opt.UniqueLimit > 0 {
		limit = t.opt.UniqueLimit
	}
	if limit <= 0 || len(rows) <= t.opt.BypassBelow || len(rows) <= limit {
		return rows
	}

	kept := rows[:limit]
	collapsed := rows[limit:]
	var otherCount uint64
	for _, r := range collapsed {
		otherCount += r.Count
	}
	otherText := t.opt.OtherText
	if otherText == "" {
		otherText = "Other"
	}
	other := Row{
		Value:  fmt.Sprintf("%s (%d)", otherText, len(collapsed)),
		Count:  otherCount,
		Other:  true,
		OtherK: len(collapsed),
	}

	if t.opt.OtherSorted {
		out := make([]Row, 0, limit+1)
		inserted := false
		for _, r := range kept {
			if !inserted {
				less := r.Count < other.Count
				if t.opt.Ascending {
					less = r.Count > other.Count
				}
				if less {
					out = append(out, other)
					inserted = true
				}
			}
			out = append(out, r)
		}
		if !inserted {
			out = append(out, other)
		}
		return out
	}

	out := make([]Row, 0, limit+1)
	out = append(out, kept...)
	out = append(out, other)
	return out
}
