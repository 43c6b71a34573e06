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

package stats

import (
	"github.com/tabkit/tabkit/record"
	"github.com/tabkit/tabkit/selection"
)

// Options controls which optional accumulators NewColumns enables, per
// spec.md section 4.5.3.
type Options struct {
	DatePolicy     DatePolicy
	TrackMode      bool
	TrackQuantiles bool
}

// NewColumns allocates one fresh accumulator per selected column,
// named from header when available.
func NewColumns(sel *selection.Selection, header []string, noHeaders bool, opt Options) []*Column {
	idxs := sel.Iter()
	cols := make([]*Column, len(idxs))
	for i, idx := range idxs {
		name := ""
		if !noHeaders && idx < len(header) {
			name = header[idx]
		}
		cols[i] = NewColumn(name, opt.DatePolicy.Allows(name), opt.TrackMode, opt.TrackQuantiles)
	}
	return cols
}

// ObserveRecord folds one record's selected fields into cols, in
// selection order.
func ObserveRecord(cols []*Column, sel *selection.Selection, rec *record.ByteRecord) {
	for i, idx := range sel.Iter() {
		if idx < len(rec.Fields) {
			cols[i].Observe(rec.Fields[idx])
		}
	}
}

// MergeColumns merges b with a column-by-column (both slices must be
// the same length and in the same selection order) into a new slice,
// which it returns — the per-chunk reduction step the
// parallel map-merge driver performs (spec.md section 4.5.5).
func MergeColumns(a, b []*Column) []*Column {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := make([]*Column, len(a))
	for i := range a {
		out[i] = Merge(a[i], b[i])
	}
	return out
}
