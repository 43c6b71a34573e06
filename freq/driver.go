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

package freq

import (
	"github.com/tabkit/tabkit/record"
	"github.com/tabkit/tabkit/selection"
)

// NewTables allocates one fresh table per selected column.
func NewTables(sel *selection.Selection, header []string, noHeaders bool, opt Options) []*Table {
	idxs := sel.Iter()
	tables := make([]*Table, len(idxs))
	for i, idx := range idxs {
		name := ""
		if !noHeaders && idx < len(header) {
			name = header[idx]
		}
		tables[i] = New(name, opt)
	}
	return tables
}

// ObserveRecord folds one record's selected fields into tables, in
// selection order.
func ObserveRecord(tables []*Table, sel *selection.Selection, rec *record.ByteRecord) {
	for i, idx := range sel.Iter() {
		if idx < len(rec.Fields) {
			tables[i].Observe(rec.Fields[idx])
		}
	}
}

// MergeTables folds b into a, table-by-table.
func MergeTables(a, b []*Table) []*Table {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := make([]*Table, len(a))
	for i := range a {
		out[i] = Merge(a[i], b[i])
	}
	return out
}
