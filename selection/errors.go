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

// Package selection implements the column-selector grammar and
// resolver from spec.md section 4.4: names, 1-based indices, ranges,
// regexes, and negation resolved against a header into an ordered
// multiset of 0-based column indices.
package selection

import "fmt"

// SyntaxError is raised by Parse on a malformed selector expression.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("selection: %s (at byte %d in %q)", e.Msg, e.Pos, e.Expr)
}

// UnknownColumn is raised by Resolve when a name term matches no
// header cell.
type UnknownColumn struct {
	Name string
}

func (e *UnknownColumn) Error() string { return fmt.Sprintf("unknown column %q", e.Name) }

// AmbiguousColumn is raised by Resolve when a bare name term (no
// explicit occurrence) matches more than one header cell.
type AmbiguousColumn struct {
	Name      string
	Positions []int
}

func (e *AmbiguousColumn) Error() string {
	return fmt.Sprintf("column %q is ambiguous, occurs at positions %v", e.Name, e.Positions)
}

// IndexOutOfRange is raised by Resolve when a 1-based index term (or
// an occurrence index) falls outside the header's width.
type IndexOutOfRange struct {
	Index int
	Width int
}

func (e *IndexOutOfRange) Error() string {
	return fmt.Sprintf("column index %d out of range for %d columns", e.Index, e.Width)
}
