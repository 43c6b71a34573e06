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

// Package stats is the streaming aggregation core (spec.md section
// 4.5): a per-column type lattice, online accumulators (count,
// min/max, Welford variance, typed sum), and optional unbounded
// accumulators (cardinality/mode, median/quartiles), mergeable as a
// monoid so the parallel map-merge driver can fold worker-local
// results.
package stats

import (
	"strconv"
	"unicode/utf8"

	"github.com/tabkit/tabkit/date"
)

// Type is the inferred lattice type of a field sample (spec.md
// section 4.5.1).
type Type int

const (
	TNull Type = iota
	TInt
	TFloat
	TDate
	TUnicode
	TUnknown
)

func (t Type) String() string {
	switch t {
	case TNull:
		return "null"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TDate:
		return "date"
	case TUnicode:
		return "unicode"
	default:
		return "unknown"
	}
}

// DatePolicy governs when Infer treats a field as TDate: either "try
// every field" or "only these column names", resolved by the caller
// before accumulation begins.
type DatePolicy struct {
	All  bool
	Cols map[string]bool
}

// Allows reports whether column col may be inferred as TDate.
func (p DatePolicy) Allows(col string) bool {
	return p.All || p.Cols[col]
}

// Infer classifies a single field per the type lattice. dateEligible
// is the DatePolicy's decision for the field's column, precomputed by
// the caller once per column rather than re-checked per row.
func Infer(field []byte, dateEligible bool) Type {
	if len(field) == 0 {
		return TNull
	}
	if _, err := strconv.ParseInt(string(field), 10, 64); err == nil {
		return TInt
	}
	if _, err := strconv.ParseFloat(string(field), 64); err == nil {
		return TFloat
	}
	if dateEligible {
		if _, ok := date.Parse(field); ok {
			return TDate
		}
	}
	if !utf8.Valid(field) {
		return TUnknown
	}
	return TUnicode
}

// Join merges two lattice types per spec.md section 4.5.1: TUnknown is
// the absorbing top, TNull is the identity bottom, Int+Float->Float,
// Int/Float/Date joined with Unicode -> Unicode (strings dominate),
// Int/Float joined with Date -> the numeric type (a unixtime
// interpretation).
func Join(a, b Type) Type {
	if a == b {
		return a
	}
	if a == TUnknown || b == TUnknown {
		return TUnknown
	}
	if a == TNull {
		return b
	}
	if b == TNull {
		return a
	}
	switch {
	case isNumeric(a) && isNumeric(b):
		return TFloat
	case isNumeric(a) && b == TDate, isNumeric(b) && a == TDate:
		if a == TDate {
			return b
		}
		return a
	default:
		return TUnicode
	}
}

func isNumeric(t Type) bool { return t == TInt || t == TFloat }
