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
	"bytes"

	"github.com/tabkit/tabkit/date"
)

func earlier(a, b date.Time) date.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func later(a, b date.Time) date.Time {
	if a.After(b) {
		return a
	}
	return b
}

// Merge combines two Column accumulators for the same logical column
// computed over disjoint record ranges, satisfying the monoid laws
// spec.md section 4.5.5 requires of the parallel map-merge driver:
// merge(empty, x) = x and merge is associative, so results are
// identical between the sequential and parallel paths.
func Merge(a, b *Column) *Column {
	if a == nil || a.Count == 0 {
		return b
	}
	if b == nil || b.Count == 0 {
		return a
	}

	out := &Column{Name: a.Name, DateEligible: a.DateEligible}
	out.Count = a.Count + b.Count
	out.NullCount = a.NullCount + b.NullCount
	out.MinLen = minU64(a.MinLen, b.MinLen)
	out.MaxLen = maxU64(a.MaxLen, b.MaxLen)
	out.Type = Join(a.Type, b.Type)

	out.hasNumeric = a.hasNumeric || b.hasNumeric
	switch {
	case a.hasNumeric && b.hasNumeric:
		out.IntMin, out.IntMax = minI64(a.IntMin, b.IntMin), maxI64(a.IntMax, b.IntMax)
		out.FloatMin, out.FloatMax = minF64(a.FloatMin, b.FloatMin), maxF64(a.FloatMax, b.FloatMax)
	case a.hasNumeric:
		out.IntMin, out.IntMax = a.IntMin, a.IntMax
		out.FloatMin, out.FloatMax = a.FloatMin, a.FloatMax
	case b.hasNumeric:
		out.IntMin, out.IntMax = b.IntMin, b.IntMax
		out.FloatMin, out.FloatMax = b.FloatMin, b.FloatMax
	}

	out.hasDate = a.hasDate || b.hasDate
	switch {
	case a.hasDate && b.hasDate:
		out.DateMin = earlier(a.DateMin, b.DateMin)
		out.DateMax = later(a.DateMax, b.DateMax)
	case a.hasDate:
		out.DateMin, out.DateMax = a.DateMin, a.DateMax
	case b.hasDate:
		out.DateMin, out.DateMax = b.DateMin, b.DateMax
	}

	out.hasStr = a.hasStr || b.hasStr
	switch {
	case a.hasStr && b.hasStr:
		out.StrMin = minBytes(a.StrMin, b.StrMin)
		out.StrMax = maxBytes(a.StrMax, b.StrMax)
	case a.hasStr:
		out.StrMin, out.StrMax = a.StrMin, a.StrMax
	case b.hasStr:
		out.StrMin, out.StrMax = b.StrMin, b.StrMax
	}

	out.sumIsFloat = a.sumIsFloat || b.sumIsFloat
	if out.sumIsFloat {
		out.SumFloat = a.Sum() + b.Sum()
	} else {
		out.SumInt = a.SumInt + b.SumInt
	}

	// Parallel combination of Welford accumulators (Chan et al.): exact
	// regardless of how the samples were partitioned.
	na, nb := a.nSamples, b.nSamples
	if na+nb > 0 {
		delta := b.mean - a.mean
		out.nSamples = na + nb
		out.mean = a.mean + delta*nb/out.nSamples
		out.m2 = a.m2 + b.m2 + delta*delta*na*nb/out.nSamples
	}

	if a.Mode != nil || b.Mode != nil {
		out.Mode = MergeMode(a.Mode, b.Mode)
	}
	if a.Quan != nil || b.Quan != nil {
		out.Quan = MergeQuantile(a.Quan, b.Quan)
	}

	return out
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
func minF64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func maxF64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
func minBytes(a, b []byte) []byte {
	if bytes.Compare(a, b) <= 0 {
		return a
	}
	return b
}
func maxBytes(a, b []byte) []byte {
	if bytes.Compare(a, b) >= 0 {
		return a
	}
	return b
}
