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
	"math"
	"strconv"

	"github.com/tabkit/tabkit/date"
)

// Column is the online accumulator for one selected column: count,
// null count, byte-length extrema, typed min/max, Welford running
// mean/variance, and a sum that upgrades from integer to float the
// first time a float is observed (spec.md section 4.5.2).
type Column struct {
	Name string

	Count     uint64
	NullCount uint64
	MinLen    uint64
	MaxLen    uint64

	Type Type

	IntMin, IntMax     int64
	FloatMin, FloatMax float64
	DateMin, DateMax   date.Time
	StrMin, StrMax     []byte
	hasNumeric         bool
	hasDate            bool
	hasStr             bool

	mean, m2 float64 // Welford accumulators, over numeric samples only
	nSamples float64

	SumInt     int64
	SumFloat   float64
	sumIsFloat bool

	Mode *ModeAccumulator
	Quan *QuantileAccumulator

	DateEligible bool
}

// NewColumn returns a fresh accumulator for a column named name.
// Mode/cardinality and median/quartile tracking are enabled
// independently since they are unbounded (spec.md section 4.5.3).
func NewColumn(name string, dateEligible, trackMode, trackQuantiles bool) *Column {
	c := &Column{Name: name, DateEligible: dateEligible}
	if trackMode {
		c.Mode = NewModeAccumulator()
	}
	if trackQuantiles {
		c.Quan = NewQuantileAccumulator()
	}
	return c
}

// Observe folds field into the accumulator.
func (c *Column) Observe(field []byte) {
	c.Count++
	n := uint64(len(field))
	if c.Count == 1 || n < c.MinLen {
		c.MinLen = n
	}
	if n > c.MaxLen {
		c.MaxLen = n
	}

	t := Infer(field, c.DateEligible)
	c.Type = Join(c.Type, t)

	if t == TNull {
		c.NullCount++
	}

	switch t {
	case TInt:
		v, _ := strconv.ParseInt(string(field), 10, 64)
		c.observeInt(v)
		c.observeNumericSample(float64(v))
		if c.Quan != nil {
			c.Quan.Observe(float64(v))
		}
	case TFloat:
		v, _ := strconv.ParseFloat(string(field), 64)
		c.observeFloat(v)
		c.observeNumericSample(v)
		if c.Quan != nil {
			c.Quan.Observe(v)
		}
	case TDate:
		d, _ := date.Parse(field)
		c.observeDate(d)
	case TUnicode, TUnknown:
		c.observeStr(field)
	}

	if c.Mode != nil {
		c.Mode.Observe(field)
	}
}

// observeInt folds v into both the integer and the float extrema, so a
// column that mixes int and float samples (and therefore reports as
// TFloat) still reflects every integer sample's contribution to the
// reported min/max.
func (c *Column) observeInt(v int64) {
	if !c.hasNumeric || v < c.IntMin {
		c.IntMin = v
	}
	if !c.hasNumeric || v > c.IntMax {
		c.IntMax = v
	}
	fv := float64(v)
	if !c.hasNumeric || fv < c.FloatMin {
		c.FloatMin = fv
	}
	if !c.hasNumeric || fv > c.FloatMax {
		c.FloatMax = fv
	}
	if !c.sumIsFloat {
		c.SumInt += v
	} else {
		c.SumFloat += float64(v)
	}
	c.hasNumeric = true
}

// observeFloat mirrors observeInt: it folds v into both the float and
// the integer extrema, so a TFloat column's IntMin/IntMax stay in sync
// should a caller ever read them directly.
func (c *Column) observeFloat(v float64) {
	if !c.hasNumeric || v < c.FloatMin {
		c.FloatMin = v
	}
	if !c.hasNumeric || v > c.FloatMax {
		c.FloatMax = v
	}
	iv := int64(v)
	if !c.hasNumeric || iv < c.IntMin {
		c.IntMin = iv
	}
	if !c.hasNumeric || iv > c.IntMax {
		c.IntMax = iv
	}
	if !c.sumIsFloat {
		// upgrade: fold the integer-only sum-so-far into the float sum
		c.SumFloat = float64(c.SumInt) + v
		c.sumIsFloat = true
	} else {
		c.SumFloat += v
	}
	c.hasNumeric = true
}

func (c *Column) observeDate(d date.Time) {
	if !c.hasDate || d.Before(c.DateMin) {
		c.DateMin = d
	}
	if !c.hasDate || d.After(c.DateMax) {
		c.DateMax = d
	}
	c.hasDate = true
}

func (c *Column) observeStr(field []byte) {
	if !c.hasStr || bytes.Compare(field, c.StrMin) < 0 {
		c.StrMin = append([]byte(nil), field...)
	}
	if !c.hasStr || bytes.Compare(field, c.StrMax) > 0 {
		c.StrMax = append([]byte(nil), field...)
	}
	c.hasStr = true
}

// observeNumericSample folds v into the Welford running mean/variance.
func (c *Column) observeNumericSample(v float64) {
	c.nSamples++
	delta := v - c.mean
	c.mean += delta / c.nSamples
	delta2 := v - c.mean
	c.m2 += delta * delta2
}

// Mean returns the running mean over numeric samples.
func (c *Column) Mean() float64 { return c.mean }

// Variance returns the population variance over numeric samples.
func (c *Column) Variance() float64 {
	if c.nSamples == 0 {
		return 0
	}
	return c.m2 / c.nSamples
}

// Stddev returns the population standard deviation.
func (c *Column) Stddev() float64 {
	v := c.Variance()
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// Sum returns the accumulated sum, as a float regardless of whether it
// is currently backed by the integer or float accumulator.
func (c *Column) Sum() float64 {
	if c.sumIsFloat {
		return c.SumFloat
	}
	return float64(c.SumInt)
}
