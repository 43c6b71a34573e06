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
	"fmt"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/tabkit/tabkit/compr"
)

// ColumnReport is the flattened, report-ready view of a Column,
// suitable for JSON/YAML marshaling (unlike Column, whose fields
// intentionally mix in unexported accumulator state).
type ColumnReport struct {
	Name string `json:"name"`
	Type string `json:"type"`

	Count     uint64 `json:"count"`
	NullCount uint64 `json:"null_count"`
	MinLen    uint64 `json:"min_length"`
	MaxLen    uint64 `json:"max_length"`

	Min string `json:"min,omitempty"`
	Max string `json:"max,omitempty"`

	Mean   *float64 `json:"mean,omitempty"`
	Stddev *float64 `json:"stddev,omitempty"`
	Sum    *float64 `json:"sum,omitempty"`

	Cardinality *int   `json:"cardinality,omitempty"`
	Modes       string `json:"modes,omitempty"`

	Q1         *float64 `json:"q1,omitempty"`
	Median     *float64 `json:"median,omitempty"`
	Q3         *float64 `json:"q3,omitempty"`
	IQR        *float64 `json:"iqr,omitempty"`
	LowerFence *float64 `json:"lower_fence,omitempty"`
	UpperFence *float64 `json:"upper_fence,omitempty"`
	Skew       *float64 `json:"skew,omitempty"`
}

// Report is the top-level stats report: one ColumnReport per selected
// column, in selection order.
type Report struct {
	Columns []ColumnReport `json:"columns"`
}

// Build converts a slice of finished accumulators into a Report.
func Build(cols []*Column) Report {
	var r Report
	for _, c := range cols {
		r.Columns = append(r.Columns, c.toReport())
	}
	return r
}

func (c *Column) toReport() ColumnReport {
	cr := ColumnReport{
		Name:      c.Name,
		Type:      c.Type.String(),
		Count:     c.Count,
		NullCount: c.NullCount,
		MinLen:    c.MinLen,
		MaxLen:    c.MaxLen,
	}

	switch c.Type {
	case TInt, TFloat:
		if c.hasNumeric {
			min, max := numericExtrema(c)
			cr.Min, cr.Max = min, max
			mean, stddev, sum := c.Mean(), c.Stddev(), c.Sum()
			cr.Mean, cr.Stddev, cr.Sum = &mean, &stddev, &sum
		}
	case TDate:
		if c.hasDate {
			cr.Min = c.DateMin.String()
			cr.Max = c.DateMax.String()
		}
	default:
		if c.hasStr {
			cr.Min = string(c.StrMin)
			cr.Max = string(c.StrMax)
		}
	}

	if c.Mode != nil {
		card := c.Mode.Cardinality()
		cr.Cardinality = &card
		modes := c.Mode.Modes()
		parts := make([]string, len(modes))
		for i, m := range modes {
			parts[i] = string(m)
		}
		cr.Modes = strings.Join(parts, ",")
	}

	if c.Quan != nil && (c.Type == TInt || c.Type == TFloat) {
		q := c.Quan.Compute(c.Mean(), c.Stddev())
		if q.Ok {
			cr.Q1, cr.Median, cr.Q3 = &q.Q1, &q.Median, &q.Q3
			cr.IQR, cr.LowerFence, cr.UpperFence = &q.IQR, &q.LowerFence, &q.UpperFence
			if q.HasSkew {
				cr.Skew = &q.Skew
			}
		}
	}

	return cr
}

func numericExtrema(c *Column) (string, string) {
	if c.Type == TInt {
		return strconv.FormatInt(c.IntMin, 10), strconv.FormatInt(c.IntMax, 10)
	}
	return strconv.FormatFloat(c.FloatMin, 'g', -1, 64), strconv.FormatFloat(c.FloatMax, 'g', -1, 64)
}

// MarshalYAML renders the report as YAML via sigs.k8s.io/yaml (which
// round-trips through the same struct tags as JSON), matching the
// teacher's own choice of YAML library for structured report output.
func (r Report) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// MarshalCompressed renders the report as YAML and then compresses the
// whole block with the named codec ("zstd", "zstd-better", or "s2"),
// for the `--compress` flag on report output. A report is small enough
// that whole-block compression, rather than a streaming codec, is the
// right fit.
func (r Report) MarshalCompressed(codec string) ([]byte, error) {
	y, err := r.MarshalYAML()
	if err != nil {
		return nil, err
	}
	c := compr.Compression(codec)
	if c == nil {
		return nil, fmt.Errorf("stats: unknown compression codec %q", codec)
	}
	return c.Compress(y, nil), nil
}
