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

package date

import (
	"bytes"
	"time"
)

// layouts is tried in order; the first one that parses
// the whole trimmed buffer wins. Ordered roughly from
// most to least specific so that, e.g., a date-only
// string is never misread as a truncated timestamp.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"15:04:05",
}

// parse recognizes the same family of timestamp strings
// that the Sneller date package's assembly-backed scanner
// recognized: RFC3339(-ish) timestamps with optional
// fractional seconds and an optional zone, plus a handful
// of bare-date/bare-time fallbacks so that TDate inference
// (spec.md section 4.5.1) fires on ordinary CSV date
// columns, not just full timestamps.
func parse(data []byte) (year, month, day, hour, min, sec, ns int, ok bool) {
	s := string(bytes.TrimSpace(data))
	if s == "" {
		return 0, 0, 0, 0, 0, 0, 0, false
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		return t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), true
	}
	return 0, 0, 0, 0, 0, 0, 0, false
}
