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

package record

// Trim controls which cells get leading/trailing whitespace trimmed
// before a record is handed to a consumer (spec.md section 3).
type Trim int

const (
	TrimNone Trim = iota
	TrimHeaders
	TrimFields
	TrimAll
)

// Terminator is either the tolerant CRLF/LF convention or a single
// explicit byte.
type Terminator struct {
	CRLF bool
	Byte byte // used only when !CRLF
}

// CRLFTerminator is the default: lines end in "\n", optionally
// preceded by "\r", which is stripped.
var CRLFTerminator = Terminator{CRLF: true}

// Dialect is the full set of lexical parameters that determine how
// bytes become records (spec.md section 3). The reader dialect and
// writer dialect are independent: the reader tolerates irregularities
// that the writer never emits.
type Dialect struct {
	Delimiter      byte
	Quote          byte
	Escape         byte // 0 means "no escape character"
	DoubleQuote    bool
	QuotingEnabled bool
	Terminator     Terminator
	Comment        byte // 0 means "no comment character"
	Flexible       bool
	Trim           Trim
}

// Default returns the RFC-4180-ish default dialect: comma-delimited,
// double-quote quoted, CRLF/LF terminated, no comments, no trimming.
func Default() Dialect {
	return Dialect{
		Delimiter:      ',',
		Quote:          '"',
		DoubleQuote:    true,
		QuotingEnabled: true,
		Terminator:     CRLFTerminator,
		Flexible:       true,
	}
}

// WithDelimiter returns a copy of d with Delimiter set to b.
func (d Dialect) WithDelimiter(b byte) Dialect {
	d.Delimiter = b
	return d
}
