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

package csvio

import (
	"path/filepath"
	"strings"

	"github.com/tabkit/tabkit/record"
)

// parseDelimByte accepts either a literal single byte or the two-rune
// escape "\t", matching the CLI contract in spec.md section 6
// ("\t accepted as tab").
func parseDelimByte(s string) (byte, bool) {
	switch s {
	case `\t`:
		return '\t', true
	}
	if len(s) != 1 || s[0] > 0x7f {
		return 0, false
	}
	return s[0], true
}

// trimExt strips a trailing ".sz" (matched case-insensitively) and
// returns the remaining path, its case preserved, along with whether
// the suffix was present (which enables Snappy streaming).
func trimExt(path string) (rest string, snappy bool) {
	if strings.HasSuffix(strings.ToLower(path), ".sz") {
		return path[:len(path)-3], true
	}
	return path, false
}

// inferDelimiter maps a file extension to its default delimiter, per
// spec.md section 4.1: .tsv/.tab -> TAB, .ssv -> ';', .csv/other -> ','.
func inferDelimiter(path string) byte {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	case ".ssv":
		return ';'
	default:
		return ','
	}
}

// ResolveDelimiter implements the precedence chain from spec.md
// section 4.1/6: explicit flag > QSV_DEFAULT_DELIMITER > extension
// inference > ','.
func ResolveDelimiter(path string, explicit byte) (byte, error) {
	if explicit != 0 {
		if explicit > 0x7f {
			return 0, &DialectError{Reason: "delimiter must be a single ASCII byte"}
		}
		return explicit, nil
	}
	if b, ok := envByte(EnvDefaultDelimiter); ok {
		return b, nil
	}
	bare, _ := trimExt(path)
	return inferDelimiter(bare), nil
}

// ResolveComment returns the comment byte to use: explicit flag,
// then QSV_COMMENT_CHAR, then "no comment character" (0).
func ResolveComment(explicit byte) byte {
	if explicit != 0 {
		return explicit
	}
	if v, ok := envByte(EnvCommentChar); ok {
		return v
	}
	return 0
}

// ResolveNoHeaders returns whether the first record should be treated
// as data rather than a header: explicit flag wins, else QSV_NO_HEADERS.
func ResolveNoHeaders(explicit bool) bool {
	if explicit {
		return true
	}
	v, _ := envBool(EnvNoHeaders)
	return v
}

// ReaderDialect builds the dialect that Open will use for path,
// applying the full precedence chain. comment/trim/flexible are the
// reader-side policy knobs that are independent of the delimiter.
func ReaderDialect(path string, delimiter byte, comment byte, trim record.Trim, flexible bool) (record.Dialect, error) {
	delim, err := ResolveDelimiter(path, delimiter)
	if err != nil {
		return record.Dialect{}, err
	}
	d := record.Default()
	d.Delimiter = delim
	d.Comment = ResolveComment(comment)
	d.Trim = trim
	d.Flexible = flexible
	return d, nil
}

// WriterDialect builds the (always RFC-4180-conformant) dialect the
// writer uses; it honors an explicit delimiter override but otherwise
// always emits well-formed output regardless of the reader's leniency.
func WriterDialect(delimiter byte) (record.Dialect, error) {
	delim, err := ResolveDelimiter("", delimiter)
	if err != nil {
		return record.Dialect{}, err
	}
	d := record.Default()
	d.Delimiter = delim
	return d, nil
}
