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

// Package record defines the canonical byte-record/string-record shapes
// that flow through the rest of this module, and the sequential and
// seekable scanners that produce them.
package record

// ByteRecord is one logical row: an ordered sequence of byte-string
// fields, plus the byte offset of the first byte of the record in its
// source file (0 when the source is not a file, or not yet known).
//
// A ByteRecord returned by (*Reader).Record is only valid until the
// next call to Scan; callers that need to retain a record must Clone it
// first (see package docs and spec.md section 4.2).
type ByteRecord struct {
	Fields [][]byte
	Pos    uint64
}

// Clone returns a deep copy of r that is safe to retain across Scans.
func (r *ByteRecord) Clone() *ByteRecord {
	buf := make([]byte, 0, r.byteLen())
	out := &ByteRecord{Fields: make([][]byte, len(r.Fields)), Pos: r.Pos}
	for i, f := range r.Fields {
		start := len(buf)
		buf = append(buf, f...)
		out.Fields[i] = buf[start:len(buf):len(buf)]
	}
	return out
}

func (r *ByteRecord) byteLen() int {
	n := 0
	for _, f := range r.Fields {
		n += len(f)
	}
	return n
}

// StringRecord is the Unicode-aware counterpart to ByteRecord, used
// only when a verb needs string semantics (case folding, comparisons).
type StringRecord struct {
	Fields []string
	Pos    uint64
}

// ToString converts r into a StringRecord. The returned record does not
// alias r's storage, so it is safe to retain independently of r.
func (r *ByteRecord) ToString() *StringRecord {
	out := &StringRecord{Fields: make([]string, len(r.Fields)), Pos: r.Pos}
	for i, f := range r.Fields {
		out.Fields[i] = string(f)
	}
	return out
}

// Len returns the number of fields, equal for both record shapes.
func (r *ByteRecord) Len() int { return len(r.Fields) }
