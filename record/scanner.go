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

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ParseError reports a malformed record: an unterminated quote or a
// dangling escape byte at end of input (spec.md section 4.2, 7).
type ParseError struct {
	Line int
	Byte uint64
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record: parse error at line %d, byte %d: %s", e.Line, e.Byte, e.Msg)
}

// Reader is the sequential byte-record stream described in spec.md
// section 4.2. It reuses a single ByteRecord (and its backing field
// buffer) across calls to Scan: the contract is "borrow now, or Clone
// to retain" — mirroring the teacher's xsv.CsvChopper/TsvChopper, which
// set csv.Reader.ReuseRecord and reuse their starts/ends/fields slices
// for the same reason.
type Reader struct {
	src     *bufio.Reader
	dialect Dialect

	pos  uint64
	line int

	rec    ByteRecord
	buf    []byte
	starts []int
	ends   []int

	headerSeen bool
	err        error
}

// NewReader constructs a Reader over r using dialect d.
func NewReader(r io.Reader, d Dialect) *Reader {
	return &Reader{
		src:     bufio.NewReaderSize(r, 64*1024),
		dialect: d,
		line:    1,
	}
}

// Pos returns the byte offset of the next record to be scanned.
func (s *Reader) Pos() uint64 { return s.pos }

// Err returns the first non-EOF error encountered by Scan.
func (s *Reader) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Record returns the most recently scanned record. The returned value
// is only valid until the next call to Scan.
func (s *Reader) Record() *ByteRecord { return &s.rec }

// Scan reads the next record into the reader's internal buffer. It
// returns false at EOF or on error; distinguish the two with Err.
func (s *Reader) Scan() bool {
	if s.err != nil {
		return false
	}
	for {
		ok, skipped, err := s.scanOne()
		if err != nil {
			s.err = err
			return false
		}
		if skipped {
			continue
		}
		return ok
	}
}

// scanOne reads one physical record. skipped is true when the "record"
// was actually a comment line and the caller should try again.
func (s *Reader) scanOne() (ok bool, skipped bool, err error) {
	d := &s.dialect
	startPos := s.pos
	s.buf = s.buf[:0]
	s.starts = s.starts[:0]
	s.ends = s.ends[:0]

	fieldStart := 0
	col := 0
	inQuotes := false
	any := false
	atRecordStart := true

	finishField := func() {
		s.starts = append(s.starts, fieldStart)
		s.ends = append(s.ends, col)
		fieldStart = col
	}

	for {
		b, rerr := s.src.ReadByte()
		if rerr != nil {
			if rerr != io.EOF {
				return false, false, rerr
			}
			if inQuotes {
				return false, false, &ParseError{Line: s.line, Byte: s.pos, Msg: "unterminated quoted field"}
			}
			if !any {
				return false, false, io.EOF
			}
			finishField()
			s.materialize(startPos)
			return true, false, nil
		}
		s.pos++
		any = true

		if atRecordStart && d.Comment != 0 && b == d.Comment {
			if err := s.skipLine(); err != nil {
				return false, false, err
			}
			return false, true, nil
		}
		atRecordStart = false

		if inQuotes {
			if d.Escape != 0 && b == d.Escape {
				nb, rerr := s.src.ReadByte()
				if rerr != nil {
					return false, false, &ParseError{Line: s.line, Byte: s.pos, Msg: "dangling escape at end of input"}
				}
				s.pos++
				s.buf = append(s.buf, nb)
				col++
				continue
			}
			if b == d.Quote {
				if d.DoubleQuote {
					nb, rerr := s.src.ReadByte()
					if rerr == nil && nb == d.Quote {
						s.pos++
						s.buf = append(s.buf, d.Quote)
						col++
						continue
					}
					if rerr == nil {
						s.src.UnreadByte()
						s.pos--
					}
				}
				inQuotes = false
				continue
			}
			if b == '\n' {
				s.line++
			}
			s.buf = append(s.buf, b)
			col++
			continue
		}

		switch {
		case d.QuotingEnabled && b == d.Quote && col == fieldStart:
			inQuotes = true
		case b == d.Delimiter:
			finishField()
		case d.Terminator.CRLF && b == '\n', !d.Terminator.CRLF && b == d.Terminator.Byte:
			if d.Terminator.CRLF && col > fieldStart && s.buf[col-1] == '\r' {
				col--
				s.buf = s.buf[:len(s.buf)-1]
			}
			finishField()
			s.line++
			s.materialize(startPos)
			return true, false, nil
		default:
			s.buf = append(s.buf, b)
			col++
		}
	}
}

func (s *Reader) skipLine() error {
	term := s.dialect.Terminator
	for {
		b, err := s.src.ReadByte()
		if err != nil {
			return nil
		}
		s.pos++
		if (term.CRLF && b == '\n') || (!term.CRLF && b == term.Byte) {
			s.line++
			return nil
		}
	}
}

func (s *Reader) materialize(startPos uint64) {
	n := len(s.starts)
	if cap(s.rec.Fields) < n {
		s.rec.Fields = make([][]byte, n)
	} else {
		s.rec.Fields = s.rec.Fields[:n]
	}
	isHeaderRow := !s.headerSeen
	for i := 0; i < n; i++ {
		field := s.buf[s.starts[i]:s.ends[i]]
		s.rec.Fields[i] = trimField(field, s.dialect.Trim, isHeaderRow)
	}
	s.rec.Pos = startPos
	s.headerSeen = true
}

// trimField applies the trim policy to one field. isHeader indicates
// whether this field belongs to the header row currently being
// materialized.
func trimField(f []byte, t Trim, isHeader bool) []byte {
	switch t {
	case TrimAll:
		return bytes.TrimSpace(f)
	case TrimHeaders:
		if isHeader {
			return bytes.TrimSpace(f)
		}
	case TrimFields:
		if !isHeader {
			return bytes.TrimSpace(f)
		}
	}
	return f
}
