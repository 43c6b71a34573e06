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
	"bufio"
	"encoding/csv"
	"io"
	"os"

	"github.com/golang/snappy"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// WriteConfig is the output-side configuration a verb builds from its
// flags. Output is always RFC-4180-conformant regardless of how
// lenient the reader's dialect was (spec.md section 4.1).
type WriteConfig struct {
	Delimiter  byte
	Snappy     bool // force ".sz" framing even if Path has no ".sz" suffix
	BOM        bool // also settable via QSV_OUTPUT_BOM
	BufferSize int  // 0 => DefaultWriteBuffer, overridden by QSV_WTR_BUFFER_CAPACITY
}

func (c WriteConfig) bufferSize() int {
	if c.BufferSize > 0 {
		return c.BufferSize
	}
	if n, ok := envInt(EnvWtrBufferCap); ok && n > 0 {
		return n
	}
	return DefaultWriteBuffer
}

func (c WriteConfig) bom() bool {
	if c.BOM {
		return true
	}
	v, _ := envBool(EnvOutputBOM)
	return v
}

// Sink is an opened output: a csv.Writer plus the handles needed to
// flush and close it in the right order.
type Sink struct {
	*csv.Writer

	bw     *bufio.Writer
	sw     *snappy.Writer
	closer io.Closer
}

// Close flushes the csv.Writer, then the Snappy framer (if present),
// then the underlying buffered writer, then the file handle, checking
// each step's error in turn.
func (s *Sink) Close() error {
	s.Writer.Flush()
	if err := s.Writer.Error(); err != nil {
		return err
	}
	if s.sw != nil {
		if err := s.sw.Close(); err != nil {
			return err
		}
	}
	if err := s.bw.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Create opens path ("" or "-" for stdout) for writing and returns an
// RFC-4180 csv.Writer over it, applying Snappy framing, BOM
// prepending, and buffer sizing per WriteConfig.
func Create(path string, cfg WriteConfig) (*Sink, error) {
	var f *os.File
	var closer io.Closer
	bare, extSnappy := trimExt(path)
	useSnappy := cfg.Snappy || extSnappy

	var out io.Writer
	if IsStdin(path) {
		out = os.Stdout
	} else {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return nil, &IoError{Op: "create " + path, Err: err}
		}
		closer = f
		out = f
	}
	_ = bare

	bw := bufio.NewWriterSize(out, cfg.bufferSize())
	if cfg.bom() {
		if _, err := bw.Write(utf8BOM); err != nil {
			if closer != nil {
				closer.Close()
			}
			return nil, &IoError{Op: "write BOM to " + path, Err: err}
		}
	}

	var sw *snappy.Writer
	var dst io.Writer = bw
	if useSnappy {
		sw = snappy.NewBufferedWriter(bw)
		dst = sw
	}

	delim, err := ResolveDelimiter("", cfg.Delimiter)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	w := csv.NewWriter(dst)
	w.Comma = rune(delim)
	w.UseCRLF = true

	return &Sink{Writer: w, bw: bw, sw: sw, closer: closer}, nil
}
