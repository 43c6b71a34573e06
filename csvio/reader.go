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

// Package csvio is the I/O & configuration core (spec.md section 4.1):
// dialect resolution, the format gate, stdin handling, Snappy
// streaming, and buffer sizing, unified behind Open/Create.
package csvio

import (
	"bufio"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/tabkit/tabkit/record"
)

// ReadConfig is the input-side configuration a verb builds from its
// flags (spec.md section 4.7 step 1).
type ReadConfig struct {
	Delimiter       byte
	Comment         byte
	NoHeaders       bool
	Flexible        bool
	Trim            record.Trim
	BufferSize      int  // 0 => DefaultReadBuffer, overridden by QSV_RDR_BUFFER_CAPACITY
	SkipFormatCheck bool // also settable via QSV_SKIP_FORMAT_CHECK
}

func (c ReadConfig) bufferSize() int {
	if c.BufferSize > 0 {
		return c.BufferSize
	}
	if n, ok := envInt(EnvRdrBufferCap); ok && n > 0 {
		return n
	}
	return DefaultReadBuffer
}

func (c ReadConfig) skipFormatCheck() bool {
	if c.SkipFormatCheck {
		return true
	}
	v, _ := envBool(EnvSkipFormatCheck)
	return v
}

// Source is an opened input: a record stream plus the metadata needed
// to decide whether it can be indexed or re-opened for a second pass.
type Source struct {
	Reader   *record.Reader
	Dialect  record.Dialect
	NoHeaders bool
	// Path is the original path ("" or "-" for stdin).
	Path string
	// Seekable is true when Path names a real, non-Snappy file: it can
	// be indexed and safely reopened for a parallel/second pass.
	Seekable bool
	// Snappy is true when the source is Snappy-framed; per spec.md
	// section 4.1, indexed() must return None for such sources.
	Snappy bool

	closer io.Closer
}

// Close releases any file handle opened by Open. It is a no-op for
// stdin.
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// IsStdin reports whether path refers to stdin, per the CLI convention
// that "-" or the empty string mean stdin wherever a path is accepted.
func IsStdin(path string) bool {
	return path == "" || path == "-"
}

// Open resolves path's dialect and returns a sequential record
// stream over it, applying the format gate, Snappy unwrapping, and
// buffer sizing described in spec.md section 4.1.
func Open(path string, cfg ReadConfig) (*Source, error) {
	if IsStdin(path) {
		d, err := ReaderDialect("", cfg.Delimiter, cfg.Comment, cfg.Trim, cfg.Flexible)
		if err != nil {
			return nil, err
		}
		br := bufio.NewReaderSize(os.Stdin, cfg.bufferSize())
		return &Source{
			Reader:    record.NewReader(br, d),
			Dialect:   d,
			NoHeaders: ResolveNoHeaders(cfg.NoHeaders),
			Path:      path,
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Op: "open " + path, Err: err}
	}

	bare, isSnappy := trimExt(path)
	if !cfg.skipFormatCheck() {
		peek := make([]byte, 512)
		n, _ := io.ReadFull(f, peek)
		peek = peek[:n]
		detected := classify(peek)
		if isSnappy {
			// Snappy-compressed content is opaque to the sniffer;
			// trust the extension rather than the magic bytes of the
			// compressed stream.
		} else if !acceptable(detected) {
			f.Close()
			return nil, &FormatError{Path: path, Detected: detected}
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return nil, &IoError{Op: "seek " + path, Err: err}
		}
	}

	d, err := ReaderDialect(bare, cfg.Delimiter, cfg.Comment, cfg.Trim, cfg.Flexible)
	if err != nil {
		f.Close()
		return nil, err
	}

	var rd io.Reader = bufio.NewReaderSize(f, cfg.bufferSize())
	if isSnappy {
		rd = snappy.NewReader(rd)
	}

	return &Source{
		Reader:    record.NewReader(rd, d),
		Dialect:   d,
		NoHeaders: ResolveNoHeaders(cfg.NoHeaders),
		Path:      path,
		Seekable:  !isSnappy,
		Snappy:    isSnappy,
		closer:    f,
	}, nil
}

// OpenAt is like Open but seeks the underlying file to byte offset pos
// before constructing the record stream; it requires a Seekable
// source. Used by the random-access index core (spec.md section 4.3)
// and the parallel map-merge driver (section 4.5.5) to give each
// worker its own reader positioned at a partition boundary.
func OpenAt(path string, pos uint64, cfg ReadConfig) (*Source, error) {
	if IsStdin(path) {
		return nil, &NeedsSeekableInputError{Verb: "seek"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Op: "open " + path, Err: err}
	}
	bare, isSnappy := trimExt(path)
	if isSnappy {
		f.Close()
		return nil, &IoError{Op: "seek " + path, Err: errNotSeekableSnappy}
	}
	if _, err := f.Seek(int64(pos), io.SeekStart); err != nil {
		f.Close()
		return nil, &IoError{Op: "seek " + path, Err: err}
	}
	d, err := ReaderDialect(bare, cfg.Delimiter, cfg.Comment, cfg.Trim, cfg.Flexible)
	if err != nil {
		f.Close()
		return nil, err
	}
	br := bufio.NewReaderSize(f, cfg.bufferSize())
	return &Source{
		Reader:    record.NewReader(br, d),
		Dialect:   d,
		NoHeaders: ResolveNoHeaders(cfg.NoHeaders),
		Path:      path,
		Seekable:  true,
		closer:    f,
	}, nil
}

var errNotSeekableSnappy = &DialectError{Reason: "cannot seek within a Snappy-compressed stream"}
