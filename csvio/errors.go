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

import "fmt"

// FormatError is raised when a file's media type is not one this
// module can treat as delimited text (spec.md section 4.1, 7).
type FormatError struct {
	Path     string
	Detected string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format %q", e.Path, e.Detected)
}

// DialectError is raised for an invalid delimiter/quote/comment byte
// (non-ASCII, or more than one byte after unescaping).
type DialectError struct {
	Reason string
}

func (e *DialectError) Error() string { return "dialect: " + e.Reason }

// NeedsSeekableInputError is raised when a verb requires two passes or
// random access but was given stdin.
type NeedsSeekableInputError struct {
	Verb string
}

func (e *NeedsSeekableInputError) Error() string {
	return fmt.Sprintf("%s: requires a seekable file, not stdin", e.Verb)
}

// IoError wraps an underlying I/O failure encountered while opening or
// reading/writing a configured source or sink.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }
