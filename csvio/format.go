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
	"bytes"
	"net/http"
	"strings"
)

// snappyStreamMagic is the Snappy framing format's fixed stream
// identifier chunk (chunk type 0xff, length 6, "sNaPpY").
var snappyStreamMagic = []byte{0xff, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}

// classify inspects up to the first 512 bytes of a file and reports
// the detected media type, per spec.md section 4.1's format gate.
// Acceptable results are "empty", "application/octet-stream" (treated as
// generic binary and let through), "application/x-snappy-framed", and
// anything beginning with "text/".
func classify(peek []byte) string {
	if len(peek) == 0 {
		return "empty"
	}
	if bytes.HasPrefix(peek, snappyStreamMagic) {
		return "application/x-snappy-framed"
	}
	return http.DetectContentType(peek)
}

// acceptable reports whether detected passes the format gate.
func acceptable(detected string) bool {
	switch {
	case detected == "empty":
		return true
	case detected == "application/x-snappy-framed":
		return true
	case detected == "application/octet-stream":
		return true
	case strings.HasPrefix(detected, "text/"):
		return true
	default:
		return false
	}
}
