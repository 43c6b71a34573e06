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
	"os"
	"strconv"
)

// Environment variable names from spec.md section 6. Precedence,
// highest to lowest, is always: explicit flag > environment variable >
// built-in default.
const (
	EnvDefaultDelimiter = "QSV_DEFAULT_DELIMITER"
	EnvNoHeaders        = "QSV_NO_HEADERS"
	EnvSniffDelimiter   = "QSV_SNIFF_DELIMITER"
	EnvCommentChar      = "QSV_COMMENT_CHAR"
	EnvAutoindexSize    = "QSV_AUTOINDEX_SIZE"
	EnvRdrBufferCap     = "QSV_RDR_BUFFER_CAPACITY"
	EnvWtrBufferCap     = "QSV_WTR_BUFFER_CAPACITY"
	EnvOutputBOM        = "QSV_OUTPUT_BOM"
	EnvSkipFormatCheck  = "QSV_SKIP_FORMAT_CHECK"
	EnvMaxJobs          = "QSV_MAX_JOBS"
)

const (
	// DefaultReadBuffer is the default reader buffer size (128 KiB).
	DefaultReadBuffer = 128 * 1024
	// DefaultWriteBuffer is the default writer buffer size (512 KiB).
	DefaultWriteBuffer = 512 * 1024
)

func envBool(name string) (bool, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func envInt(name string) (int, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envInt64(name string) (int64, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envByte(name string) (byte, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return 0, false
	}
	b, ok := parseDelimByte(v)
	return b, ok
}
