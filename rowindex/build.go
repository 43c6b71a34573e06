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

package rowindex

import (
	"github.com/tabkit/tabkit/csvio"
)

// Build scans path under cfg and returns the offset index for it. The
// source must be seekable: Snappy-compressed data (and stdin) cannot
// be indexed, per spec.md section 4.1 ("indexed() returns None").
func Build(path string, cfg csvio.ReadConfig) (*Index, error) {
	if csvio.IsStdin(path) {
		return nil, &csvio.NeedsSeekableInputError{Verb: "index"}
	}

	src, err := csvio.Open(path, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if src.Snappy || !src.Seekable {
		return nil, &csvio.DialectError{Reason: "cannot index a Snappy-compressed file"}
	}

	var offsets []uint64
	for src.Reader.Scan() {
		offsets = append(offsets, src.Reader.Record().Pos)
	}
	if err := src.Reader.Err(); err != nil {
		return nil, err
	}

	n := uint64(len(offsets))
	offsets = append(offsets, n)
	return &Index{Offsets: offsets}, nil
}
