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
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tabkit/tabkit/csvio"
)

// PathFor returns the index path for a data file: dataPath + Suffix.
func PathFor(dataPath string) string {
	return dataPath + Suffix
}

// ReadFile loads the index stored at idxPath.
func ReadFile(idxPath string) (*Index, error) {
	f, err := os.Open(idxPath)
	if err != nil {
		return nil, &csvio.IoError{Op: "open " + idxPath, Err: err}
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var offsets []uint64
	for {
		var v uint64
		err := binary.Read(br, binary.BigEndian, &v)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &csvio.IoError{Op: "read " + idxPath, Err: err}
		}
		offsets = append(offsets, v)
	}
	return &Index{Offsets: offsets}, nil
}

// WriteFile atomically persists x to idxPath: it is written to a
// uuid-suffixed temp file in the same directory and then renamed into
// place, so a reader never observes a partially written index (the
// same build-then-rename pattern the teacher uses for signed tenant
// index artifacts).
func WriteFile(idxPath string, x *Index) error {
	dir := filepath.Dir(idxPath)
	tmp := filepath.Join(dir, "."+filepath.Base(idxPath)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &csvio.IoError{Op: "create " + tmp, Err: err}
	}

	bw := bufio.NewWriter(f)
	for _, v := range x.Offsets {
		if err := binary.Write(bw, binary.BigEndian, v); err != nil {
			f.Close()
			os.Remove(tmp)
			return &csvio.IoError{Op: "write " + tmp, Err: err}
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &csvio.IoError{Op: "flush " + tmp, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &csvio.IoError{Op: "sync " + tmp, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &csvio.IoError{Op: "close " + tmp, Err: err}
	}
	if err := os.Rename(tmp, idxPath); err != nil {
		os.Remove(tmp)
		return &csvio.IoError{Op: "rename " + tmp + " to " + idxPath, Err: err}
	}
	return nil
}
