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

package sortx

import "fmt"

// OutOfMemoryRefusal is returned when a conservative heuristic
// predicts an in-memory sort would exhaust the machine's DRAM
// (spec.md section 4.6's memory gate).
type OutOfMemoryRefusal struct {
	Need, Have int64
}

func (e *OutOfMemoryRefusal) Error() string {
	return fmt.Sprintf("sortx: refusing in-memory sort of ~%d bytes with only %d bytes of DRAM available", e.Need, e.Have)
}

// estimatedOverhead is how many times larger than the raw file size an
// in-memory sort's working set tends to be: one copy of the bytes, one
// slice header per field, and room for the sort's own scratch space.
const estimatedOverhead = 3

// GateInMemorySort estimates the working set an in-memory sort of a
// fileSize-byte input would need and refuses when it would exceed a
// conservative share of total DRAM. total <= 0 means "unknown" (the
// platform query failed, or isn't implemented) and the gate always
// allows the sort — an absent reading must never block a sort that
// would otherwise have succeeded.
func GateInMemorySort(fileSize int64, total int64) error {
	if total <= 0 {
		return nil
	}
	need := fileSize * estimatedOverhead
	budget := total / 2
	if need > budget {
		return &OutOfMemoryRefusal{Need: need, Have: budget}
	}
	return nil
}

// TotalMemory returns the machine's total usable DRAM in bytes, or 0
// if it could not be determined on this platform.
func TotalMemory() int64 {
	return totalMemory()
}
