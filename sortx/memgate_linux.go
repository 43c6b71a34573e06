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

//go:build linux

package sortx

import (
	"fmt"
	"os"
)

// totalMemory reads MemTotal out of /proc/meminfo. Unlike the
// single-shot, panic-on-failure init() this is adapted from, it is
// re-read on every call and degrades to 0 on any error instead of
// crashing the process — a CLI tool running in a container with a
// nonstandard /proc must still be able to sort, just without the gate.
func totalMemory() int64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	var kb int64
	for {
		n, err := fmt.Fscanf(f, "MemTotal: %d kB\n", &kb)
		if n > 0 {
			return kb * 1024
		}
		if err != nil {
			return 0
		}
	}
}
