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

package main

import (
	"flag"
	"fmt"
)

// countCmd reports the number of data records (header excluded) in
// path, taking the O(1) path through an index when one is fresh or
// can be auto-built, and falling back to a full scan otherwise.
func countCmd(args []string) {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		exitf("usage: count <file>")
	}
	path := rest[0]
	cfg := readConfig()

	if idx := ensureIndex(path, cfg); idx != nil {
		n := idx.Count()
		if !cfg.NoHeaders {
			n--
		}
		fmt.Println(n)
		return
	}

	src, _ := openSource(path)
	defer src.Close()
	n := 0
	for src.Reader.Scan() {
		n++
	}
	if err := src.Reader.Err(); err != nil {
		exitf("%s", err)
	}
	fmt.Println(n)
}
