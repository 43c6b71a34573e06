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

	"github.com/tabkit/tabkit/rowindex"
)

// indexCmd (re)builds path's .idx file, regardless of the auto-index
// threshold that gates the other verbs. An index that is already fresh
// is left as it is unless -f is given.
func indexCmd(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	force := fs.Bool("f", false, "rebuild even if an existing index is already fresh")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		exitf("usage: index [-f] <file>")
	}
	path := rest[0]
	cfg := readConfig()
	idxPath := rowindex.PathFor(path)

	if !*force && rowindex.IsFresh(path, idxPath) {
		fmt.Println(idxPath, "already fresh")
		return
	}

	idx, err := rowindex.Build(path, cfg)
	if err != nil {
		exitf("%s", err)
	}
	if err := rowindex.WriteFile(idxPath, idx); err != nil {
		exitf("%s", err)
	}
	fmt.Printf("%s: %d records\n", idxPath, idx.Count())
}
