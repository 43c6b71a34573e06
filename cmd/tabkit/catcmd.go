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

import "flag"

// catCmd concatenates one or more files' data records onto a single
// output stream, writing only the first file's header.
func catCmd(args []string) {
	fs := flag.NewFlagSet("cat", flag.ExitOnError)
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) == 0 {
		exitf("usage: cat <file>...")
	}

	sink := createSink()
	defer sink.Close()

	for i, path := range rest {
		src, header := openSource(path)
		if i == 0 && header != nil {
			writeRow(sink, stringsToBytes(header))
		}
		for src.Reader.Scan() {
			writeRow(sink, src.Reader.Record().Fields)
		}
		if err := src.Reader.Err(); err != nil {
			src.Close()
			exitf("%s: %s", path, err)
		}
		src.Close()
	}
}
