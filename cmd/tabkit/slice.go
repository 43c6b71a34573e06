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

	"github.com/tabkit/tabkit/rowindex"
)

// sliceCmd emits the half-open record range [start, end). When a
// fresh or auto-buildable index exists it seeks straight to start;
// otherwise it streams the whole file and skips the leading records.
func sliceCmd(args []string) {
	fs := flag.NewFlagSet("slice", flag.ExitOnError)
	start := fs.Int("start", 0, "first record to emit (0-based, header excluded)")
	end := fs.Int("end", -1, "one past the last record to emit (-1 = to EOF)")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		exitf("usage: slice -start <n> -end <n> <file>")
	}
	path := rest[0]
	cfg := readConfig()

	sink := createSink()
	defer sink.Close()

	headerOffset := 0
	if !cfg.NoHeaders {
		headerOffset = 1
	}

	if idx := ensureIndex(path, cfg); idx != nil {
		r := rowindex.Open(path, idx, cfg)
		defer r.Close()
		total := r.Count() - headerOffset
		last := *end
		if last < 0 || last > total {
			last = total
		}
		if *start >= last {
			return
		}
		if err := r.Seek(*start + headerOffset); err != nil {
			exitf("%s", err)
		}
		for i := *start; i < last; i++ {
			rec, ok := r.ReadOne()
			if !ok {
				break
			}
			writeRow(sink, rec.Fields)
		}
		return
	}

	src, _ := openSource(path)
	defer src.Close()
	i := 0
	for src.Reader.Scan() {
		if i >= *start && (*end < 0 || i < *end) {
			writeRow(sink, src.Reader.Record().Fields)
		}
		i++
		if *end >= 0 && i >= *end {
			break
		}
	}
	if err := src.Reader.Err(); err != nil {
		exitf("%s", err)
	}
}
