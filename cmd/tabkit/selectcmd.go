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

	"github.com/tabkit/tabkit/selection"
)

// selectCmd projects each record through a column selector expression
// (spec.md section 4.4): names, 1-based indices, ranges, regexes and
// negation, resolved against the header unless -no-headers applies.
func selectCmd(args []string) {
	fs := flag.NewFlagSet("select", flag.ExitOnError)
	expr := fs.String("f", "", "selector expression, e.g. \"name,3-5,/^amt_/,!email\"")
	fs.Parse(args)
	rest := fs.Args()
	if *expr == "" || len(rest) != 1 {
		exitf("usage: select -f <selector> <file>")
	}
	path := rest[0]

	src, header := openSource(path)
	defer src.Close()

	sel, err := selection.Resolve(*expr, header, src.NoHeaders)
	if err != nil {
		exitf("%s", err)
	}

	sink := createSink()
	defer sink.Close()

	if header != nil {
		writeRow(sink, stringsToBytes(sel.SelectStrings(header)))
	}
	for src.Reader.Scan() {
		writeRow(sink, sel.Select(src.Reader.Record().Fields))
	}
	if err := src.Reader.Err(); err != nil {
		exitf("%s", err)
	}
}

func stringsToBytes(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}
