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
	"strconv"

	"github.com/tabkit/tabkit/selection"
	"github.com/tabkit/tabkit/sortx"
)

// dedupCmd collapses consecutive-by-key runs to one row each, folding
// the whole row by default or just -key's columns. -sorted assumes the
// input is already ordered and dedups in constant memory; otherwise
// the rows are stably sorted first so "first occurrence wins".
func dedupCmd(args []string) {
	fs := flag.NewFlagSet("dedup", flag.ExitOnError)
	key := fs.String("key", "", "selector naming the dedup key columns (default: the whole row)")
	mode := fs.String("mode", "lex", "comparison mode: lex, ci, or num")
	sorted := fs.Bool("sorted", false, "assume the input is already sorted by -key (streaming, constant memory)")
	showCount := fs.Bool("count", false, "append each kept row's run length as a trailing column")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		exitf("usage: dedup [-key <selector>] [-sorted] [-count] <file>")
	}
	path := rest[0]

	cmpMode, err := parseSortMode(*mode)
	if err != nil {
		exitf("%s", err)
	}
	cmp := sortx.Comparator{Mode: cmpMode}

	src, header := openSource(path)
	defer src.Close()

	var sel *selection.Selection
	if *key != "" {
		sel, err = selection.Resolve(*key, header, src.NoHeaders)
		if err != nil {
			exitf("%s", err)
		}
	}
	keyOf := func(fields [][]byte) sortx.Key {
		if sel != nil {
			return sortx.Key(sel.Select(fields))
		}
		return sortx.Key(fields)
	}

	sink := createSink()
	defer sink.Close()
	if header != nil {
		row := append([]string{}, header...)
		if *showCount {
			row = append(row, "count")
		}
		writeRow(sink, stringsToBytes(row))
	}

	emit := func(r sortx.Row, count uint64) {
		fields := r.Fields
		if *showCount {
			fields = append(append([][]byte{}, fields...), []byte(strconv.FormatUint(count, 10)))
		}
		writeRow(sink, fields)
	}

	if *sorted {
		d := sortx.NewDedup(cmp)
		for src.Reader.Scan() {
			rec := src.Reader.Record().Clone()
			row := sortx.Row{Fields: rec.Fields, Key: keyOf(rec.Fields)}
			r, count, ok, err := d.Push(row)
			if err != nil {
				exitf("%s", err)
			}
			if ok {
				emit(r, count)
			}
		}
		if err := src.Reader.Err(); err != nil {
			exitf("%s", err)
		}
		if r, count, ok := d.Flush(); ok {
			emit(r, count)
		}
		return
	}

	var rows []sortx.Row
	for src.Reader.Scan() {
		rec := src.Reader.Record().Clone()
		rows = append(rows, sortx.Row{Fields: rec.Fields, Key: keyOf(rec.Fields)})
	}
	if err := src.Reader.Err(); err != nil {
		exitf("%s", err)
	}
	kept, counts := sortx.DedupUnsorted(rows, cmp)
	for i, r := range kept {
		emit(r, counts[i])
	}
}
