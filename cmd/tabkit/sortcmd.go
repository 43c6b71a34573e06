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
	"io"
	"os"

	"github.com/tabkit/tabkit/csvio"
	"github.com/tabkit/tabkit/selection"
	"github.com/tabkit/tabkit/sortx"
)

func parseSortMode(s string) (sortx.Mode, error) {
	switch s {
	case "", "lex":
		return sortx.Lex, nil
	case "ci":
		return sortx.CI, nil
	case "num":
		return sortx.Num, nil
	}
	return 0, fmt.Errorf("unknown sort mode %q (want lex, ci, or num)", s)
}

// sortCmd sorts path by -key (or, absent a key, the whole row),
// either in memory (parallelized across -j workers once the data is
// loaded) or, with -ext, via a constant-memory external merge sort
// over the file's raw lines.
func sortCmd(args []string) {
	fs := flag.NewFlagSet("sort", flag.ExitOnError)
	key := fs.String("key", "", "selector naming the sort key columns (default: the whole row)")
	mode := fs.String("mode", "lex", "comparison mode: lex, ci, or num")
	reverse := fs.Bool("r", false, "reverse the sort order")
	limit := fs.Int("limit", 0, "keep only the first N rows after sorting (0 = unlimited)")
	ext := fs.Bool("ext", false, "external merge sort over raw lines; incompatible with -key")
	tmp := fs.String("tmp", "", "temp directory for external sort run files (default: os.TempDir())")
	compressRuns := fs.Bool("compress-runs", false, "compress external sort run files with s2")
	budget := fs.Int64("budget", 0, "external sort in-memory run budget in bytes (0 = auto from detected RAM)")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		exitf("usage: sort -key <selector> [-mode lex|ci|num] [-r] [-limit n] <file>")
	}
	path := rest[0]

	cmpMode, err := parseSortMode(*mode)
	if err != nil {
		exitf("%s", err)
	}
	cmp := sortx.Comparator{Mode: cmpMode, Reverse: *reverse}

	if *ext {
		if *key != "" {
			exitf("-ext performs a whole-line sort; it cannot be combined with -key")
		}
		runExtSort(path, cmp, *tmp, *compressRuns, *budget)
		return
	}

	src, header := openSource(path)
	defer src.Close()

	var sel *selection.Selection
	if *key != "" {
		sel, err = selection.Resolve(*key, header, src.NoHeaders)
		if err != nil {
			exitf("%s", err)
		}
	}

	var rows []sortx.Row
	for src.Reader.Scan() {
		rec := src.Reader.Record().Clone()
		row := sortx.Row{Fields: rec.Fields}
		if sel != nil {
			row.Key = sortx.Key(sel.Select(rec.Fields))
		} else {
			row.Key = sortx.Key(rec.Fields)
		}
		rows = append(rows, row)
	}
	if err := src.Reader.Err(); err != nil {
		exitf("%s", err)
	}

	sink := createSink()
	defer sink.Close()
	if header != nil {
		writeRow(sink, stringsToBytes(header))
	}

	if *limit > 0 && *limit < len(rows) {
		k := sortx.NewKtop(*limit, cmp)
		for _, r := range rows {
			k.Add(r, false)
		}
		for _, r := range k.Capture() {
			writeRow(sink, r.Fields)
		}
		return
	}

	if jobs := jobsCap(); jobs > 1 && len(rows) > 1 {
		sortx.ParallelSort(rows, cmp, jobs)
	} else {
		sortx.Sort(rows, cmp, true)
	}
	for _, r := range rows {
		writeRow(sink, r.Fields)
	}
}

func runExtSort(path string, cmp sortx.Comparator, tmpDir string, compress bool, budget int64) {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	if budget <= 0 {
		budget = sortx.RunBudget(sortx.TotalMemory())
	}

	in, err := os.Open(path)
	if err != nil {
		exitf("%s", err)
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if !csvio.IsStdin(flagOutput) {
		outFile, err := os.Create(flagOutput)
		if err != nil {
			exitf("%s", err)
		}
		defer outFile.Close()
		out = outFile
	}

	if err := sortx.ExtSort(in, out, cmp, budget, tmpDir, compress); err != nil {
		exitf("%s", err)
	}
}
