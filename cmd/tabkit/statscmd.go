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
	"os"
	"strings"

	"github.com/tabkit/tabkit/csvio"
	"github.com/tabkit/tabkit/parallel"
	"github.com/tabkit/tabkit/rowindex"
	"github.com/tabkit/tabkit/selection"
	"github.com/tabkit/tabkit/stats"
)

func parseColSet(csv string) map[string]bool {
	if csv == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, c := range strings.Split(csv, ",") {
		out[strings.TrimSpace(c)] = true
	}
	return out
}

// statsCmd builds the streaming stats report for -select's columns
// (spec.md section 4.5), running over worker chunks through the
// parallel map-merge driver whenever an index is available and -j
// asks for more than one worker.
func statsCmd(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	sel := fs.String("select", "", "selector naming the columns to report on (default: every column)")
	dateAll := fs.Bool("date-all", false, "consider every column eligible for date inference")
	dateCols := fs.String("date-cols", "", "comma-separated column names eligible for date inference")
	trackMode := fs.Bool("mode", false, "track per-column mode and cardinality")
	trackQuantiles := fs.Bool("quantiles", false, "track per-column quartiles and skew")
	compress := fs.String("compress", "", "compress the report with this codec (zstd, zstd-better, s2) instead of plain YAML")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		exitf("usage: stats -select <selector> <file>")
	}
	path := rest[0]
	cfg := readConfig()

	src, header := openSource(path)
	noHeaders := src.NoHeaders

	expr := *sel
	if expr == "" {
		expr = "1-_"
	}
	columnSel, err := selection.Resolve(expr, header, noHeaders)
	if err != nil {
		exitf("%s", err)
	}
	columnSel = columnSel.Normal()

	opt := stats.Options{
		DatePolicy:     stats.DatePolicy{All: *dateAll, Cols: parseColSet(*dateCols)},
		TrackMode:      *trackMode,
		TrackQuantiles: *trackQuantiles,
	}

	var cols []*stats.Column
	idx := ensureIndex(path, cfg)
	jobs := jobsCap()
	if idx != nil && jobs > 1 {
		src.Close()
		cols = parallelStats(path, cfg, idx, columnSel, header, noHeaders, opt, jobs)
	} else {
		defer src.Close()
		cols = stats.NewColumns(columnSel, header, noHeaders, opt)
		for src.Reader.Scan() {
			stats.ObserveRecord(cols, columnSel, src.Reader.Record())
		}
		if err := src.Reader.Err(); err != nil {
			exitf("%s", err)
		}
	}

	report := stats.Build(cols)

	var out []byte
	if *compress != "" {
		out, err = report.MarshalCompressed(*compress)
	} else {
		out, err = report.MarshalYAML()
	}
	if err != nil {
		exitf("%s", err)
	}
	writeRaw(out)
}

// parallelStats folds the report across idx's chunks via the
// map-merge driver: each worker owns its own IndexedReader and
// accumulates a private []*stats.Column, reduced through stats.Merge.
func parallelStats(path string, cfg csvio.ReadConfig, idx *rowindex.Index, sel *selection.Selection, header []string, noHeaders bool, opt stats.Options, jobs int) []*stats.Column {
	headerOffset := 0
	if !noHeaders {
		headerOffset = 1
	}
	total := idx.Count() - headerOffset
	if total <= 0 {
		return stats.NewColumns(sel, header, noHeaders, opt)
	}

	chunkSize := (total + jobs - 1) / jobs
	chunks := parallel.Plan(total, chunkSize)
	workers := parallel.Jobs(jobs, len(chunks))

	newReader := func() *rowindex.IndexedReader {
		return rowindex.Open(path, idx, cfg)
	}

	task := func(c parallel.Chunk, r *rowindex.IndexedReader) ([]*stats.Column, error) {
		local := stats.NewColumns(sel, header, noHeaders, opt)
		if err := r.Seek(c.Start + headerOffset); err != nil {
			return nil, err
		}
		for i := 0; i < c.Count; i++ {
			rec, ok := r.ReadOne()
			if !ok {
				break
			}
			stats.ObserveRecord(local, sel, rec)
		}
		return local, nil
	}

	var zero []*stats.Column
	cols, err := parallel.Run(chunks, workers, newReader, task, stats.MergeColumns, zero)
	if err != nil {
		exitf("%s", err)
	}
	return cols
}

func writeRaw(b []byte) {
	if flagOutputIsStdout() {
		os.Stdout.Write(b)
		return
	}
	f, err := os.Create(flagOutput)
	if err != nil {
		exitf("%s", err)
	}
	defer f.Close()
	f.Write(b)
}

func flagOutputIsStdout() bool {
	return flagOutput == "" || flagOutput == "-"
}
