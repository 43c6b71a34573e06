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

	"github.com/tabkit/tabkit/csvio"
	"github.com/tabkit/tabkit/freq"
	"github.com/tabkit/tabkit/parallel"
	"github.com/tabkit/tabkit/rowindex"
	"github.com/tabkit/tabkit/selection"
)

// frequencyCmd emits, for each selected column, its value/count rows
// (spec.md section 4.5.4) as three-column CSV: column, value, count.
func frequencyCmd(args []string) {
	fs := flag.NewFlagSet("frequency", flag.ExitOnError)
	sel := fs.String("select", "", "selector naming the columns to tabulate (default: every column)")
	caseFold := fs.Bool("casefold", false, "fold valid UTF-8 values to lowercase before counting")
	trim := fs.Bool("trim", false, "trim leading/trailing whitespace before counting")
	includeNulls := fs.Bool("include-nulls", false, "count empty fields instead of skipping them")
	ascending := fs.Bool("ascending", false, "order rows ascending by count instead of descending")
	limit := fs.Int("limit", 0, "top-N rows to keep per column, collapsing the rest into Other(k) (0 = unlimited)")
	uniqueLimit := fs.Int("unique-limit", 0, "limit applied instead of -limit when every value is distinct")
	bypassBelow := fs.Int("bypass-below", 0, "skip limiting when a column has at most this many distinct values")
	otherSorted := fs.Bool("other-sorted", false, "emit the Other(k) row in sorted position rather than last")
	otherText := fs.String("other-text", "", "label for the collapsed row (default: \"Other\")")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		exitf("usage: frequency -select <selector> <file>")
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

	opt := freq.Options{
		CaseFold:     *caseFold,
		Trim:         *trim,
		IncludeNulls: *includeNulls,
		Ascending:    *ascending,
		Limit:        *limit,
		UniqueLimit:  *uniqueLimit,
		BypassBelow:  *bypassBelow,
		OtherSorted:  *otherSorted,
		OtherText:    *otherText,
	}

	var tables []*freq.Table
	idx := ensureIndex(path, cfg)
	jobs := jobsCap()
	if idx != nil && jobs > 1 {
		src.Close()
		tables = parallelFreq(path, cfg, idx, columnSel, header, noHeaders, opt, jobs)
	} else {
		defer src.Close()
		tables = freq.NewTables(columnSel, header, noHeaders, opt)
		for src.Reader.Scan() {
			freq.ObserveRecord(tables, columnSel, src.Reader.Record())
		}
		if err := src.Reader.Err(); err != nil {
			exitf("%s", err)
		}
	}

	sink := createSink()
	defer sink.Close()
	writeRow(sink, stringsToBytes([]string{"column", "value", "count"}))
	for _, t := range tables {
		for _, row := range t.Report() {
			writeRow(sink, stringsToBytes([]string{t.Name, row.Value, strconv.FormatUint(row.Count, 10)}))
		}
	}
}

func parallelFreq(path string, cfg csvio.ReadConfig, idx *rowindex.Index, sel *selection.Selection, header []string, noHeaders bool, opt freq.Options, jobs int) []*freq.Table {
	headerOffset := 0
	if !noHeaders {
		headerOffset = 1
	}
	total := idx.Count() - headerOffset
	if total <= 0 {
		return freq.NewTables(sel, header, noHeaders, opt)
	}

	chunkSize := (total + jobs - 1) / jobs
	chunks := parallel.Plan(total, chunkSize)
	workers := parallel.Jobs(jobs, len(chunks))

	newReader := func() *rowindex.IndexedReader {
		return rowindex.Open(path, idx, cfg)
	}

	task := func(c parallel.Chunk, r *rowindex.IndexedReader) ([]*freq.Table, error) {
		local := freq.NewTables(sel, header, noHeaders, opt)
		if err := r.Seek(c.Start + headerOffset); err != nil {
			return nil, err
		}
		for i := 0; i < c.Count; i++ {
			rec, ok := r.ReadOne()
			if !ok {
				break
			}
			freq.ObserveRecord(local, sel, rec)
		}
		return local, nil
	}

	var zero []*freq.Table
	tables, err := parallel.Run(chunks, workers, newReader, task, freq.MergeTables, zero)
	if err != nil {
		exitf("%s", err)
	}
	return tables
}
