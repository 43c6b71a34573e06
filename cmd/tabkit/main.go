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

// Command tabkit is a thin CLI harness over the cores in this module:
// csvio, record, rowindex, selection, stats, freq, sortx and parallel.
// It wires a representative subset of verbs (count, select, slice,
// sort, dedup, stats, frequency, index, cat) onto those cores so they
// can be exercised end-to-end. Individual verb argument parsing beyond
// what's below, progress bars, and telemetry are out of scope.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	flagDelim     string
	flagComment   string
	flagNoHeaders bool
	flagOutput    string
	flagJobs      int
	flagAutoIndex int64
	flagVersion   bool
	flagSnappyOut bool
)

func init() {
	flag.StringVar(&flagDelim, "d", "", "field delimiter: a single byte, or \\t for tab (default: inferred from extension)")
	flag.StringVar(&flagComment, "comment", "", "comment byte; rows starting with it are skipped")
	flag.BoolVar(&flagNoHeaders, "no-headers", false, "treat the first row as data, not a header")
	flag.StringVar(&flagOutput, "o", "-", "output file, or - for stdout")
	flag.IntVar(&flagJobs, "j", 0, "parallelism cap for chunked verbs (0 = CPU count)")
	flag.Int64Var(&flagAutoIndex, "autoindex-size", 0, "rebuild a missing/stale .idx automatically once the data file exceeds this many bytes (0 = use QSV_AUTOINDEX_SIZE; disabled when that is unset)")
	flag.BoolVar(&flagVersion, "version", false, "print build info and exit")
	flag.BoolVar(&flagSnappyOut, "sz", false, "force Snappy-framed output regardless of the output path's extension")
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func main() {
	flag.Parse()
	if flagVersion {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "count":
		countCmd(args[1:])
	case "select":
		selectCmd(args[1:])
	case "slice":
		sliceCmd(args[1:])
	case "sort":
		sortCmd(args[1:])
	case "dedup":
		dedupCmd(args[1:])
	case "stats":
		statsCmd(args[1:])
	case "frequency":
		frequencyCmd(args[1:])
	case "index":
		indexCmd(args[1:])
	case "cat":
		catCmd(args[1:])
	default:
		usage()
		exitf("unknown verb %q", args[0])
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "    %s [flags] count <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [flags] select -f <selector> <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [flags] slice -start <n> -end <n> <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [flags] sort -key <selector> [-mode lex|ci|num] [-r] [-limit n] [-ext] <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [flags] dedup [-key <selector>] [-sorted] [-count] <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [flags] stats -select <selector> <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [flags] frequency -select <selector> [-limit n] <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [flags] index <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [flags] cat <file>...\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "flag usage:\n")
	flag.Usage()
}
