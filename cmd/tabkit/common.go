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
	"os"
	"runtime"
	"strconv"

	"github.com/tabkit/tabkit/csvio"
	"github.com/tabkit/tabkit/rowindex"
)

// resolveByte turns a flag's string value into the single dialect byte
// it names, accepting the same "\t" escape the cores themselves accept.
func resolveByte(s string) byte {
	switch s {
	case "":
		return 0
	case `\t`:
		return '\t'
	}
	if len(s) != 1 || s[0] > 0x7f {
		exitf("invalid byte flag %q: must be a single ASCII character or \\t", s)
	}
	return s[0]
}

func readConfig() csvio.ReadConfig {
	return csvio.ReadConfig{
		Delimiter: resolveByte(flagDelim),
		Comment:   resolveByte(flagComment),
		NoHeaders: flagNoHeaders,
	}
}

func writeConfig() csvio.WriteConfig {
	return csvio.WriteConfig{
		Delimiter: resolveByte(flagDelim),
		Snappy:    flagSnappyOut,
	}
}

// openSource opens path and, unless -no-headers applies, consumes and
// returns its header row as strings. The returned Source is positioned
// at the first data record either way.
func openSource(path string) (*csvio.Source, []string) {
	src, err := csvio.Open(path, readConfig())
	if err != nil {
		exitf("%s", err)
	}
	if src.NoHeaders {
		return src, nil
	}
	if !src.Reader.Scan() {
		if err := src.Reader.Err(); err != nil {
			exitf("%s", err)
		}
		return src, nil
	}
	return src, src.Reader.Record().ToString().Fields
}

func createSink() *csvio.Sink {
	sink, err := csvio.Create(flagOutput, writeConfig())
	if err != nil {
		exitf("%s", err)
	}
	return sink
}

func writeRow(sink *csvio.Sink, fields [][]byte) {
	rec := make([]string, len(fields))
	for i, f := range fields {
		rec[i] = string(f)
	}
	if err := sink.Write(rec); err != nil {
		exitf("write: %s", err)
	}
}

// autoIndexThreshold resolves the -autoindex-size flag against
// QSV_AUTOINDEX_SIZE, flag taking precedence per the module-wide
// env/flag precedence rule.
func autoIndexThreshold() int64 {
	if flagAutoIndex > 0 {
		return flagAutoIndex
	}
	if v := os.Getenv(csvio.EnvAutoindexSize); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// jobsCap resolves the -j flag against QSV_MAX_JOBS, flag taking
// precedence; when neither gives a positive value, the cap is the CPU
// count.
func jobsCap() int {
	if flagJobs > 0 {
		return flagJobs
	}
	if v := os.Getenv(csvio.EnvMaxJobs); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// ensureIndex tries to obtain a fresh index for path under the
// standard auto-index policy, returning nil (no error) when the file
// is ineligible (Snappy, stdin, or below threshold) rather than
// forcing every verb to special-case that.
func ensureIndex(path string, cfg csvio.ReadConfig) *rowindex.Index {
	if csvio.IsStdin(path) {
		return nil
	}
	policy := rowindex.AutoIndexPolicy{Threshold: autoIndexThreshold()}
	idx, _, err := rowindex.EnsureFresh(path, cfg, policy)
	if err != nil {
		exitf("%s", err)
	}
	return idx
}
