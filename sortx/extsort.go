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

package sortx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/tabkit/tabkit/compr"
	"github.com/tabkit/tabkit/heap"
)

// DefaultRunBudget is the spill threshold when the machine's total
// DRAM cannot be determined: 100 MB, matching the external sorter this
// package is grounded on.
const DefaultRunBudget = 100 * 1_000_000

// RunBudget picks how many bytes of input extsort buffers before
// spilling a sorted run to disk: 10% of total DRAM when known, else
// DefaultRunBudget.
func RunBudget(total int64) int64 {
	if total <= 0 {
		return DefaultRunBudget
	}
	return total / 10
}

// runCodec is the compression codec extsort spills runs with when
// compression is requested; otherwise runs are written uncompressed.
const runCodec = "s2"

// ExtSort performs a line-by-line external merge sort of r, writing
// sorted lines to w. It is not CSV-record aware — it treats the input
// as arbitrary newline-delimited text (spec.md section 4.6) — so a
// caller that wants the header line excluded from sorting must peel it
// off before calling ExtSort and write it to w separately. tmpDir holds
// the spilled run files, named with a random suffix so concurrent
// extsort runs never collide; every run file this function creates is
// removed before it returns, including on error. When compress is
// true, each run is spilled through the s2 codec — a run's
// uncompressed size is bounded by budget, so compressing it costs no
// extra peak memory, only smaller, cheaper-to-read files on disk.
func ExtSort(r io.Reader, w io.Writer, cmp Comparator, budget int64, tmpDir string, compress bool) error {
	if budget <= 0 {
		budget = DefaultRunBudget
	}

	var runPaths []string
	defer func() {
		for _, p := range runPaths {
			os.Remove(p)
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	var buf []string
	var bufBytes int64
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		sort.Slice(buf, func(i, j int) bool {
			return cmp.Less(Key{[]byte(buf[i])}, Key{[]byte(buf[j])})
		})
		path, err := writeRun(tmpDir, buf, compress)
		if err != nil {
			return err
		}
		runPaths = append(runPaths, path)
		buf = buf[:0]
		bufBytes = 0
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		buf = append(buf, line)
		bufBytes += int64(len(line)) + 1
		if bufBytes >= budget {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	return mergeRunFiles(runPaths, w, cmp, tmpDir, compress)
}

// writeRun joins lines into one block and writes it to a fresh run
// file, optionally through the s2 codec with a little-endian uint64
// uncompressed-length prefix so the reader knows how large a buffer to
// decompress into.
func writeRun(dir string, lines []string, compress bool) (string, error) {
	path := filepath.Join(dir, "sortx-run-"+uuid.NewString())
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var plain []byte
	for _, line := range lines {
		plain = append(plain, line...)
		plain = append(plain, '\n')
	}

	if compress {
		c := compr.Compression(runCodec)
		var lenPrefix [8]byte
		binary.LittleEndian.PutUint64(lenPrefix[:], uint64(len(plain)))
		if _, err := f.Write(lenPrefix[:]); err != nil {
			os.Remove(path)
			return "", err
		}
		if _, err := f.Write(c.Compress(plain, nil)); err != nil {
			os.Remove(path)
			return "", err
		}
		return path, nil
	}

	if _, err := f.Write(plain); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// decompressRun reads a run file written with compress=true and
// rewrites its plain-text contents to a fresh scratch file, so the
// merge phase can stream it with a plain bufio.Scanner instead of
// holding the whole run decompressed in memory for the merge's
// duration.
func decompressRun(dir, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(raw) < 8 {
		return "", fmt.Errorf("sortx: truncated run file %s", path)
	}
	plainLen := binary.LittleEndian.Uint64(raw[:8])
	dst := make([]byte, plainLen)
	if err := compr.Decompression(runCodec).Decompress(raw[8:], dst); err != nil {
		return "", err
	}
	out := filepath.Join(dir, "sortx-run-"+uuid.NewString()+".plain")
	if err := os.WriteFile(out, dst, 0o600); err != nil {
		return "", err
	}
	return out, nil
}

// runCursor is one spilled run file's current unread line.
type runCursor struct {
	scanner *bufio.Scanner
	file    *os.File
	line    string
	ok      bool
}

func mergeRunFiles(paths []string, w io.Writer, cmp Comparator, tmpDir string, compressed bool) error {
	if len(paths) == 0 {
		return nil
	}
	cursors := make([]*runCursor, 0, len(paths))
	defer func() {
		for _, c := range cursors {
			c.file.Close()
		}
	}()
	for _, p := range paths {
		readPath := p
		if compressed {
			scratch, err := decompressRun(tmpDir, p)
			if err != nil {
				return err
			}
			defer os.Remove(scratch)
			readPath = scratch
		}
		f, err := os.Open(readPath)
		if err != nil {
			return err
		}
		c := &runCursor{scanner: bufio.NewScanner(f), file: f}
		c.scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
		c.ok = c.scanner.Scan()
		if c.ok {
			c.line = c.scanner.Text()
		}
		cursors = append(cursors, c)
	}

	less := func(i, j int) bool {
		a, b := cursors[i], cursors[j]
		if !a.ok {
			return false
		}
		if !b.ok {
			return true
		}
		return cmp.Less(Key{[]byte(a.line)}, Key{[]byte(b.line)})
	}

	indirect := make([]int, len(cursors))
	for i := range indirect {
		indirect[i] = i
	}
	heap.OrderSlice(indirect, less)

	bw := bufio.NewWriter(w)
	remaining := len(cursors)
	for remaining > 0 {
		top := indirect[0]
		c := cursors[top]
		if !c.ok {
			break
		}
		if _, err := bw.WriteString(c.line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		c.ok = c.scanner.Scan()
		if c.ok {
			c.line = c.scanner.Text()
		} else {
			remaining--
		}
		if err := c.scanner.Err(); err != nil {
			return err
		}
		heap.FixSlice(indirect, 0, less)
	}
	return bw.Flush()
}
