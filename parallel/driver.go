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

// Package parallel is the parallel map-merge driver (spec.md sections
// 4.5.5 and 5): partitions an indexed file into chunks, runs one
// worker per chunk with its own reader handle, and folds worker-local
// results through a caller-supplied monoid merge over a rendezvous
// channel. stats and freq are both expressible as this monoid, so
// neither package needs its own concurrency code.
package parallel

import (
	"runtime"
	"sync"

	"github.com/tabkit/tabkit/rowindex"
)

// Chunk is a half-open record range [Start, Start+Count) a single
// worker owns exclusively.
type Chunk struct {
	Start int
	Count int
}

// Plan partitions [0, total) into chunks of at most chunkSize records
// each (spec.md section 4.5.5 step 1).
func Plan(total, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = total
	}
	if total <= 0 {
		return nil
	}
	n := (total + chunkSize - 1) / chunkSize
	chunks := make([]Chunk, 0, n)
	for start := 0; start < total; start += chunkSize {
		count := chunkSize
		if start+count > total {
			count = total - start
		}
		chunks = append(chunks, Chunk{Start: start, Count: count})
	}
	return chunks
}

// Jobs resolves a requested parallelism cap to an actual worker count:
// 0 or unset means CPU count, and the result is never more than
// len(chunks) (spec.md section 6's `-j/--jobs` flag, section 5's
// `min(requested_jobs, CPU_count)` scheduling model).
func Jobs(requested int, chunks int) int {
	cap := requested
	if cap <= 0 {
		cap = runtime.NumCPU()
	}
	if cap > runtime.NumCPU() {
		cap = runtime.NumCPU()
	}
	if cap > chunks {
		cap = chunks
	}
	if cap < 1 {
		cap = 1
	}
	return cap
}

// Task computes one worker's local result over a chunk. It is given
// its own IndexedReader, already positioned at nothing in particular —
// the task is responsible for Seek(chunk.Start) and reading exactly
// chunk.Count records.
type Task[T any] func(chunk Chunk, idx *rowindex.IndexedReader) (T, error)

// Merge folds two worker-local results into one, associatively, per
// the monoid contract spec.md section 4.5.5 requires.
type Merge[T any] func(a, b T) T

// Run executes task over every chunk of idx using jobs workers and
// folds the results with merge through a zero-capacity rendezvous
// channel (spec.md section 5: "each worker's result must be collected
// by the reducer before the worker terminates"). The first error from
// any worker is returned; Run then stops dispatching further chunks
// and lets in-flight workers finish, per the no-mid-stream-cancellation
// contract. newReader must return an independent *rowindex.IndexedReader
// per call so workers never share a file handle.
func Run[T any](chunks []Chunk, jobs int, newReader func() *rowindex.IndexedReader, task Task[T], merge Merge[T], zero T) (T, error) {
	if jobs < 1 {
		jobs = 1
	}

	type result struct {
		val T
		err error
	}

	work := make(chan Chunk)
	results := make(chan result) // zero-capacity: a rendezvous channel
	stop := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(jobs)
	for w := 0; w < jobs; w++ {
		go func() {
			defer wg.Done()
			r := newReader()
			defer r.Close()
			for c := range work {
				v, err := task(c, r)
				select {
				case results <- result{val: v, err: err}:
				case <-stop:
					return
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, c := range chunks {
			select {
			case work <- c:
			case <-stop:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	acc := zero
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				close(stop)
			}
			continue
		}
		if firstErr == nil {
			acc = merge(acc, res.val)
		}
	}
	if firstErr != nil {
		var zeroT T
		return zeroT, firstErr
	}
	return acc, nil
}
