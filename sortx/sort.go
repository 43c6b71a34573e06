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

import "sort"

// Limit carries the raw --limit/--offset pair a sort verb was invoked
// with; zero Limit means "no limit" (everything from Offset onward).
type Limit struct {
	Limit, Offset int
}

// Range returns the half-open [start, end) slice of rows that a Limit
// keeps out of a total rows-long sequence.
func (l Limit) Range(total int) (start, end int) {
	if l.Offset >= total {
		return total, total
	}
	start = l.Offset
	if l.Limit <= 0 {
		return start, total
	}
	end = start + l.Limit
	if end > total {
		end = total
	}
	return start, end
}

// Apply slices rows down to the window l selects.
func (l Limit) Apply(rows []Row) []Row {
	start, end := l.Range(len(rows))
	return rows[start:end]
}

// Sort orders rows in place under cmp. stable preserves input order
// among equal keys (spec.md section 4.6's default strategy); unstable
// skips that guarantee for a faster, non-allocating sort (the
// "--faster" flag).
func Sort(rows []Row, cmp Comparator, stable bool) {
	less := func(i, j int) bool { return cmp.Less(rows[i].Key, rows[j].Key) }
	if stable {
		sort.SliceStable(rows, less)
	} else {
		sort.Slice(rows, less)
	}
}

// span is a half-open row range [start, end) sorted independently of
// its siblings.
type span struct{ start, end int }

// ParallelSort splits rows into jobs contiguous chunks, sorts each
// chunk concurrently on a ThreadPool, then merges the sorted chunks
// sequentially. It is stable: equal keys keep their relative order,
// both within a chunk (sort.SliceStable) and across the merge (ties
// always take the earlier chunk's row first).
func ParallelSort(rows []Row, cmp Comparator, jobs int) {
	if jobs < 1 {
		jobs = 1
	}
	n := len(rows)
	if n == 0 || jobs == 1 {
		Sort(rows, cmp, true)
		return
	}

	chunkSize := (n + jobs - 1) / jobs
	var spans []span
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		spans = append(spans, span{start, end})
	}

	pool := NewThreadPool(jobs)
	done := make(chan struct{}, len(spans))
	for _, s := range spans {
		pool.Enqueue(s.start, s.end, func(start, end int, _ interface{}, _ ThreadPool) {
			sort.SliceStable(rows[start:end], func(i, j int) bool {
				return cmp.Less(rows[start+i].Key, rows[start+j].Key)
			})
			done <- struct{}{}
		}, nil)
	}
	for range spans {
		<-done
	}
	pool.Close(nil)
	pool.Wait()

	copy(rows, mergeRuns(rows, spans, cmp))
}

// mergeRuns performs a k-way merge of the already-sorted, disjoint
// runs described by spans, reading from src and returning a fresh
// slice in sorted order.
func mergeRuns(src []Row, spans []span, cmp Comparator) []Row {
	total := 0
	cursors := make([]int, len(spans))
	for i, s := range spans {
		total += s.end - s.start
		cursors[i] = s.start
	}
	out := make([]Row, 0, total)
	for len(out) < total {
		best := -1
		for i, s := range spans {
			if cursors[i] >= s.end {
				continue
			}
			if best == -1 || cmp.Less(src[cursors[i]].Key, src[cursors[best]].Key) {
				best = i
			}
		}
		out = append(out, src[cursors[best]])
		cursors[best]++
	}
	return out
}
