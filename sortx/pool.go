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

import "sync"

// SortingFunction sorts the range [start, end) of rows. It may, if
// useful, Enqueue further subranges on the pool it is given instead of
// sorting them directly.
type SortingFunction func(start, end int, args interface{}, pool ThreadPool)

// SortedDataConsumer coordinates a parallel sort: it is responsible
// for Start-ing the pool's work, receiving Notify calls as ranges
// finish, and Close-ing the pool once nothing further depends on it.
type SortedDataConsumer interface {
	Notify(start, end int)
	Start(pool ThreadPool)
}

// ThreadPool runs SortingFunctions over disjoint row ranges.
type ThreadPool interface {
	Enqueue(start, end int, fn SortingFunction, args interface{})
	Close(error)
	Wait() error
}

type request struct {
	start, end int
	fn         SortingFunction
	args       interface{}
}

// threadPool is a fixed-size worker pool of goroutines pulling work
// off a LIFO request stack, guarded by a condition variable.
type threadPool struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	cond     *sync.Cond
	requests []request
	err      error
	closed   bool
}

// NewThreadPool starts threads worker goroutines ready to Enqueue work
// on.
func NewThreadPool(threads int) ThreadPool {
	if threads < 1 {
		threads = 1
	}
	p := &threadPool{}
	p.cond = sync.NewCond(&p.mu)

	var ready sync.WaitGroup
	ready.Add(threads)
	p.wg.Add(threads)
	for i := 0; i < threads; i++ {
		go p.worker(&ready)
	}
	ready.Wait()
	return p
}

func (p *threadPool) worker(ready *sync.WaitGroup) {
	defer p.wg.Done()
	ready.Done()
	for {
		p.mu.Lock()
		for len(p.requests) == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.closed && len(p.requests) == 0 {
			p.mu.Unlock()
			return
		}
		n := len(p.requests) - 1
		req := p.requests[n]
		p.requests = p.requests[:n]
		p.mu.Unlock()

		req.fn(req.start, req.end, req.args, p)
	}
}

func (p *threadPool) Enqueue(start, end int, fn SortingFunction, args interface{}) {
	p.mu.Lock()
	if !p.closed {
		p.requests = append(p.requests, request{start, end, fn, args})
		p.cond.Broadcast()
	}
	p.mu.Unlock()
}

func (p *threadPool) Close(err error) {
	p.mu.Lock()
	if !p.closed {
		p.err = err
		p.closed = true
		p.cond.Broadcast()
	}
	p.mu.Unlock()
}

func (p *threadPool) Wait() error {
	p.wg.Wait()
	return p.err
}
