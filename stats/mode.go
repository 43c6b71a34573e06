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

package stats

import (
	"bytes"
	"sort"

	"github.com/dchest/siphash"
)

// siphashK0/siphashK1 form a fixed process-wide key: cardinality/mode counting is
// not a security boundary, only a hash-map sharding function, so a
// constant key (rather than a random one) keeps results reproducible
// across runs, which repeatable-seed tests rely on.
const siphashK0, siphashK1 = 0x5ea5e11a5ea5e11a, 0xc5ab0d1ec5ab0d1e

type modeEntry struct {
	value []byte
	count uint64
}

// ModeAccumulator is the unbounded multiset of observed byte values
// backing spec.md section 4.5.3's cardinality and mode statistics. It
// is keyed by a SipHash digest of the field bytes, bucketed with
// explicit collision chains (a full byte-equality compare resolves any
// hash collision), the same general-purpose hashing role the teacher
// wires `dchest/siphash` into elsewhere in its dependency graph.
type ModeAccumulator struct {
	buckets map[uint64][]modeEntry
	total   uint64
}

// NewModeAccumulator returns an empty accumulator.
func NewModeAccumulator() *ModeAccumulator {
	return &ModeAccumulator{buckets: make(map[uint64][]modeEntry)}
}

// Observe folds one field value into the multiset.
func (m *ModeAccumulator) Observe(field []byte) {
	m.total++
	h := siphash.Hash(siphashK0, siphashK1, field)
	chain := m.buckets[h]
	for i := range chain {
		if bytes.Equal(chain[i].value, field) {
			chain[i].count++
			return
		}
	}
	m.buckets[h] = append(chain, modeEntry{value: append([]byte(nil), field...), count: 1})
}

// Cardinality returns the number of distinct values observed.
func (m *ModeAccumulator) Cardinality() int {
	n := 0
	for _, chain := range m.buckets {
		n += len(chain)
	}
	return n
}

// Modes returns every value tied for the maximum count, in ascending
// byte order (spec.md section 4.5.6: "when multiple values tie, emits
// all tied values in byte order").
func (m *ModeAccumulator) Modes() [][]byte {
	var max uint64
	for _, chain := range m.buckets {
		for _, e := range chain {
			if e.count > max {
				max = e.count
			}
		}
	}
	var out [][]byte
	for _, chain := range m.buckets {
		for _, e := range chain {
			if e.count == max {
				out = append(out, e.value)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i], out[j]) < 0 })
	return out
}

// MergeMode combines two mode accumulators built over disjoint ranges.
func MergeMode(a, b *ModeAccumulator) *ModeAccumulator {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := NewModeAccumulator()
	out.total = a.total + b.total
	for h, chain := range a.buckets {
		out.buckets[h] = append(out.buckets[h], chain...)
	}
	for h, chain := range b.buckets {
		for _, e := range chain {
			merged := false
			for i := range out.buckets[h] {
				if bytes.Equal(out.buckets[h][i].value, e.value) {
					out.buckets[h][i].count += e.count
					merged = true
					break
				}
			}
			if !merged {
				out.buckets[h] = append(out.buckets[h], e)
			}
		}
	}
	return out
}
