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
	"crypto/sha256"
	"encoding/binary"
	"math/rand"

	"golang.org/x/crypto/chacha20"
	xrand "golang.org/x/exp/rand"
)

// RNGKind selects which generator backs a random sort (spec.md section
// 4.6): the standard PRNG is fastest to seed, FastRNG draws from
// golang.org/x/exp/rand's default source (a PCG generator, not
// xoshiro256+) for large inputs, and chacha20 is the
// cryptographically-strong kind for when the shuffle itself must not
// be predictable from observed output (substituting ChaCha20 for the
// original's HC-128 stream cipher: Go's standard ecosystem has no
// maintained HC-128, and ChaCha20 is the same class of primitive —
// see DESIGN.md).
type RNGKind int

const (
	StandardRNG RNGKind = iota
	FastRNG
	CryptoRNG
)

// RNG produces the uniform random permutation a random sort shuffles
// rows with. Two RNGs built from the same Kind and seed must produce
// identical output (spec.md section 4.6's reproducibility invariant).
type RNG interface {
	// Intn returns a uniform random int in [0, n).
	Intn(n int) int
}

// NewRNG constructs the generator for kind, seeded deterministically
// from seed.
func NewRNG(kind RNGKind, seed int64) RNG {
	switch kind {
	case FastRNG:
		return xoshiroRNG{xrand.New(xrand.NewSource(uint64(seed)))}
	case CryptoRNG:
		return newChaChaRNG(seed)
	default:
		return rand.New(rand.NewSource(seed))
	}
}

type xoshiroRNG struct {
	r *xrand.Rand
}

func (x xoshiroRNG) Intn(n int) int { return x.r.Intn(n) }

// chachaRNG draws uniform ints from a ChaCha20 keystream, seeded by
// hashing the int64 seed into a 256-bit key so short seeds still fill
// the full key space.
type chachaRNG struct {
	cipher *chacha20.Cipher
}

func newChaChaRNG(seed int64) *chachaRNG {
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], uint64(seed))
	key := sha256.Sum256(seedBytes[:])
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		// key and nonce are always the right length, so this
		// can only happen if chacha20's constants change.
		panic(err)
	}
	return &chachaRNG{cipher: c}
}

func (c *chachaRNG) Intn(n int) int {
	if n <= 0 {
		panic("sortx: Intn called with n <= 0")
	}
	var buf [8]byte
	// Rejection sampling avoids modulo bias: draw until the value
	// falls in the largest multiple of n that fits a uint64.
	limit := uint64(n)
	max := ^uint64(0) - (^uint64(0) % limit)
	for {
		c.cipher.XORKeyStream(buf[:], buf[:])
		v := binary.LittleEndian.Uint64(buf[:])
		if v < max {
			return int(v % limit)
		}
	}
}

// Shuffle permutes rows in place using r, via the standard
// Fisher-Yates walk.
func Shuffle(rows []Row, r RNG) {
	for i := len(rows) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		rows[i], rows[j] = rows[j], rows[i]
	}
}
