// Package randutil generates the random page titles and values used by
// e2e scenarios. A seeded Rand makes a run reproducible.
package randutil

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Alphabet is the character set used by RandomString.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Rand is a goroutine-safe random source.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Rand seeded with seed.
func New(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

var global = &Rand{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}

// String returns length characters drawn from Alphabet.
func (g *Rand) String(length int) string {
	if length <= 0 {
		return ""
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = Alphabet[g.r.IntN(len(Alphabet))]
	}
	return string(buf)
}

// Int returns a uniform integer in [min, max]. Swapped bounds are accepted.
func (g *Rand) Int(min, max int) int {
	if max < min {
		min, max = max, min
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	span := uint64(max) - uint64(min)
	if span == math.MaxUint64 {
		return int(g.r.Uint64())
	}
	return min + int(g.r.Uint64N(span+1))
}

// Bool returns true with probability one half.
func (g *Rand) Bool() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.IntN(2) == 0
}

// Pick returns a random element of items, or the zero value when empty.
func Pick[T any](g *Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[g.Int(0, len(items)-1)]
}

// RandomString returns length random alphanumeric characters.
func RandomString(length int) string { return global.String(length) }

// RandomInt returns a uniform integer in [min, max].
func RandomInt(min, max int) int { return global.Int(min, max) }

// RandomBoolean returns a fair coin flip.
func RandomBoolean() bool { return global.Bool() }
