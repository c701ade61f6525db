package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint32 returns a pseudo-random uint32.
func (r *RNG) Uint32() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint32()
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// Edit overwrites one word of a snapshot.
type Edit struct {
	Word  int
	Value uint32
}

// Edits generates n edits over snapshots of words words. Word indices are
// Zipf-distributed with skew s, so a few words change often, as the fields
// of a real state do. Values are drawn from [0, values).
func (r *RNG) Edits(n, words, values int, s float64) []Edit {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Edit, n)
	for i := range out {
		out[i] = Edit{
			Word:  r.zipfLocked(words, s),
			Value: uint32(r.rand.Intn(values)),
		}
	}
	return out
}

// Oracle checks interning against a plain map from content to handle.
// Handles are compared as uint64 so the package stays independent of the
// pool under test.
type Oracle struct {
	byContent map[string]uint64
	byHandle  map[uint64]string
}

// NewOracle creates an empty oracle.
func NewOracle() *Oracle {
	return &Oracle{
		byContent: map[string]uint64{},
		byHandle:  map[uint64]string{},
	}
}

// Observe records that handle names content. It returns an error if the
// same content was seen under another handle or the handle under other content.
func (o *Oracle) Observe(handle uint64, content []uint32) error {
	key := fmt.Sprint(content)
	if h, ok := o.byContent[key]; ok && h != handle {
		return fmt.Errorf("content %s interned twice: %#x and %#x", key, h, handle)
	}
	if c, ok := o.byHandle[handle]; ok && c != key {
		return fmt.Errorf("handle %#x names %s and %s", handle, c, key)
	}
	o.byContent[key] = handle
	o.byHandle[handle] = key
	return nil
}

// Len returns the number of distinct contents observed.
func (o *Oracle) Len() int {
	return len(o.byContent)
}
