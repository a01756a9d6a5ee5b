// Package distcache implements the per-frame-transition distance cache
// (spec §4.3): a symmetric (string,string)->similarity store, plus a
// calculator that wraps it around a simmetric.Metric and precomputes only
// the pairs worth caching.
package distcache

import "github.com/framelattice/tracklink/digest"

// pairKey is the canonical (min,max) ordering of two raw strings, hashed
// with a fast non-cryptographic digest so the map key is a fixed-size
// value rather than a concatenated string.
type pairKey struct {
	lo, hi uint64
}

// Matrix is a symmetric key-value store from (string,string) to a
// similarity score. Insertion canonicalizes the pair ordering so lookups
// are order-independent regardless of argument order.
type Matrix struct {
	entries map[pairKey]float64
}

// NewMatrix builds an empty Matrix.
func NewMatrix() *Matrix {
	return &Matrix{entries: make(map[pairKey]float64)}
}

func canonicalKey(a, b string) pairKey {
	ha, hb := digest.HashUint64([]byte(a)), digest.HashUint64([]byte(b))
	if a > b {
		ha, hb = hb, ha
	}
	return pairKey{lo: ha, hi: hb}
}

// Get returns the cached similarity for (a,b) and whether it was present.
func (m *Matrix) Get(a, b string) (float64, bool) {
	v, ok := m.entries[canonicalKey(a, b)]
	return v, ok
}

// Set stores the similarity for (a,b), canonicalizing the pair order.
func (m *Matrix) Set(a, b string, similarity float64) {
	m.entries[canonicalKey(a, b)] = similarity
}

// Clear empties the matrix. Invoked at the start of each frame transition
// to bound memory — this cache is a per-transition scratch resource, not a
// persistent LRU (spec §9).
func (m *Matrix) Clear() {
	m.entries = make(map[pairKey]float64)
}

// Size returns the number of cached pairs.
func (m *Matrix) Size() int {
	return len(m.entries)
}
