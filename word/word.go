// Package word packs strings into grapheme-cluster sequences so distance
// metrics can compare cells with O(1) equality instead of rune-by-rune
// comparison, and so distance caches can key on structurally equal values.
package word

import (
	"sync"

	"github.com/clipperhouse/uax29/v2/graphemes"

	"github.com/framelattice/tracklink/telemetry"
	"github.com/framelattice/tracklink/telemetry/metrics"
)

// GraphemeCode is a 64-bit big-endian packing of one grapheme cluster's
// bytes. Clusters longer than 8 bytes are truncated to their first 8 bytes;
// collisions across distinct oversize clusters are possible but rare for
// Latin-script corpora (see Pack).
type GraphemeCode uint64

// Word is a raw string together with its derived grapheme-code sequence.
// Equality and hashing are structural over Raw; Graphemes exists purely to
// speed up the edit-distance dynamic program.
type Word struct {
	Raw       string
	Graphemes []GraphemeCode
}

// warner receives a formatted warning when a grapheme cluster must be
// truncated during packing. Defaults to a no-op; engines wire a real logger
// via SetWarner.
type warner func(cluster string, byteLen int)

var (
	warnerMu  sync.RWMutex
	warnFunc  warner = func(string, int) {}
)

// SetWarner installs the callback invoked when Pack truncates an oversize
// grapheme cluster. Engines typically wire this to a structured logger
// (see tracklog.Logger.WarnGraphemeTruncation).
func SetWarner(w func(cluster string, byteLen int)) {
	warnerMu.Lock()
	defer warnerMu.Unlock()
	if w == nil {
		w = func(string, int) {}
	}
	warnFunc = w
}

func warn(cluster string, byteLen int) {
	warnerMu.RLock()
	w := warnFunc
	warnerMu.RUnlock()
	w(cluster, byteLen)
}

// New segments raw into grapheme clusters and packs each into a GraphemeCode.
//
// Invariant: len(New(raw).Graphemes) equals the grapheme-cluster count of raw.
func New(raw string) Word {
	seg := graphemes.FromString(raw)
	codes := make([]GraphemeCode, 0, len(raw))
	for seg.Next() {
		codes = append(codes, Pack(seg.Value()))
	}
	telemetry.EmitCounter(metrics.WordPackedTotal, 1, nil)
	return Word{Raw: raw, Graphemes: codes}
}

// Pack packs one grapheme cluster's bytes into a 64-bit big-endian integer:
// acc = (acc<<8)|byte for each byte, in order. Clusters longer than 8 bytes
// are truncated to their first 8 bytes and a warning is emitted through the
// installed warner — collisions between distinct oversize clusters are
// possible but accepted as a rare cost for O(1) equality.
func Pack(cluster string) GraphemeCode {
	b := []byte(cluster)
	n := len(b)
	if n > 8 {
		warn(cluster, n)
		telemetry.EmitCounter(metrics.WordGraphemeTruncationsTotal, 1, nil)
		n = 8
	}
	var acc uint64
	for i := 0; i < n; i++ {
		acc = (acc << 8) | uint64(b[i])
	}
	return GraphemeCode(acc)
}

// Equal reports whether two words are structurally identical.
func (w Word) Equal(other Word) bool {
	return w.Raw == other.Raw
}

// Len returns the grapheme-cluster count.
func (w Word) Len() int {
	return len(w.Graphemes)
}

// ByteLen returns the byte length of the raw string, which is the
// normalization denominator the distance metrics use (see simmetric).
func (w Word) ByteLen() int {
	return len(w.Raw)
}
