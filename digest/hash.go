package digest

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/framelattice/tracklink/telemetry"
	"github.com/framelattice/tracklink/telemetry/metrics"
)

// Hash computes the hash of the given data.
func Hash(data []byte, opts ...Option) (Digest, error) {
	start := time.Now()
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tags := map[string]string{metrics.TagAlgorithm: string(o.algorithm)}

	var raw []byte
	switch o.algorithm {
	case XXH3_128:
		sum := xxh3.Hash128(data)
		b := sum.Bytes()
		raw = b[:]
		telemetry.EmitCounter(metrics.DigestOperationsTotalXXH3, 1, tags)
	case SHA256:
		h := sha256.New()
		h.Write(data)
		raw = h.Sum(nil)
		telemetry.EmitCounter(metrics.DigestOperationsTotalSHA, 1, tags)
	default:
		return Digest{}, fmt.Errorf("%w %q, supported algorithms: %s, %s", ErrUnsupportedAlgorithm, o.algorithm, XXH3_128, SHA256)
	}

	telemetry.EmitCounter(metrics.DigestBytesHashedTotal, float64(len(data)), tags)
	telemetry.EmitHistogram(metrics.DigestOperationMs, time.Since(start), tags)

	return Digest{algorithm: o.algorithm, bytes: raw}, nil
}

// HashString computes the hash of the given string.
func HashString(s string, opts ...Option) (Digest, error) {
	return Hash([]byte(s), opts...)
}

// HashUint64 computes a fast 64-bit xxh3 hash, used for in-memory map keys
// (distance-cache canonical-pair keys) where a full Digest value is
// unnecessary overhead.
func HashUint64(data []byte) uint64 {
	return xxh3.Hash(data)
}

// HashReader computes the hash of data from an io.Reader.
func HashReader(r io.Reader, opts ...Option) (Digest, error) {
	start := time.Now()
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tags := map[string]string{metrics.TagAlgorithm: string(o.algorithm)}

	hasher, err := newHasher(o.algorithm)
	if err != nil {
		return Digest{}, err
	}

	buf := make([]byte, o.bufferSize)
	bytesRead, err := io.CopyBuffer(hasher, r, buf)
	if err != nil {
		return Digest{}, err
	}

	switch o.algorithm {
	case XXH3_128:
		telemetry.EmitCounter(metrics.DigestOperationsTotalXXH3, 1, tags)
	case SHA256:
		telemetry.EmitCounter(metrics.DigestOperationsTotalSHA, 1, tags)
	}
	telemetry.EmitCounter(metrics.DigestBytesHashedTotal, float64(bytesRead), tags)
	telemetry.EmitHistogram(metrics.DigestOperationMs, time.Since(start), tags)

	return hasher.Sum(), nil
}

// Hasher is the streaming hasher interface.
type Hasher interface {
	io.Writer
	Sum() Digest
	Reset()
}

// NewHasher creates a new streaming hasher.
func NewHasher(opts ...Option) (Hasher, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newHasher(o.algorithm)
}

func newHasher(alg Algorithm) (Hasher, error) {
	switch alg {
	case XXH3_128:
		return &xxh3Hasher{hasher: xxh3.New()}, nil
	case SHA256:
		return &sha256Hasher{hasher: sha256.New()}, nil
	default:
		return nil, fmt.Errorf("%w %q, supported algorithms: %s, %s", ErrUnsupportedAlgorithm, alg, XXH3_128, SHA256)
	}
}

type xxh3Hasher struct {
	hasher *xxh3.Hasher
}

func (h *xxh3Hasher) Write(p []byte) (n int, err error) {
	return h.hasher.Write(p)
}

func (h *xxh3Hasher) Sum() Digest {
	sum := h.hasher.Sum128()
	b := sum.Bytes()
	return Digest{algorithm: XXH3_128, bytes: b[:]}
}

func (h *xxh3Hasher) Reset() {
	h.hasher.Reset()
}

type sha256Hasher struct {
	hasher hash.Hash
}

func (h *sha256Hasher) Write(p []byte) (n int, err error) {
	return h.hasher.Write(p)
}

func (h *sha256Hasher) Sum() Digest {
	sum := h.hasher.Sum(nil)
	return Digest{algorithm: SHA256, bytes: sum}
}

func (h *sha256Hasher) Reset() {
	h.hasher.Reset()
}
