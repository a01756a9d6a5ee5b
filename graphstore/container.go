// Package graphstore is the binary on-disk container for a tracking run's
// output (spec §6): "a length-prefixed frame-wise encoding is sufficient;
// the on-disk layout is the union { graph?, diagnostics? }". Either half
// may be absent — a diagnostics-only dump and a graph-only dump are both
// valid containers.
package graphstore

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/framelattice/tracklink/digest"
	"github.com/framelattice/tracklink/diagnostics"
	"github.com/framelattice/tracklink/graph"
	"github.com/framelattice/tracklink/trackerr"
)

// magic identifies a tracklink graphstore container; version 1.
var magic = [8]byte{'T', 'R', 'K', 'G', 'R', 'P', 'H', 1}

const checksumSize = 16 // xxh3-128

// Container is the union payload written to disk.
type Container struct {
	Graph       *graph.TrackingGraph    `msgpack:"graph,omitempty"`
	Diagnostics *diagnostics.Diagnostics `msgpack:"diagnostics,omitempty"`
}

// Save writes container to path: an 8-byte magic, an 8-byte big-endian
// payload length, the msgpack-encoded payload, and a trailing 16-byte
// xxh3-128 checksum of the payload.
func Save(path string, container Container) error {
	payload, err := msgpack.Marshal(container)
	if err != nil {
		return trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to encode container", err)
	}

	sum, err := digest.Hash(payload, digest.WithAlgorithm(digest.XXH3_128))
	if err != nil {
		return trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to checksum container", err)
	}

	f, err := os.Create(path) // #nosec G304 -- caller-controlled output path
	if err != nil {
		return trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to create container file", err)
	}
	defer f.Close()

	if _, err := f.Write(magic[:]); err != nil {
		return trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to write container header", err)
	}
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	if _, err := f.Write(lenBuf[:]); err != nil {
		return trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to write container length", err)
	}
	if _, err := f.Write(payload); err != nil {
		return trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to write container payload", err)
	}
	if _, err := f.Write(sum.Bytes()); err != nil {
		return trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to write container checksum", err)
	}
	return nil
}

// Load reads and verifies a container written by Save.
func Load(path string) (Container, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-controlled input path
	if err != nil {
		return Container{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to open container file", err)
	}
	defer f.Close()

	var gotMagic [8]byte
	if _, err := io.ReadFull(f, gotMagic[:]); err != nil {
		return Container{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to read container header", err)
	}
	if gotMagic != magic {
		return Container{}, trackerr.SchemaMismatch("graphstore", fmt.Sprintf("%s is not a tracklink graphstore container", path))
	}

	var lenBuf [8]byte
	if _, err := io.ReadFull(f, lenBuf[:]); err != nil {
		return Container{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to read container length", err)
	}
	payloadLen := binary.BigEndian.Uint64(lenBuf[:])

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(f, payload); err != nil {
		return Container{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to read container payload", err)
	}

	var gotSum [checksumSize]byte
	if _, err := io.ReadFull(f, gotSum[:]); err != nil {
		return Container{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to read container checksum", err)
	}

	wantSum, err := digest.Hash(payload, digest.WithAlgorithm(digest.XXH3_128))
	if err != nil {
		return Container{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to checksum container payload", err)
	}
	for i, b := range wantSum.Bytes() {
		if gotSum[i] != b {
			return Container{}, trackerr.SchemaMismatch("graphstore", fmt.Sprintf("%s failed checksum verification", path))
		}
	}

	var out Container
	if err := msgpack.Unmarshal(payload, &out); err != nil {
		return Container{}, trackerr.Wrap(trackerr.CodeSchemaMismatch, "graphstore", "failed to decode container", err)
	}
	return out, nil
}
