// Package tracker implements the per-chain Tracker (spec §4.6): it owns one
// memory per schema field, scores each incoming frame's records against
// those memories, and accumulates a tracking chain of matched nodes.
package tracker

import (
	"sort"

	"github.com/google/uuid"

	"github.com/framelattice/tracklink/distcache"
	"github.com/framelattice/tracklink/element"
	"github.com/framelattice/tracklink/memory"
	"github.com/framelattice/tracklink/scorer"
	"github.com/framelattice/tracklink/simmetric"
	"github.com/framelattice/tracklink/trackcfg"
)

// RecordScore pairs a frame's record index with its computed interest score.
type RecordScore struct {
	RecordIdx int
	Score     float64
}

// FrameDiagnostic traces one ProcessFrame call: the emitted record scores
// plus a snapshot of each field memory's remembered strings, for the
// diagnostics package to surface later (spec §4.6 step 4).
type FrameDiagnostic struct {
	FrameIdx       int
	Scores         []RecordScore
	MemorySnapshot [][]string // MemorySnapshot[field] = remembered raw strings
}

// Tracker follows one candidate entity across frames.
type Tracker struct {
	ID string

	memories          []memory.Memory
	scorer            scorer.RecordScorer
	interestThreshold float64
	limitNoMatch      uint

	chain         []element.ChainNode
	noMatchStreak uint
	diagnostics   []FrameDiagnostic
}

// New allocates a Tracker: a fresh id and one memory per field, per the
// configured strategy.
func New(cfg trackcfg.TrackerConfig, numFields int, metric simmetric.Metric) (*Tracker, error) {
	rs, err := scorer.New(cfg.RecordScorer)
	if err != nil {
		return nil, err
	}

	memories := make([]memory.Memory, numFields)
	for f := 0; f < numFields; f++ {
		m, err := memory.New(cfg.MemoryStrategy, metric)
		if err != nil {
			return nil, err
		}
		memories[f] = m
	}

	return &Tracker{
		ID:                uuid.New().String(),
		memories:          memories,
		scorer:            rs,
		interestThreshold: cfg.InterestThreshold,
		limitNoMatch:      cfg.LimitNoMatchStreak,
	}, nil
}

// ProcessFrame scores every record in frame against this tracker's current
// memories, one distcache.Calculator per field (spec §4.6 steps 1-4).
func (t *Tracker) ProcessFrame(frameIdx int, frame element.Frame, caches []*distcache.Calculator) []RecordScore {
	numRecords := frame.NumRecords()
	numFields := len(t.memories)

	fieldMemories := make([][]element.Element, numFields)
	for f := 0; f < numFields; f++ {
		fieldMemories[f] = t.memories[f].GetElements()
	}

	results := make([]RecordScore, 0, numRecords)
	for r := 0; r < numRecords; r++ {
		dists := make([]*float64, numFields)
		for f := 0; f < numFields; f++ {
			cell := frame.Column(f)[r]
			dists[f] = fieldMaxDist(caches[f], fieldMemories[f], cell)
		}

		score := t.scorer.Score(dists)
		if score > t.interestThreshold {
			results = append(results, RecordScore{RecordIdx: r, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	t.diagnostics = append(t.diagnostics, FrameDiagnostic{
		FrameIdx:       frameIdx,
		Scores:         results,
		MemorySnapshot: snapshotMemories(fieldMemories),
	})

	return results
}

// fieldMaxDist computes d_{r,f} = max over m in mem of cache.GetDist(m,
// cell), or nil when mem is empty or cell carries no evidence.
func fieldMaxDist(cache *distcache.Calculator, mem []element.Element, cell element.Element) *float64 {
	if len(mem) == 0 || cell.IsNone() {
		return nil
	}

	var best *float64
	for _, m := range mem {
		d := elementDistance(cache, m, cell)
		if d == nil {
			continue
		}
		if best == nil || *d > *best {
			best = d
		}
	}
	return best
}

// snapshotMemories renders each field memory's remembered elements as raw
// strings for diagnostic display.
func snapshotMemories(fieldMemories [][]element.Element) [][]string {
	snap := make([][]string, len(fieldMemories))
	for f, elems := range fieldMemories {
		strs := make([]string, 0, len(elems))
		for _, e := range elems {
			if w, ok := e.Word(); ok {
				strs = append(strs, w.Raw)
				continue
			}
			if ws, ok := e.Words(); ok {
				for _, w := range ws {
					strs = append(strs, w.Raw)
				}
			}
		}
		snap[f] = strs
	}
	return snap
}

// SignalMatchingNode appends node to the tracking chain and feeds record's
// per-field elements into each field's memory.
func (t *Tracker) SignalMatchingNode(node element.ChainNode, record element.Record) {
	t.chain = append(t.chain, node)
	for f, m := range t.memories {
		m.SignalMatchingElement(record.Element(f))
	}
	t.noMatchStreak = 0
}

// SignalNoMatchingNode tells every field memory that this frame produced no
// match and bumps the no-match streak.
func (t *Tracker) SignalNoMatchingNode() {
	for _, m := range t.memories {
		m.SignalNoMatchingElement()
	}
	t.noMatchStreak++
}

// IsDead reports whether the tracker's no-match streak has reached the
// configured limit; dead trackers are reaped after resolution.
func (t *Tracker) IsDead() bool {
	return t.noMatchStreak >= t.limitNoMatch
}

// GetTrackingChain returns a snapshot of the chain accumulated so far.
func (t *Tracker) GetTrackingChain() []element.ChainNode {
	out := make([]element.ChainNode, len(t.chain))
	copy(out, t.chain)
	return out
}

// Diagnostics returns every FrameDiagnostic recorded by ProcessFrame calls
// so far, for the diagnostics package to assemble into a run summary.
func (t *Tracker) Diagnostics() []FrameDiagnostic {
	out := make([]FrameDiagnostic, len(t.diagnostics))
	copy(out, t.diagnostics)
	return out
}
