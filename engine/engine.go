// Package engine orchestrates the tracking run (spec §4.8): it owns the
// frame history, one distance cache per schema field, the active tracker
// set, and the resolver, and drives the initialize → process → stop
// lifecycle.
package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/framelattice/tracklink/distcache"
	"github.com/framelattice/tracklink/element"
	"github.com/framelattice/tracklink/graph"
	"github.com/framelattice/tracklink/resolver"
	"github.com/framelattice/tracklink/simmetric"
	"github.com/framelattice/tracklink/tracklog"
	"github.com/framelattice/tracklink/trackcfg"
	"github.com/framelattice/tracklink/trackerr"
	"github.com/framelattice/tracklink/tracker"
	"github.com/framelattice/tracklink/word"

	"go.uber.org/zap"
)

// Engine drives a full tracking run over an ordered frame sequence.
type Engine struct {
	cfg    *trackcfg.TrackingConfig
	schema element.Schema
	metric simmetric.Metric
	logger *tracklog.Logger

	resolver    resolver.Resolver
	fieldCaches []*distcache.Calculator

	frames         []element.Frame
	trackers       map[string]*tracker.Tracker
	deadChains     []graph.TrackingChain
	deadChainsByID map[string]graph.TrackingChain
	deadTraces     map[string][]tracker.FrameDiagnostic
	nextFrameIdx   int
}

// New builds an Engine from its configuration and schema. Construction
// fails fast (spec §7) on an unknown enum or metric configuration error.
func New(cfg *trackcfg.TrackingConfig, schema element.Schema, logger *tracklog.Logger) (*Engine, error) {
	metric, err := simmetric.New(cfg.DistanceMetric)
	if err != nil {
		return nil, err
	}
	res, err := resolver.New(cfg.Resolver.ResolvingStrategy)
	if err != nil {
		return nil, err
	}

	numFields := schema.NumFields()
	fieldCaches := make([]*distcache.Calculator, numFields)
	for f := 0; f < numFields; f++ {
		fieldCaches[f] = distcache.NewCalculator(metric, cfg.DistanceMetric.CachingThreshold)
	}

	return &Engine{
		cfg:            cfg,
		schema:         schema,
		metric:         metric,
		logger:         logger.WithComponent("engine"),
		resolver:       res,
		fieldCaches:    fieldCaches,
		trackers:       make(map[string]*tracker.Tracker),
		deadChainsByID: make(map[string]graph.TrackingChain),
		deadTraces:     make(map[string][]tracker.FrameDiagnostic),
	}, nil
}

// Initialize seeds one tracker per record in frame 0 (spec §4.8 step 1).
// frames must have at least 2 entries overall; the caller is expected to
// hand the full ordered frame slice's first element here and feed the rest
// through ProcessNextFrame.
func (e *Engine) Initialize(frames []element.Frame) error {
	if len(frames) < 2 {
		return trackerr.EmptyFrameSet("engine", fmt.Sprintf("tracking requires at least 2 frames, got %d", len(frames)))
	}
	if err := validateFrame(e.schema, frames[0]); err != nil {
		return err
	}

	frame0 := frames[0]
	e.frames = append(e.frames, frame0)

	for r := 0; r < frame0.NumRecords(); r++ {
		t, err := tracker.New(e.cfg.Tracker, e.schema.NumFields(), e.metric)
		if err != nil {
			return err
		}
		t.SignalMatchingNode(element.ChainNode{FrameIdx: 0, RecordIdx: r}, frame0.Record(r))
		e.trackers[t.ID] = t
	}

	e.nextFrameIdx = 1
	e.logger.Info("engine initialized", zap.Int("num_trackers", len(e.trackers)))
	return nil
}

// ProcessNextFrame advances the engine by one frame (spec §4.8 step 2).
func (e *Engine) ProcessNextFrame(frame element.Frame) error {
	if err := validateFrame(e.schema, frame); err != nil {
		return err
	}

	i := e.nextFrameIdx
	prev := e.frames[i-1]
	e.frames = append(e.frames, frame)

	for f := range e.fieldCaches {
		e.fieldCaches[f].ClearCache()
		e.fieldCaches[f].Precompute(wordsInColumn(prev.Column(f)), wordsInColumn(frame.Column(f)))
	}

	ids := e.sortedTrackerIDs()
	scores, err := e.processTrackers(i, frame, ids)
	if err != nil {
		return err
	}
	candidates := make([]resolver.TrackerCandidates, len(ids))
	for idx, id := range ids {
		candidates[idx] = resolver.TrackerCandidates{TrackerID: id, Candidates: scores[idx]}
	}

	result := e.resolver.Resolve(candidates, frame.NumRecords())
	if result.NonProgress {
		e.logger.WarnResolverNonProgress(i, len(result.WontResolve))
	}

	for _, a := range result.Resolved {
		e.trackers[a.TrackerID].SignalMatchingNode(
			element.ChainNode{FrameIdx: i, RecordIdx: a.RecordIdx}, frame.Record(a.RecordIdx))
	}
	for _, id := range result.WontResolve {
		e.trackers[id].SignalNoMatchingNode()
	}

	e.reapDead()

	for _, r := range result.UnassignedRecords {
		t, err := tracker.New(e.cfg.Tracker, e.schema.NumFields(), e.metric)
		if err != nil {
			return err
		}
		t.SignalMatchingNode(element.ChainNode{FrameIdx: i, RecordIdx: r}, frame.Record(r))
		e.trackers[t.ID] = t
	}

	e.nextFrameIdx++
	return nil
}

// processTrackers runs ProcessFrame for every id in ids, fanning out across
// cfg.NumThreads workers when it's greater than 1 (spec §4.9's optional
// worker-pool parallelism). Every worker gets its own per-field
// distcache.Calculator, cloned from e.fieldCaches via CloneWithMetric with a
// freshly constructed simmetric.Metric: the Matrix each clone wraps is only
// read during fan-out (all writes happened in the prior single-threaded
// Precompute call) and can safely be shared, but a Metric keeps mutable DP
// scratch state across calls, so each worker must hold its own clone per
// spec §4.9. Results are written to a pre-sized slice at each tracker's
// sorted-id index, so the resolver always sees bucket ordering independent
// of which worker drained which job (spec §5(c): "any partition produces
// the same bucket contents"). Re-partitioning across frames is implicit:
// each call reads the current id list fresh, so a tracker spawned or reaped
// since the last frame is simply absent or present in the job queue, with
// no explicit AddTrackers/RemoveTrackers handshake required.
func (e *Engine) processTrackers(frameIdx int, frame element.Frame, ids []string) ([][]tracker.RecordScore, error) {
	scores := make([][]tracker.RecordScore, len(ids))

	numWorkers := int(e.cfg.NumThreads)
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(ids) {
		numWorkers = len(ids)
	}
	if numWorkers <= 1 {
		for idx, id := range ids {
			scores[idx] = e.trackers[id].ProcessFrame(frameIdx, frame, e.fieldCaches)
		}
		return scores, nil
	}

	workerCaches := make([][]*distcache.Calculator, numWorkers)
	for w := 0; w < numWorkers; w++ {
		metric, err := simmetric.New(e.cfg.DistanceMetric)
		if err != nil {
			return nil, err
		}
		caches := make([]*distcache.Calculator, len(e.fieldCaches))
		for f, c := range e.fieldCaches {
			caches[f] = c.CloneWithMetric(metric)
		}
		workerCaches[w] = caches
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		caches := workerCaches[w]
		go func() {
			defer wg.Done()
			for idx := range jobs {
				scores[idx] = e.trackers[ids[idx]].ProcessFrame(frameIdx, frame, caches)
			}
		}()
	}
	for idx := range ids {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return scores, nil
}

// reapDead moves every dead tracker's chain into deadChains and removes it
// from the active set (spec §4.8 step d).
func (e *Engine) reapDead() {
	for id, t := range e.trackers {
		if !t.IsDead() {
			continue
		}
		chain := graph.TrackingChain{ID: id, Nodes: t.GetTrackingChain()}
		e.deadChains = append(e.deadChains, chain)
		e.deadChainsByID[id] = chain
		e.deadTraces[id] = t.Diagnostics()
		delete(e.trackers, id)
	}
}

// Stop concatenates dead chains with each live tracker's current chain
// (spec §4.8 step 3). Chains of length 1 are valid outputs.
func (e *Engine) Stop() []graph.TrackingChain {
	chains := make([]graph.TrackingChain, 0, len(e.deadChains)+len(e.trackers))
	chains = append(chains, e.deadChains...)
	for _, id := range e.sortedTrackerIDs() {
		chains = append(chains, graph.TrackingChain{ID: id, Nodes: e.trackers[id].GetTrackingChain()})
	}
	return chains
}

// FrameRecordCounts returns the per-frame record count, for
// graph.FromTrackingChains.
func (e *Engine) FrameRecordCounts() []int {
	counts := make([]int, len(e.frames))
	for i, f := range e.frames {
		counts[i] = f.NumRecords()
	}
	return counts
}

// Traces returns every tracker's diagnostic trace seen so far: dead
// trackers (reaped during the run) plus currently-live ones.
func (e *Engine) Traces() map[string][]tracker.FrameDiagnostic {
	out := make(map[string][]tracker.FrameDiagnostic, len(e.deadTraces)+len(e.trackers))
	for id, trace := range e.deadTraces {
		out[id] = trace
	}
	for id, t := range e.trackers {
		out[id] = t.Diagnostics()
	}
	return out
}

// ChainsByTrackerID returns the current-or-reaped tracking chain for every
// tracker the engine has ever seen, keyed by tracker id. Stop's flat chain
// list discards that pairing; diagnostics output needs it to report each
// tracker's chain length.
func (e *Engine) ChainsByTrackerID() map[string]graph.TrackingChain {
	out := make(map[string]graph.TrackingChain, len(e.deadChainsByID)+len(e.trackers))
	for id, c := range e.deadChainsByID {
		out[id] = c
	}
	for id, t := range e.trackers {
		out[id] = graph.TrackingChain{ID: id, Nodes: t.GetTrackingChain()}
	}
	return out
}

// AliveTrackerIDs reports which tracker ids were still active when the
// engine was last queried (used to populate diagnostics.TrackerDiagnostics.Alive).
func (e *Engine) AliveTrackerIDs() map[string]bool {
	alive := make(map[string]bool, len(e.trackers))
	for id := range e.trackers {
		alive[id] = true
	}
	return alive
}

// sortedTrackerIDs returns active tracker ids in a stable order so that
// candidate-bucket construction (and hence resolution) is deterministic
// regardless of Go's randomized map iteration (spec §5 ordering guarantee).
func (e *Engine) sortedTrackerIDs() []string {
	ids := make([]string, 0, len(e.trackers))
	for id := range e.trackers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// validateFrame checks a frame's column count and, per column, that every
// non-None element matches the schema's declared field type (spec §7
// schema-input mismatch class).
func validateFrame(schema element.Schema, frame element.Frame) error {
	if len(frame.Columns) != len(schema) {
		return trackerr.SchemaMismatch("engine", fmt.Sprintf(
			"frame %d has %d columns, schema declares %d", frame.Index, len(frame.Columns), len(schema)))
	}
	for f, spec := range schema {
		for _, e := range frame.Columns[f] {
			if e.IsNone() {
				continue
			}
			switch spec.Type {
			case element.FieldString:
				if _, ok := e.Word(); !ok {
					return trackerr.SchemaMismatch("engine", fmt.Sprintf(
						"frame %d field %q expects String|None elements", frame.Index, spec.Name))
				}
			case element.FieldMultiStrings:
				if _, ok := e.Words(); !ok {
					return trackerr.SchemaMismatch("engine", fmt.Sprintf(
						"frame %d field %q expects MultiStrings|None elements", frame.Index, spec.Name))
				}
			}
		}
	}
	return nil
}

// wordsInColumn flattens a column's elements into the word multiset
// Precompute needs: single words as-is, multi-word cells expanded, None
// cells skipped.
func wordsInColumn(col []element.Element) []word.Word {
	words := make([]word.Word, 0, len(col))
	for _, e := range col {
		if w, ok := e.Word(); ok {
			words = append(words, w)
			continue
		}
		if ws, ok := e.Words(); ok {
			words = append(words, ws...)
		}
	}
	return words
}
