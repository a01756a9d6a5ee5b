// Package resolver assigns trackers to frame records (spec §4.7): a tracker
// is assigned at most one record, a record at most one tracker, and no
// tracker wins a record over a strictly higher-scoring competitor.
package resolver

import (
	"fmt"

	"github.com/framelattice/tracklink/tracker"
	"github.com/framelattice/tracklink/trackcfg"
	"github.com/framelattice/tracklink/trackerr"
)

// TrackerCandidates is one tracker's sorted candidate list for a frame,
// descending by score (tracker.ProcessFrame already sorts it this way).
type TrackerCandidates struct {
	TrackerID  string
	Candidates []tracker.RecordScore
}

// Assignment is one resolved tracker-to-record pairing.
type Assignment struct {
	TrackerID string
	RecordIdx int
}

// Result is the outcome of one resolution pass over a frame.
type Result struct {
	Resolved          []Assignment
	WontResolve       []string
	UnassignedRecords []int
	// NonProgress is true when the best-match fixed-point loop stalled with
	// trackers still pending; those trackers were force-marked WontResolve
	// (spec §4.7: "Non-progress logs a warning and forces resolution to
	// abort for the deadlocked trackers").
	NonProgress bool
}

// Resolver assigns trackers to records for one frame.
type Resolver interface {
	Resolve(candidates []TrackerCandidates, numRecords int) Result
}

// New builds the Resolver named by strategy.
func New(strategy trackcfg.ResolvingStrategy) (Resolver, error) {
	switch strategy {
	case trackcfg.ResolverBestMatch:
		return BestMatch{}, nil
	case trackcfg.ResolverSimple:
		return Simple{}, nil
	default:
		return nil, trackerr.Configuration("resolver", fmt.Sprintf("unknown resolving_strategy %q", strategy))
	}
}

// bucketEntry is one (tracker, score) pair within a record's bucket, kept in
// insertion order so equal scores break ties by insertion order (spec §4.7
// edge case).
type bucketEntry struct {
	trackerID string
	score     float64
}

// buildBuckets groups every tracker's candidates by record, each bucket
// sorted descending by score with stable tie-breaking on insertion order.
func buildBuckets(candidates []TrackerCandidates, numRecords int) [][]bucketEntry {
	buckets := make([][]bucketEntry, numRecords)
	for _, tc := range candidates {
		for _, c := range tc.Candidates {
			if c.RecordIdx < 0 || c.RecordIdx >= numRecords {
				continue
			}
			buckets[c.RecordIdx] = append(buckets[c.RecordIdx], bucketEntry{trackerID: tc.TrackerID, score: c.Score})
		}
	}
	for r := range buckets {
		stableSortDescending(buckets[r])
	}
	return buckets
}

// stableSortDescending sorts by score descending, preserving relative order
// of equal-score entries (insertion-order tie-break) — a manual insertion
// sort rather than sort.SliceStable, since the tie-break is the whole point.
func stableSortDescending(entries []bucketEntry) {
	for i := 1; i < len(entries); i++ {
		v := entries[i]
		j := i - 1
		for j >= 0 && entries[j].score < v.score {
			entries[j+1] = entries[j]
			j--
		}
		entries[j+1] = v
	}
}
