// Package diagnostics assembles the per-tracker FrameDiagnostic trace into
// the engine's Diagnostics output (spec §2, §6) plus a read-only summary
// projection (SPEC_FULL.md Supplemented Feature 4).
package diagnostics

import "github.com/framelattice/tracklink/tracker"

// TrackerDiagnostics is one tracker's full per-frame trace plus its final
// disposition.
type TrackerDiagnostics struct {
	TrackerID   string
	Frames      []tracker.FrameDiagnostic
	ChainLength int
	Alive       bool
}

// Diagnostics is the engine's terminal diagnostics output: every tracker
// that existed during the run, keyed by id.
type Diagnostics struct {
	Trackers map[string]TrackerDiagnostics
}

// New builds an empty Diagnostics ready for tracker entries to be added.
func New() Diagnostics {
	return Diagnostics{Trackers: make(map[string]TrackerDiagnostics)}
}

// Add records one tracker's final trace.
func (d Diagnostics) Add(id string, frames []tracker.FrameDiagnostic, chainLength int, alive bool) {
	d.Trackers[id] = TrackerDiagnostics{
		TrackerID:   id,
		Frames:      frames,
		ChainLength: chainLength,
		Alive:       alive,
	}
}

// Summary is a compact, read-only projection of one tracker's trace.
type Summary struct {
	ChainLength       int
	MeanResolvedScore float64
	Alive             bool
}

// Summarize reduces every tracker's trace to a Summary: chain length, mean
// of each frame's best candidate score (0 if it never scored a candidate),
// and whether it was still alive when the run stopped.
func (d Diagnostics) Summarize() map[string]Summary {
	out := make(map[string]Summary, len(d.Trackers))
	for id, td := range d.Trackers {
		sum := 0.0
		count := 0
		for _, fd := range td.Frames {
			if len(fd.Scores) == 0 {
				continue
			}
			sum += fd.Scores[0].Score
			count++
		}
		mean := 0.0
		if count > 0 {
			mean = sum / float64(count)
		}
		out[id] = Summary{ChainLength: td.ChainLength, MeanResolvedScore: mean, Alive: td.Alive}
	}
	return out
}
