package resolver

// BestMatch implements the spec §4.7 iterative-stabilization policy.
type BestMatch struct{}

// walkOutcome is the result of walking one record's bucket on behalf of a
// given tracker.
type walkOutcome int

const (
	outcomeResolve walkOutcome = iota
	outcomeAbandonCandidate
	outcomeStandBy
)

type pendingTracker struct {
	id      string
	cursor  int // index into Candidates not yet tried
	entries []struct {
		recordIdx int
		score     float64
	}
}

// Resolve implements Resolver.
func (BestMatch) Resolve(candidates []TrackerCandidates, numRecords int) Result {
	buckets := buildBuckets(candidates, numRecords)

	resolved := make(map[string]int, len(candidates))
	wontResolve := make(map[string]bool, len(candidates))

	pending := make([]*pendingTracker, 0, len(candidates))
	for _, tc := range candidates {
		pt := &pendingTracker{id: tc.TrackerID}
		for _, c := range tc.Candidates {
			pt.entries = append(pt.entries, struct {
				recordIdx int
				score     float64
			}{recordIdx: c.RecordIdx, score: c.Score})
		}
		pending = append(pending, pt)
	}

	nonProgress := false
	for len(pending) > 0 {
		progress := false
		next := pending[:0:0]

		for _, pt := range pending {
			if done := attempt(pt, buckets, resolved, wontResolve); done {
				progress = true
				continue
			}
			next = append(next, pt)
		}
		pending = next

		if !progress && len(pending) > 0 {
			nonProgress = true
			for _, pt := range pending {
				wontResolve[pt.id] = true
			}
			pending = nil
		}
	}

	return finalizeResult(resolved, wontResolve, numRecords, nonProgress)
}

// attempt tries to resolve pt against its remaining candidates. It returns
// whether pt is "done" for this pass: either it resolved, or it exhausted
// its list and became WontResolve. If not done (StandBy), pt's cursor is
// left pointing at the candidate to retry next round.
func attempt(pt *pendingTracker, buckets [][]bucketEntry, resolved map[string]int, wontResolve map[string]bool) bool {
	for pt.cursor < len(pt.entries) {
		r := pt.entries[pt.cursor].recordIdx
		switch walkBucket(buckets[r], r, pt.id, resolved, wontResolve) {
		case outcomeResolve:
			resolved[pt.id] = r
			return true
		case outcomeAbandonCandidate:
			pt.cursor++
			continue
		case outcomeStandBy:
			return false
		}
	}
	wontResolve[pt.id] = true
	return true
}

// walkBucket walks record r's bucket, descending by score, on behalf of
// tracker id.
func walkBucket(bucket []bucketEntry, r int, id string, resolved map[string]int, wontResolve map[string]bool) walkOutcome {
	for _, entry := range bucket {
		if entry.trackerID == id {
			return outcomeResolve
		}
		if resolvedTo, ok := resolved[entry.trackerID]; ok {
			if resolvedTo == r {
				return outcomeAbandonCandidate
			}
			continue
		}
		if wontResolve[entry.trackerID] {
			continue
		}
		return outcomeStandBy
	}
	return outcomeAbandonCandidate
}

// finalizeResult assembles the public Result from internal maps.
func finalizeResult(resolved map[string]int, wontResolve map[string]bool, numRecords int, nonProgress bool) Result {
	assignedRecords := make(map[int]bool, len(resolved))
	out := Result{NonProgress: nonProgress}
	for id, r := range resolved {
		out.Resolved = append(out.Resolved, Assignment{TrackerID: id, RecordIdx: r})
		assignedRecords[r] = true
	}
	for id := range wontResolve {
		out.WontResolve = append(out.WontResolve, id)
	}
	for r := 0; r < numRecords; r++ {
		if !assignedRecords[r] {
			out.UnassignedRecords = append(out.UnassignedRecords, r)
		}
	}
	return out
}
