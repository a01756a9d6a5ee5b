// Package graph builds the frame×record adjacency view of finished tracking
// chains (spec §4.8 tail, §6 Output, §8 invariants).
package graph

import "github.com/framelattice/tracklink/element"

// TrackingChain is one tracker's accumulated sequence of matched nodes,
// strictly increasing in FrameIdx (spec §8 invariant), identified by the id
// of the tracker that produced it so the graph can attribute an edge back
// to the chain it belongs to.
type TrackingChain struct {
	ID    string
	Nodes []element.ChainNode
}

// Edge references one endpoint of a chain's consecutive-pair edge, tagged
// with the id of the chain it belongs to (spec §1/§3: edges are "identified
// by a chain identifier") so that ins/outs can be traced back to a single
// chain even when several chains pass through the same node.
type Edge struct {
	ChainID   string
	FrameIdx  int
	RecordIdx int
}

// GraphNode is one (frame, record) position in the matrix: its inbound
// edges (from the previous node in every chain passing through it) and
// outbound edges (to every next node in every chain passing through it). A
// record can appear in at most one chain per frame under best_match, but
// the graph representation stays general (ins/outs as slices) so it also
// holds under the debug-only simple resolver, where a record may appear in
// more than one chain.
type GraphNode struct {
	Ins  []Edge
	Outs []Edge
}

// TrackingGraph is the engine's terminal output: a synthetic root (whose
// Outs list every chain's first node) plus the frame×record adjacency
// matrix.
type TrackingGraph struct {
	Root   GraphNode
	Matrix [][]GraphNode // Matrix[frameIdx][recordIdx]
}

// FromTrackingChains materializes a TrackingGraph from the frame record
// counts and the finished chains (spec §4.8: "for each chain, add its
// consecutive-pair edges to the ins of the later node and outs of the
// earlier node, and attach the chain's first node to the graph root's
// outs").
func FromTrackingChains(frameRecordCounts []int, chains []TrackingChain) TrackingGraph {
	matrix := make([][]GraphNode, len(frameRecordCounts))
	for i, n := range frameRecordCounts {
		matrix[i] = make([]GraphNode, n)
	}

	var root GraphNode
	for _, chain := range chains {
		if len(chain.Nodes) == 0 {
			continue
		}
		first := chain.Nodes[0]
		root.Outs = append(root.Outs, Edge{ChainID: chain.ID, FrameIdx: first.FrameIdx, RecordIdx: first.RecordIdx})

		for i := 1; i < len(chain.Nodes); i++ {
			prev := chain.Nodes[i-1]
			cur := chain.Nodes[i]
			matrix[prev.FrameIdx][prev.RecordIdx].Outs = append(
				matrix[prev.FrameIdx][prev.RecordIdx].Outs,
				Edge{ChainID: chain.ID, FrameIdx: cur.FrameIdx, RecordIdx: cur.RecordIdx})
			matrix[cur.FrameIdx][cur.RecordIdx].Ins = append(
				matrix[cur.FrameIdx][cur.RecordIdx].Ins,
				Edge{ChainID: chain.ID, FrameIdx: prev.FrameIdx, RecordIdx: prev.RecordIdx})
		}
	}

	return TrackingGraph{Root: root, Matrix: matrix}
}
