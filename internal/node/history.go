package node

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/vecmath"
)

// NeighborSummary is the frozen view of a neighbor captured in a history
// entry: {id, kind, addr} per spec.md §4.6.
type NeighborSummary struct {
	ID   int
	Kind Kind
	Addr chainhash.Hash
}

// HistoryEntry is one append-only snapshot of a node's state.
type HistoryEntry struct {
	Idx             int
	Timestamp       time.Time
	Addr            chainhash.Hash
	Pos             vecmath.Vector3
	Velocity        vecmath.Vector3
	Gravity         float64
	Kind            Kind
	Neighbors       []NeighborSummary
	PayloadSummary  string
	PayloadType     string
	// Event records the reason the snapshot was taken, e.g. "connected"
	// after a successful discovery admission. Empty for an ordinary
	// change-detected snapshot (original_source feature, see SPEC_FULL §9).
	Event string
}

func (n *Node) neighborSummaries() []NeighborSummary {
	out := make([]NeighborSummary, len(n.neighbors))
	for i, nb := range n.neighbors {
		out[i] = NeighborSummary{ID: nb.ID, Kind: nb.Kind, Addr: nb.Addr}
	}
	return out
}

// Snapshot appends an unconditional history entry with the next
// contiguous index, per invariant 10.
func Snapshot(n *Node, now time.Time) {
	summary, typeTag := payload.Summarize(n.Payload)
	n.History = append(n.History, HistoryEntry{
		Idx:            len(n.History),
		Timestamp:      now,
		Addr:           n.Addr,
		Pos:            n.Pos,
		Velocity:       n.Velocity,
		Gravity:        n.Gravity,
		Kind:           n.Kind,
		Neighbors:      n.neighborSummaries(),
		PayloadSummary: summary,
		PayloadType:    typeTag,
	})
}

// RecordIfChanged snapshots unconditionally when history is empty — using
// whatever addr the node already carries (its mint addr, for a brand-new
// node) — and otherwise only when the neighbor summary list, pos, gravity,
// kind, or velocity differ from the last entry, in which case UpdateAddr
// runs first so the new entry's addr reflects the change (invariant 7 & 8).
// Returns true iff a new entry was appended.
func RecordIfChanged(n *Node, now time.Time) bool {
	if len(n.History) == 0 {
		Snapshot(n, now)
		return true
	}

	last := n.History[len(n.History)-1]
	current := n.neighborSummaries()
	if neighborSummariesEqual(last.Neighbors, current) &&
		last.Pos == n.Pos &&
		last.Velocity == n.Velocity &&
		last.Gravity == n.Gravity &&
		last.Kind == n.Kind {
		return false
	}

	UpdateAddr(n)
	Snapshot(n, now)
	return true
}

func neighborSummariesEqual(a, b []NeighborSummary) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
