// Package node implements the Node entity: its per-kind configuration, the
// neighbor adjacency/score index, content-addressable identity, and the
// append-only history log (no size cap). Every mutation here is expected to run under the
// owning Registry's lock (see internal/registry) — Node itself holds no
// lock of its own, mirroring the teacher's convention of pushing
// concurrency control up to the owning collection (internal/api.Hub guards
// its client map; internal/engine's session map is guarded by its Engine,
// not by each session).
package node

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/vecmath"
)

// ScoredNeighbor pairs a neighbor with the similarity/proximity score it was
// admitted at.
type ScoredNeighbor struct {
	Node  *Node
	Score float64
}

// Node is the sole first-class entity in the simulation.
type Node struct {
	ID      int
	Addr    chainhash.Hash
	Kind    Kind
	Pos     vecmath.Vector3
	Velocity vecmath.Vector3
	Gravity float64
	Payload payload.Value

	IsAnchor       bool
	Attempts       int
	PermissiveMode bool

	ConnectionThreshold float64
	InfluenceRadius     float64
	MaxDegree           int
	StabilityWindow     int
	TickInterval        time.Duration

	History []HistoryEntry

	neighbors        []*Node
	neighborsByScore []ScoredNeighbor
}

// CanAccept reports whether n has room for one more neighbor.
func (n *Node) CanAccept() bool {
	if n.MaxDegree < 0 {
		return true
	}
	return len(n.neighbors) < n.MaxDegree
}

// Neighbors returns a copy of n's neighbor list in admission order.
func (n *Node) Neighbors() []*Node {
	cp := make([]*Node, len(n.neighbors))
	copy(cp, n.neighbors)
	return cp
}

// Degree returns the current neighbor count.
func (n *Node) Degree() int {
	return len(n.neighbors)
}

// NeighborsByScore returns a copy of the score-ordered index, ascending.
func (n *Node) NeighborsByScore() []ScoredNeighbor {
	cp := make([]ScoredNeighbor, len(n.neighborsByScore))
	copy(cp, n.neighborsByScore)
	return cp
}

// HasNeighbor reports whether other is already adjacent to n.
func (n *Node) HasNeighbor(other *Node) bool {
	for _, nb := range n.neighbors {
		if nb == other {
			return true
		}
	}
	return false
}

// IncrementAttempts records a failed linkage attempt and flips
// PermissiveMode on once attempts reach 2x the degree limit (never, for an
// unlimited degree limit) — invariant 6.
func (n *Node) IncrementAttempts() {
	n.Attempts++
	if n.MaxDegree >= 0 && n.Attempts >= 2*n.MaxDegree {
		n.PermissiveMode = true
	}
}

// MarkConnectedEvent tags the most recent history entry as the result of a
// successful discovery admission (original_source feature: discovery.py
// attaches a "connected" event marker to the snapshot it followed).
func (n *Node) MarkConnectedEvent() {
	if len(n.History) == 0 {
		return
	}
	n.History[len(n.History)-1].Event = "connected"
}
