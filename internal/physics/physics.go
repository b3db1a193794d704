// Package physics computes the stability/competition/deficit metrics that
// feed a node's gravity scalar, and applies that gravity to move the node
// toward its neighborhood's centroid. None of it models real physics — it is
// a deliberately simplified scalar-force toy (spec Non-goals).
package physics

import (
	"math"
	"time"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/vecmath"
)

// MaxGravity bounds the gravity scalar per node.Node's [0,20] invariant.
const MaxGravity = 20.0

// Stability returns the mean of consecutive pairwise distances across the
// last n.StabilityWindow recorded positions. Fewer than two samples yields 0
// (a node can't be judged unstable before it has moved at least once).
func Stability(n *node.Node) float64 {
	positions := recentPositions(n, n.StabilityWindow)
	if len(positions) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(positions); i++ {
		total += positions[i-1].Distance(positions[i])
	}
	return total / float64(len(positions)-1)
}

func recentPositions(n *node.Node, window int) []vecmath.Vector3 {
	if window <= 0 || len(n.History) == 0 {
		return nil
	}
	start := len(n.History) - window
	if start < 0 {
		start = 0
	}
	out := make([]vecmath.Vector3, 0, len(n.History)-start)
	for _, entry := range n.History[start:] {
		out = append(out, entry.Pos)
	}
	return out
}

// Competition measures how far a node's failed-linkage attempts have
// overrun its degree limit. A Sphere's infinite max_degree can never be
// overrun, so competition is always 0.
func Competition(n *node.Node) float64 {
	if n.MaxDegree < 0 {
		return 0
	}
	return math.Max(0, float64(n.Attempts-n.MaxDegree))
}

// Deficit is how far a node's current degree falls short of its desired
// degree: 10 for an unlimited max_degree, 1 for Point, otherwise
// min(5, max_degree).
func Deficit(n *node.Node) float64 {
	var desired int
	switch {
	case n.MaxDegree < 0:
		desired = 10
	case n.Kind == node.KindPoint:
		desired = 1
	default:
		desired = n.MaxDegree
		if desired > 5 {
			desired = 5
		}
	}
	return math.Max(0, float64(desired-n.Degree()))
}

// ComputeGravity derives the gravity scalar from competition, stability, and
// deficit, clamped to [0, MaxGravity].
func ComputeGravity(n *node.Node) float64 {
	g := Competition(n) - 0.5*Stability(n) + 0.5*Deficit(n)
	return vecmath.Clamp(g, 0, MaxGravity)
}

// CentroidDirection is the unit vector from n's position toward the mean
// position of its neighbors, or the zero vector when n has no neighbors or
// sits exactly on their centroid.
func CentroidDirection(n *node.Node) vecmath.Vector3 {
	neighbors := n.Neighbors()
	if len(neighbors) == 0 {
		return vecmath.Vector3{}
	}
	positions := make([]vecmath.Vector3, len(neighbors))
	for i, nb := range neighbors {
		positions[i] = nb.Pos
	}
	centroid := vecmath.Mean(positions)
	return centroid.Sub(n.Pos).Unit()
}

// ApplyGravity advances n.Pos and n.Velocity toward its neighborhood
// centroid for one tick of duration dt. Anchored nodes never move.
func ApplyGravity(n *node.Node, dt time.Duration) {
	if n.IsAnchor {
		return
	}
	n.Gravity = ComputeGravity(n)

	direction := CentroidDirection(n)
	if direction == (vecmath.Vector3{}) {
		return
	}

	dtSeconds := dt.Seconds()
	delta := direction.Scale(n.Gravity * dtSeconds)
	n.Pos = n.Pos.Add(delta)
	if dtSeconds > 0 {
		n.Velocity = delta.Scale(1 / dtSeconds)
	}
}
