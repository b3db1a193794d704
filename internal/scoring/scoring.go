// Package scoring combines payload similarity and spatial proximity into the
// single admit/score decision Discovery drives its linkage attempts from.
package scoring

import (
	"math"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/vecmath"
)

// DefaultDistanceWeight is the weight score() applies to proximity versus
// payload similarity absent an explicit override.
const DefaultDistanceWeight = 0.4

// Score reports whether other should be admitted as a neighbor of self, and
// the [0,1] value the decision was made on.
func Score(self, other *node.Node, distanceWeight float64) (admit bool, value float64) {
	dataSim := payload.Similarity(self.Payload, other.Payload)
	dist := self.Pos.Distance(other.Pos)
	proximity := proximityFor(dist, self.InfluenceRadius, other.InfluenceRadius)

	value = vecmath.Clamp01((1-distanceWeight)*dataSim + distanceWeight*proximity)
	admit = value >= self.ConnectionThreshold
	return admit, value
}

func proximityFor(dist, selfRadius, otherRadius float64) float64 {
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		return 0
	}

	radius, radiusSet := combinedRadius(selfRadius, otherRadius)
	if !radiusSet {
		return 1 / (1 + dist)
	}
	return math.Max(0, 1-dist/(2*radius))
}

// combinedRadius implements the spec's radius selection: the mean of two
// finite radii, the single finite radius when only one is finite (each
// clamped to >= 1), or "unset" when neither is finite.
func combinedRadius(a, b float64) (radius float64, ok bool) {
	aFinite := !math.IsInf(a, 0) && !math.IsNaN(a)
	bFinite := !math.IsInf(b, 0) && !math.IsNaN(b)

	switch {
	case aFinite && bFinite:
		return math.Max(1, (a+b)/2), true
	case aFinite:
		return math.Max(1, a), true
	case bFinite:
		return math.Max(1, b), true
	default:
		return 0, false
	}
}
