package scoring

import (
	"math"
	"testing"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/vecmath"
)

func newScoringNode(id int, threshold, radius float64) *node.Node {
	return &node.Node{
		ID:                  id,
		Kind:                "Block",
		Payload:             payload.None(),
		ConnectionThreshold: threshold,
		InfluenceRadius:     radius,
		MaxDegree:           6,
	}
}

func TestScoreIdenticalPayloadAndPosition(t *testing.T) {
	self := newScoringNode(1, 0.4, 8.0)
	other := newScoringNode(2, 0.4, 8.0)
	self.Payload = payload.Text("hello")
	other.Payload = payload.Text("hello")

	admit, value := Score(self, other, DefaultDistanceWeight)
	if !admit {
		t.Fatal("identical payload and coincident positions should admit")
	}
	if math.Abs(value-1.0) > 1e-9 {
		t.Fatalf("value = %v, want 1.0", value)
	}
}

func TestScoreFarApartRejectedByHighThreshold(t *testing.T) {
	self := newScoringNode(1, 0.9, 8.0)
	other := newScoringNode(2, 0.9, 8.0)
	self.Pos = vecmath.Vector3{X: 0}
	other.Pos = vecmath.Vector3{X: 1000}

	admit, value := Score(self, other, DefaultDistanceWeight)
	if admit {
		t.Fatalf("far apart nodes should not clear a 0.9 threshold, got value %v", value)
	}
}

func TestProximityFallsBackToInverseDistanceWhenRadiusUnset(t *testing.T) {
	p := proximityFor(3.0, math.Inf(1), math.Inf(1))
	want := 1.0 / 4.0
	if math.Abs(p-want) > 1e-9 {
		t.Fatalf("proximity = %v, want %v", p, want)
	}
}

func TestProximityZeroOnNonFiniteDistance(t *testing.T) {
	if p := proximityFor(math.Inf(1), 8, 8); p != 0 {
		t.Fatalf("proximity = %v, want 0 for infinite distance", p)
	}
}

func TestCombinedRadiusUsesMeanOfTwoFinite(t *testing.T) {
	r, ok := combinedRadius(8, 4)
	if !ok || r != 6 {
		t.Fatalf("combinedRadius(8,4) = %v,%v, want 6,true", r, ok)
	}
}

func TestCombinedRadiusClampsToOne(t *testing.T) {
	r, ok := combinedRadius(0.2, math.Inf(1))
	if !ok || r != 1 {
		t.Fatalf("combinedRadius(0.2,inf) = %v,%v, want 1,true", r, ok)
	}
}
