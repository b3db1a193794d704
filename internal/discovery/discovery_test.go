package discovery

import (
	"testing"
	"time"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/scoring"
)

func newDiscoveryNode(id int, kind node.Kind, threshold float64, maxDegree int) *node.Node {
	return &node.Node{
		ID:                  id,
		Kind:                kind,
		Payload:             payload.Text("shared"),
		ConnectionThreshold: threshold,
		MaxDegree:           maxDegree,
		InfluenceRadius:     8.0,
	}
}

func TestRunAdmitsReciprocally(t *testing.T) {
	self := newDiscoveryNode(1, node.KindBlock, 0.1, 6)
	cand := newDiscoveryNode(2, node.KindBlock, 0.1, 6)
	// The connected event tags self's last history entry, so self needs one.
	node.RecordIfChanged(self, time.Unix(0, 0))

	Run(self, []*node.Node{cand}, scoring.DefaultDistanceWeight)

	if !self.HasNeighbor(cand) || !cand.HasNeighbor(self) {
		t.Fatal("expected reciprocal admission")
	}
	if len(self.History) == 0 || self.History[len(self.History)-1].Event != "connected" {
		t.Fatal("expected a connected event recorded on self")
	}
}

func TestRunSkipsSelfAndExistingNeighbor(t *testing.T) {
	self := newDiscoveryNode(1, node.KindBlock, 0.1, 6)
	cand := newDiscoveryNode(2, node.KindBlock, 0.1, 6)
	self.Add(cand, 0.9)

	Run(self, []*node.Node{self, cand}, scoring.DefaultDistanceWeight)

	if self.Degree() != 1 {
		t.Fatalf("degree = %d, want 1 (no duplicate, no self-link)", self.Degree())
	}
}

func TestRunIncrementsAttemptsWhenSelfSaturatedAndNotPermissive(t *testing.T) {
	self := newDiscoveryNode(1, node.KindPoint, 0.1, 1)
	filler := newDiscoveryNode(2, node.KindPoint, 0.1, 1)
	self.Add(filler, 0.9)

	cand := newDiscoveryNode(3, node.KindPoint, 0.1, 1)
	Run(self, []*node.Node{cand}, scoring.DefaultDistanceWeight)

	if self.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1", self.Attempts)
	}
	if self.HasNeighbor(cand) {
		t.Fatal("saturated non-permissive node must not admit")
	}
}

func TestRunEvictsWeakestWhenPermissive(t *testing.T) {
	self := newDiscoveryNode(1, node.KindPoint, 0.1, 1)
	weak := newDiscoveryNode(2, node.KindPoint, 0.1, 1)
	weak.Payload = payload.Text("totally different payload xyz")
	self.Add(weak, 0.01)
	weak.Add(self, 0.01)
	self.PermissiveMode = true

	strong := newDiscoveryNode(3, node.KindPoint, 0.1, 1)
	Run(self, []*node.Node{strong}, scoring.DefaultDistanceWeight)

	if !self.HasNeighbor(strong) {
		t.Fatal("expected strong candidate admitted via eviction")
	}
	if self.HasNeighbor(weak) {
		t.Fatal("expected weak neighbor evicted from self's side")
	}
	if weak.HasNeighbor(self) {
		t.Fatal("expected weak neighbor's own link to self removed too (reciprocal eviction)")
	}
}

func TestRunRollsBackWhenCandidateSaturatedAndNotPermissive(t *testing.T) {
	self := newDiscoveryNode(1, node.KindPoint, 0.0, 1)
	weakOnSelf := newDiscoveryNode(2, node.KindPoint, 0.0, 1)
	self.Add(weakOnSelf, 0.01)
	weakOnSelf.Add(self, 0.01)
	self.PermissiveMode = true

	cand := newDiscoveryNode(3, node.KindPoint, 0.0, 1)
	candFiller := newDiscoveryNode(4, node.KindPoint, 0.0, 1)
	cand.Add(candFiller, 0.5)
	candFiller.Add(cand, 0.5)

	Run(self, []*node.Node{cand}, scoring.DefaultDistanceWeight)

	if !self.HasNeighbor(weakOnSelf) {
		t.Fatal("eviction should have rolled back when the candidate is saturated and non-permissive")
	}
	if !weakOnSelf.HasNeighbor(self) {
		t.Fatal("rollback should have restored the reciprocal link too")
	}
	if self.HasNeighbor(cand) {
		t.Fatal("candidate should not have been admitted")
	}
	if cand.Attempts != 1 {
		t.Fatalf("candidate Attempts = %d, want 1", cand.Attempts)
	}
}
