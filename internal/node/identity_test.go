package node

import (
	"testing"

	"github.com/gravnet/engine/internal/payload"
)

func TestMintAddrDeterministic(t *testing.T) {
	a := MintAddr("2026-07-31T00:00:00Z")
	b := MintAddr("2026-07-31T00:00:00Z")
	if a != b {
		t.Fatal("MintAddr must be deterministic for identical birth timestamps")
	}
	c := MintAddr("2026-07-31T00:00:01Z")
	if a == c {
		t.Fatal("MintAddr must differ for differing birth timestamps")
	}
}

func TestUpdateAddrChangesWithPayload(t *testing.T) {
	n := newTestNode(1, KindBlock)
	UpdateAddr(n)
	first := n.Addr

	n.Payload = payload.Text("hello")
	UpdateAddr(n)
	if n.Addr == first {
		t.Fatal("addr must change when payload changes")
	}
}

func TestUpdateAddrOrderIndependentOfNeighborInsertion(t *testing.T) {
	a := newTestNode(1, KindSphere)
	a.MaxDegree = Unlimited
	// Same id as a: the id is part of the digest, so only admission order
	// differs between the two.
	b := newTestNode(1, KindSphere)
	b.MaxDegree = Unlimited

	n1, n2, n3 := newTestNode(10, KindPoint), newTestNode(20, KindPoint), newTestNode(30, KindPoint)
	UpdateAddr(n1)
	UpdateAddr(n2)
	UpdateAddr(n3)

	a.Add(n1, 0.1)
	a.Add(n2, 0.2)
	a.Add(n3, 0.3)
	UpdateAddr(a)

	b.Add(n3, 0.3)
	b.Add(n1, 0.1)
	b.Add(n2, 0.2)
	UpdateAddr(b)

	if a.Addr != b.Addr {
		t.Fatal("addr must be independent of neighbor admission order (sorted by id)")
	}
}
