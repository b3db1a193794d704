package registry_test

// End-to-end scenarios driving registry+discovery+physics together through
// tickengine.Tick, one manual tick per call rather than through a live
// scheduler, so each scenario's assertions land on a known tick boundary.

import (
	"context"
	"testing"
	"time"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/registry"
	"github.com/gravnet/engine/internal/tickengine"
	"github.com/gravnet/engine/internal/vecmath"
)

func tickAll(reg *registry.Registry, now time.Time) {
	for _, n := range reg.Candidates() {
		tickengine.Tick(n, reg, now)
	}
}

func mustCreate(t *testing.T, reg *registry.Registry, kind node.Kind, opts registry.CreateOptions) *node.Node {
	t.Helper()
	n, err := reg.Create(kind, opts)
	if err != nil {
		t.Fatalf("Create(%s): %v", kind, err)
	}
	return n
}

func vecPtr(x, y, z float64) *vecmath.Vector3 {
	v := vecmath.Vector3{X: x, Y: y, Z: z}
	return &v
}

func TestPointDegreeLimit(t *testing.T) {
	reg := registry.New()
	now := time.Now().UTC()

	point := mustCreate(t, reg, node.KindPoint, registry.CreateOptions{
		Pos:     vecPtr(0, 0, 0),
		Payload: payload.Text("a"),
	})
	b1 := mustCreate(t, reg, node.KindBlock, registry.CreateOptions{
		Pos:     vecPtr(0.1, 0, 0),
		Payload: payload.Text("a"),
	})
	b2 := mustCreate(t, reg, node.KindBlock, registry.CreateOptions{
		Pos:     vecPtr(0.2, 0, 0),
		Payload: payload.Text("a"),
	})

	tickAll(reg, now)
	tickAll(reg, now.Add(time.Second))

	if got := point.Degree(); got != 1 {
		t.Fatalf("point degree = %d, want 1", got)
	}

	switch {
	case point.HasNeighbor(b1), point.HasNeighbor(b2):
	default:
		t.Fatalf("point admitted neither block")
	}
	// The saturated side accrues attempts on a rejected suitor (§4.5 steps
	// 2 and 5 both increment the full node's counter), so it's the point,
	// not the turned-away block, whose attempts rise here.
	if point.Attempts < 1 {
		t.Fatalf("point attempts = %d, want >= 1 after rejecting the second block", point.Attempts)
	}
}

func TestSphereMagnet(t *testing.T) {
	reg := registry.New()
	now := time.Now().UTC()

	threshold := 0.2
	sphere := mustCreate(t, reg, node.KindSphere, registry.CreateOptions{
		Pos:                 vecPtr(0, 0, 0),
		ConnectionThreshold: &threshold,
	})

	corners := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{1, 1, 0}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
		{0.5, 0.5, 0.5}, {1, 1, 0.5},
	}
	blocks := make([]*node.Node, len(corners))
	for i, c := range corners {
		blocks[i] = mustCreate(t, reg, node.KindBlock, registry.CreateOptions{
			Pos:     vecPtr(c[0], c[1], c[2]),
			Payload: payload.Text("x"),
		})
	}

	tickAll(reg, now)

	if got := sphere.Degree(); got != len(corners) {
		t.Fatalf("sphere degree = %d, want %d", got, len(corners))
	}
	for i, b := range blocks {
		if !b.HasNeighbor(sphere) {
			t.Fatalf("block %d does not list sphere as a neighbor", i)
		}
	}
	if sphere.Pos != (vecmath.Vector3{}) {
		t.Fatalf("anchor sphere moved: %+v", sphere.Pos)
	}
}

func TestEvictionUnderPermissiveMode(t *testing.T) {
	reg := registry.New()
	now := time.Now().UTC()

	// The incumbent is anchored: once its attempts pass max_degree,
	// competition gives it gravity, and an unanchored incumbent would drift
	// toward its neighbors' centroid and away from the newcomer before
	// permissive mode trips.
	anchor := true
	incumbent := mustCreate(t, reg, node.KindBlock, registry.CreateOptions{
		Pos:      vecPtr(0, 0, 0),
		Payload:  payload.Text("weak"),
		IsAnchor: &anchor,
	})

	// Saturate incumbent with six neighbors sharing its payload (so they
	// clear its admission threshold) but far enough away that their score
	// is well below the near-identical newcomer's.
	farNeighbors := make([]*node.Node, 6)
	for i := 0; i < 6; i++ {
		farNeighbors[i] = mustCreate(t, reg, node.KindBlock, registry.CreateOptions{
			Pos:     vecPtr(5+float64(i), 5, 5),
			Payload: payload.Text("weak"),
		})
	}
	for i := 0; i < 3; i++ {
		tickAll(reg, now.Add(time.Duration(i)*time.Second))
	}
	if incumbent.Degree() != 6 {
		t.Fatalf("incumbent degree = %d, want 6 before newcomer arrives", incumbent.Degree())
	}

	newcomer := mustCreate(t, reg, node.KindBlock, registry.CreateOptions{
		Pos:     vecPtr(0.01, 0, 0),
		Payload: payload.Text("weak"),
	})

	preAttempts := incumbent.Attempts
	tickAll(reg, now.Add(10*time.Second))
	if incumbent.HasNeighbor(newcomer) {
		t.Fatalf("incumbent admitted newcomer before permissive mode tripped")
	}
	if incumbent.Attempts <= preAttempts {
		t.Fatalf("incumbent attempts did not increment: before=%d after=%d", preAttempts, incumbent.Attempts)
	}

	for round := 0; !incumbent.PermissiveMode; round++ {
		if round > 20 {
			t.Fatalf("permissive mode never tripped after %d rounds, attempts=%d", round, incumbent.Attempts)
		}
		preAttempts = incumbent.Attempts
		tickAll(reg, now.Add(time.Duration(round+11)*time.Second))
		if incumbent.Attempts == preAttempts {
			t.Fatalf("incumbent attempts stalled at %d without tripping permissive mode", preAttempts)
		}
	}

	tickAll(reg, now.Add(time.Hour))
	if !incumbent.HasNeighbor(newcomer) {
		t.Fatalf("incumbent did not admit newcomer after permissive mode tripped")
	}
	if !newcomer.HasNeighbor(incumbent) {
		t.Fatalf("newcomer does not list incumbent as a neighbor")
	}
	if incumbent.Degree() != 6 {
		t.Fatalf("incumbent degree = %d after eviction+admit, want 6", incumbent.Degree())
	}

	// Exactly one of the original six must have been evicted, and that
	// eviction must have dropped the link on its own side too — not just
	// incumbent's.
	evictedCount := 0
	for _, fn := range farNeighbors {
		if !incumbent.HasNeighbor(fn) {
			evictedCount++
			if fn.HasNeighbor(incumbent) {
				t.Fatalf("evicted neighbor %d still lists incumbent as a neighbor (one-sided eviction)", fn.ID)
			}
		}
	}
	if evictedCount != 1 {
		t.Fatalf("evicted neighbor count = %d, want 1", evictedCount)
	}
}

type stubScheduler struct {
	spawned   []*node.Node
	cancelled bool
}

func (s *stubScheduler) Spawn(n *node.Node) { s.spawned = append(s.spawned, n) }
func (s *stubScheduler) CancelAll(ctx context.Context) error {
	s.cancelled = true
	return nil
}

func TestCancelAllDelegatesToScheduler(t *testing.T) {
	reg := registry.New()

	sched := &stubScheduler{}
	reg.BindScheduler(sched)

	mustCreate(t, reg, node.KindBlock, registry.CreateOptions{Pos: vecPtr(0, 0, 0)})
	mustCreate(t, reg, node.KindPoint, registry.CreateOptions{Pos: vecPtr(1, 1, 1)})

	if len(sched.spawned) != 2 {
		t.Fatalf("spawned = %d, want 2", len(sched.spawned))
	}

	if err := reg.CancelAll(context.Background()); err != nil {
		t.Fatalf("CancelAll: %v", err)
	}
	if !sched.cancelled {
		t.Fatalf("CancelAll did not reach the bound scheduler")
	}
}
