package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/payload"
)

type fakeRegistry struct {
	nodes  []*node.Node
	paused bool
}

func (f *fakeRegistry) Candidates() []*node.Node { return f.nodes }
func (f *fakeRegistry) Paused() bool             { return f.paused }
func (f *fakeRegistry) LockTick()                {}
func (f *fakeRegistry) UnlockTick()              {}

func newSchedNode(id int) *node.Node {
	return &node.Node{
		ID:           id,
		Kind:         node.KindPoint,
		Payload:      payload.None(),
		MaxDegree:    1,
		TickInterval: 5 * time.Millisecond,
	}
}

func TestSpawnRunsTicksUntilCancelled(t *testing.T) {
	n := newSchedNode(1)
	reg := &fakeRegistry{nodes: []*node.Node{n}}
	sched := New(reg, time.Second)

	sched.Spawn(n)
	time.Sleep(30 * time.Millisecond)

	if err := sched.CancelAll(context.Background()); err != nil {
		t.Fatalf("CancelAll returned %v", err)
	}
	if len(n.History) == 0 {
		t.Fatal("expected at least one tick to have recorded history")
	}
}

func TestCancelAllSucceedsWithNoSpawns(t *testing.T) {
	reg := &fakeRegistry{}
	sched := New(reg, 50*time.Millisecond)
	if err := sched.CancelAll(context.Background()); err != nil {
		t.Fatalf("CancelAll with no spawned loops returned %v", err)
	}
}

func TestSafeTickRecoversPanicWithoutStoppingLoop(t *testing.T) {
	n := newSchedNode(1)
	n.TickInterval = 0
	reg := &fakeRegistry{nodes: []*node.Node{n}}
	sched := New(reg, time.Second)

	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
			}
		}()
		sched.safeTick(nil)
	}()

	if panicked {
		t.Fatal("safeTick must recover panics itself, not let them propagate")
	}
}
