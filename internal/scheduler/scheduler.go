// Package scheduler hosts one tick loop per live node, per the parallel-
// thread concurrency model the engine's design permits as an alternative to
// single-threaded cooperative scheduling: each node ticks on its own
// goroutine, and the registry's tick lock (held for a tick's full duration)
// stands in for the single thread's implicit serialization.
package scheduler

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/tickengine"
)

// Registry is the subset of *registry.Registry the scheduler drives ticks
// against.
type Registry interface {
	tickengine.CandidateSource
	LockTick()
	UnlockTick()
}

// Scheduler spawns and cancels per-node tick loops against a bound
// Registry. The zero value is not usable; construct with New.
type Scheduler struct {
	reg           Registry
	shutdownGrace time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New returns a Scheduler bound to reg. shutdownGrace bounds how long
// CancelAll waits for every tick loop to observe cancellation before giving
// up and reporting the leak.
func New(reg Registry, shutdownGrace time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	return &Scheduler{
		reg:           reg,
		shutdownGrace: shutdownGrace,
		ctx:           ctx,
		cancel:        cancel,
		group:         group,
	}
}

// Spawn starts n's tick loop: one tick immediately, then sleep
// n.TickInterval, then repeat, until the scheduler is cancelled.
// Cancellation is observed only at the sleep boundary — an in-flight tick
// always completes before the loop exits.
func (s *Scheduler) Spawn(n *node.Node) {
	s.group.Go(func() error {
		s.runLoop(n)
		return nil
	})
}

func (s *Scheduler) runLoop(n *node.Node) {
	for {
		s.safeTick(n)

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(n.TickInterval):
		}
	}
}

// safeTick runs one tick under the registry's tick lock, recovering from any
// panic as a TickFault: logged, the loop continues with the next tick, and
// no other node's tick loop is affected (errors.New/no propagation through
// the errgroup — a single node's fault must never cancel every other node).
func (s *Scheduler) safeTick(n *node.Node) {
	s.reg.LockTick()
	defer s.reg.UnlockTick()

	defer func() {
		if r := recover(); r != nil {
			id := -1
			if n != nil {
				id = n.ID
			}
			log.Printf("[scheduler] tick fault on node %d: %v", id, r)
		}
	}()

	tickengine.Tick(n, s.reg, time.Now().UTC())
}

// CancelAll stops every spawned tick loop and awaits quiescence, bounded by
// the scheduler's shutdown grace period. If the grace period elapses before
// every loop exits, it logs the leak and returns rather than blocking
// forever.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.cancel()

	done := make(chan error, 1)
	go func() { done <- s.group.Wait() }()

	grace := s.shutdownGrace
	if grace <= 0 {
		grace = 5 * time.Second
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		log.Printf("[scheduler] shutdown grace period elapsed with tick loops still running")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
