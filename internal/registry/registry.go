// Package registry owns the process-wide node collection: id/addr minting,
// creation with per-kind defaults and overrides, candidate enumeration for
// discovery, and the lookups the HTTP/WS adapter reads from. It is the one
// shared mutable structure in the engine — every exported method takes its
// lock, mirroring the teacher's Hub guarding its client map with a single
// mutex rather than per-client locks.
package registry

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/vecmath"
)

var (
	ErrInvalidKind    = errors.New("registry: invalid node kind")
	ErrInvalidVector  = errors.New("registry: vector override is not length-3 finite")
	ErrInvalidPayload = errors.New("registry: invalid payload")
	ErrUnknownNode    = errors.New("registry: unknown node id")
)

// Scheduler is the tick-loop host a Registry optionally binds to. Create
// spawns a node's tick task through it when bound; CancelAll stops every
// running task. A Registry with no bound Scheduler creates nodes inertly —
// useful for tests that drive ticks manually.
type Scheduler interface {
	Spawn(n *node.Node)
	CancelAll(ctx context.Context) error
}

// CreateOptions carries the optional per-call overrides §6 permits on top of
// a kind's defaults. A nil pointer field means "use the default"; Payload's
// zero value (nil interface) means "use payload.None()".
type CreateOptions struct {
	Payload             payload.Value
	Pos                 *vecmath.Vector3
	Velocity            *vecmath.Vector3
	ConnectionThreshold *float64
	InfluenceRadius     *float64
	Attempts            *int
	Gravity             *float64
	IsAnchor            *bool
	StabilityWindow     *int
	TickInterval        *time.Duration
}

// Registry is the process-wide node collection. The zero value is not
// usable; construct with New.
type Registry struct {
	mu        sync.RWMutex
	nextID    int
	nodes     []*node.Node
	byID      map[int]*node.Node
	paused    bool
	scheduler Scheduler

	// tickMu is the parallel-thread-model lock the concurrency design
	// permits as an alternative to single-threaded cooperative scheduling:
	// held by the scheduler for the full duration of one node's tick, so
	// discovery's cross-node neighbor mutation never races another node's
	// tick. It is distinct from mu, which only ever guards the node
	// sequence/map themselves.
	tickMu sync.Mutex
}

// LockTick acquires the registry-wide tick lock. The scheduler holds it for
// the entire duration of a node's tick (record_if_changed, discovery,
// apply_gravity), serializing all node mutation so the two-phase linkage
// invariants hold without per-node locks.
func (r *Registry) LockTick() {
	r.tickMu.Lock()
}

// UnlockTick releases the tick lock acquired by LockTick.
func (r *Registry) UnlockTick() {
	r.tickMu.Unlock()
}

// New returns an empty Registry with no bound scheduler.
func New() *Registry {
	return &Registry{
		nextID: 1,
		byID:   make(map[int]*node.Node),
	}
}

// BindScheduler attaches the Scheduler future creations spawn tick tasks
// through. It is not safe to call concurrently with Create.
func (r *Registry) BindScheduler(s Scheduler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduler = s
}

// Create allocates a node of kind, applies kind defaults then opts, mints
// its initial addr from the creation timestamp, appends it to the registry,
// emits its initial history snapshot, and — if a scheduler is bound —
// spawns its tick task.
func (r *Registry) Create(kind node.Kind, opts CreateOptions) (*node.Node, error) {
	if !node.ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	if opts.Pos != nil && !validVector(*opts.Pos) {
		return nil, ErrInvalidVector
	}
	if opts.Velocity != nil && !validVector(*opts.Velocity) {
		return nil, ErrInvalidVector
	}

	defaults := node.KindDefaults(kind)
	now := time.Now().UTC()

	n := &node.Node{
		Kind:                kind,
		Payload:             payload.None(),
		ConnectionThreshold: defaults.ConnectionThreshold,
		InfluenceRadius:     defaults.InfluenceRadius,
		MaxDegree:           defaults.MaxDegree,
		IsAnchor:            defaults.IsAnchor,
		StabilityWindow:     defaults.StabilityWindow,
		TickInterval:        defaults.TickInterval,
	}
	if opts.Payload != nil {
		n.Payload = opts.Payload
	}
	if opts.Pos != nil {
		n.Pos = *opts.Pos
	}
	if opts.Velocity != nil {
		n.Velocity = *opts.Velocity
	}
	if opts.ConnectionThreshold != nil {
		n.ConnectionThreshold = *opts.ConnectionThreshold
	}
	if opts.InfluenceRadius != nil {
		n.InfluenceRadius = *opts.InfluenceRadius
	}
	if opts.Attempts != nil {
		n.Attempts = *opts.Attempts
	}
	if opts.Gravity != nil {
		n.Gravity = vecmath.Clamp(*opts.Gravity, 0, 20)
	}
	if opts.IsAnchor != nil {
		n.IsAnchor = *opts.IsAnchor
	}
	if opts.StabilityWindow != nil {
		n.StabilityWindow = *opts.StabilityWindow
	}
	if opts.TickInterval != nil {
		n.TickInterval = *opts.TickInterval
	}

	r.mu.Lock()
	n.ID = r.nextID
	r.nextID++
	n.Addr = node.MintAddr(now.Format(time.RFC3339Nano))
	r.nodes = append(r.nodes, n)
	r.byID[n.ID] = n
	sched := r.scheduler
	r.mu.Unlock()

	node.RecordIfChanged(n, now)

	if sched != nil {
		sched.Spawn(n)
	}
	return n, nil
}

// Get returns the node with the given id.
func (r *Registry) Get(id int) (*node.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrUnknownNode
	}
	return n, nil
}

// List returns a snapshot of every node in insertion order.
func (r *Registry) List() []*node.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*node.Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// NodesByKind returns a snapshot of every node of the given kind, in
// insertion order (original_source feature, see SPEC_FULL §9).
func (r *Registry) NodesByKind(kind node.Kind) []*node.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*node.Node
	for _, n := range r.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Candidates returns a snapshot of the current node sequence at call time,
// in insertion order, for Discovery to iterate over.
func (r *Registry) Candidates() []*node.Node {
	return r.List()
}

// Count returns the number of nodes currently registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Pause marks the simulation paused; tickengine.Tick consults this to
// short-circuit without mutating any node (original_source feature, see
// SPEC_FULL §9).
func (r *Registry) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

// Resume clears a prior Pause.
func (r *Registry) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

// Paused reports whether the simulation is currently paused.
func (r *Registry) Paused() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paused
}

// CancelAll stops every tick task and awaits quiescence through the bound
// scheduler. It is a no-op when no scheduler is bound.
func (r *Registry) CancelAll(ctx context.Context) error {
	r.mu.RLock()
	sched := r.scheduler
	r.mu.RUnlock()
	if sched == nil {
		return nil
	}
	return sched.CancelAll(ctx)
}

func validVector(v vecmath.Vector3) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
