// Package tickengine orchestrates the three steps a single node tick runs
// through: change detection, discovery, and gravity. The scheduler calls
// Tick once per wake-up; panic recovery for TickFault semantics lives in the
// caller (internal/scheduler), not here, so tests can call Tick directly and
// see any programming error surface immediately.
package tickengine

import (
	"time"

	"github.com/gravnet/engine/internal/discovery"
	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/physics"
	"github.com/gravnet/engine/internal/scoring"
)

// CandidateSource supplies the registry-wide candidate list Discovery
// iterates over, and reports whether the simulation is currently paused.
type CandidateSource interface {
	Candidates() []*node.Node
	Paused() bool
}

// Tick runs one tick of self against reg: record_if_changed, discovery,
// apply_gravity, per the node engine's per-tick pipeline. A paused registry
// short-circuits the whole tick without touching self (original_source
// feature, see SPEC_FULL §9).
func Tick(self *node.Node, reg CandidateSource, now time.Time) {
	if reg.Paused() {
		return
	}

	node.RecordIfChanged(self, now)
	discovery.Run(self, reg.Candidates(), scoring.DefaultDistanceWeight)
	physics.ApplyGravity(self, self.TickInterval)
}
