// Package discovery runs the single-pass, two-phase reciprocal linkage
// negotiation a node performs against the Registry's candidate list each
// tick: score, provisionally evict to make room, then commit on both sides
// or roll every eviction back.
package discovery

import (
	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/scoring"
)

// Run evaluates self against each candidate in order, admitting or evicting
// neighbors per the scoring decision. It performs no retries within a pass —
// a candidate rejected this tick is simply revisited on Registry.Candidates'
// next call.
func Run(self *node.Node, candidates []*node.Node, distanceWeight float64) {
	for _, c := range candidates {
		attempt(self, c, distanceWeight)
	}
}

func attempt(self, c *node.Node, distanceWeight float64) {
	if c == self || self.HasNeighbor(c) {
		return
	}

	selfFull := !self.CanAccept()
	if selfFull && !self.PermissiveMode {
		self.IncrementAttempts()
		return
	}

	admit, score := scoring.Score(self, c, distanceWeight)
	if !admit {
		return
	}

	var evictedSelf *node.Node
	var evictedSelfScore float64
	if selfFull {
		var ok bool
		evictedSelf, evictedSelfScore, ok = self.EvictWeakest(score)
		if !ok {
			return
		}
	}

	candFull := !c.CanAccept()
	if candFull && !c.PermissiveMode {
		rollback(self, evictedSelf, evictedSelfScore)
		c.IncrementAttempts()
		return
	}

	var evictedCand *node.Node
	var evictedCandScore float64
	if candFull {
		var ok bool
		evictedCand, evictedCandScore, ok = c.EvictWeakest(score)
		if !ok {
			rollback(self, evictedSelf, evictedSelfScore)
			c.IncrementAttempts()
			return
		}
	}

	if !self.Add(c, score) {
		rollback(self, evictedSelf, evictedSelfScore)
		rollback(c, evictedCand, evictedCandScore)
		self.IncrementAttempts()
		return
	}

	if !c.Add(self, score) {
		self.Remove(c)
		rollback(self, evictedSelf, evictedSelfScore)
		rollback(c, evictedCand, evictedCandScore)
		c.IncrementAttempts()
		return
	}

	self.MarkConnectedEvent()
}

func rollback(owner, evicted *node.Node, score float64) {
	if evicted == nil {
		return
	}
	owner.Restore(evicted, score)
}
