package node

import "sort"

// Add admits other into n's neighbor set at the given score. It rejects
// self-links, duplicates, and (when n is saturated) increments Attempts and
// returns false rather than admitting. On success it resets Attempts and
// clears PermissiveMode per invariant 5.
func (n *Node) Add(other *Node, score float64) bool {
	if other == n || n.HasNeighbor(other) {
		return false
	}
	if !n.CanAccept() {
		n.IncrementAttempts()
		return false
	}
	n.neighbors = append(n.neighbors, other)
	n.insertByScore(other, score)
	n.Attempts = 0
	n.PermissiveMode = false
	return true
}

// Remove drops other from both the neighbor list and the score index. It is
// idempotent — removing an absent neighbor is a no-op.
func (n *Node) Remove(other *Node) {
	for i, nb := range n.neighbors {
		if nb == other {
			n.neighbors = append(n.neighbors[:i:i], n.neighbors[i+1:]...)
			break
		}
	}
	for i, sn := range n.neighborsByScore {
		if sn.Node == other {
			n.neighborsByScore = append(n.neighborsByScore[:i:i], n.neighborsByScore[i+1:]...)
			break
		}
	}
}

// Weakest returns the lowest-scored neighbor, or ok=false when n has none.
func (n *Node) Weakest() (other *Node, score float64, ok bool) {
	if len(n.neighborsByScore) == 0 {
		return nil, 0, false
	}
	w := n.neighborsByScore[0]
	return w.Node, w.Score, true
}

// EvictWeakest removes the weakest neighbor to make room for a strictly
// stronger incoming candidate. Valid only while PermissiveMode is set; a
// weaker-or-equal incoming score or an empty neighbor set yields ok=false
// with no mutation. The link is dropped on both sides, so the evicted node's
// own neighbor list no longer lists n either.
func (n *Node) EvictWeakest(incomingScore float64) (evicted *Node, evictedScore float64, ok bool) {
	if !n.PermissiveMode {
		return nil, 0, false
	}
	other, score, found := n.Weakest()
	if !found || !(incomingScore > score) {
		return nil, 0, false
	}
	n.Remove(other)
	other.Remove(n)
	return other, score, true
}

// Restore re-admits other at the given score without touching Attempts or
// PermissiveMode — used to undo an EvictWeakest during discovery rollback.
// It re-links both sides, mirroring the reciprocal removal EvictWeakest did.
func (n *Node) Restore(other *Node, score float64) {
	n.neighbors = append(n.neighbors, other)
	n.insertByScore(other, score)
	other.neighbors = append(other.neighbors, n)
	other.insertByScore(n, score)
}

// insertByScore inserts other into the ascending score index, preserving
// invariant 4 (neighborsByScore is sorted and a permutation of neighbors).
func (n *Node) insertByScore(other *Node, score float64) {
	idx := sort.Search(len(n.neighborsByScore), func(i int) bool {
		return n.neighborsByScore[i].Score >= score
	})
	n.neighborsByScore = append(n.neighborsByScore, ScoredNeighbor{})
	copy(n.neighborsByScore[idx+1:], n.neighborsByScore[idx:])
	n.neighborsByScore[idx] = ScoredNeighbor{Node: other, Score: score}
}
