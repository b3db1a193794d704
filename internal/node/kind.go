package node

import "time"

// Kind discriminates the three node archetypes. It replaces the teacher
// domain's inheritance hierarchy (NeighborBase -> Block/Point/Sphere in the
// original Python) with a closed string enum plus a defaults lookup table —
// the same small-enum-over-interface shape the teacher itself reaches for
// when classifying a closed set of variants (see the Tx-shape classifiers in
// the adapted heuristics code this package's doc comments are modeled on).
type Kind string

const (
	KindBlock  Kind = "Block"
	KindPoint  Kind = "Point"
	KindSphere Kind = "Sphere"
)

// Unlimited marks a MaxDegree with no upper bound (only Sphere, by default).
const Unlimited = -1

// StabilityWindowDefault applies to every kind per the "All" row of the
// kind-defaults table.
const StabilityWindowDefault = 10

// Defaults holds the per-kind tunables a Node is created with absent
// explicit overrides.
type Defaults struct {
	MaxDegree           int
	ConnectionThreshold float64
	InfluenceRadius     float64
	IsAnchor            bool
	TickInterval        time.Duration
	StabilityWindow     int
}

// ValidKind reports whether k is one of the three known kinds.
func ValidKind(k Kind) bool {
	switch k {
	case KindBlock, KindPoint, KindSphere:
		return true
	default:
		return false
	}
}

// KindDefaults returns the authoritative per-kind defaults. Callers must
// validate k with ValidKind first; an unknown kind returns the zero value.
func KindDefaults(k Kind) Defaults {
	base := Defaults{StabilityWindow: StabilityWindowDefault}
	switch k {
	case KindBlock:
		base.MaxDegree = 6
		base.ConnectionThreshold = 0.4
		base.InfluenceRadius = 8.0
		base.IsAnchor = false
		base.TickInterval = 10 * time.Second
	case KindPoint:
		base.MaxDegree = 1
		base.ConnectionThreshold = 0.8
		base.InfluenceRadius = 3.0
		base.IsAnchor = false
		base.TickInterval = 2 * time.Second
	case KindSphere:
		base.MaxDegree = Unlimited
		base.ConnectionThreshold = 0.2
		base.InfluenceRadius = 15.0
		base.IsAnchor = true
		base.TickInterval = 30 * time.Second
	}
	return base
}
