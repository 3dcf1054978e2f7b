// Package density turns the number of nearby active players into how many, and which,
// points of interest a player is shown.
package density

import "fmt"

// Tier is a coarse classification of how many other players are active nearby
type Tier int

const (
	Solitary Tier = iota
	Low
	Medium
	High
)

// Tiers lists every tier in rank order
var Tiers = []Tier{Solitary, Low, Medium, High}

// Upper peer-count bounds (inclusive) for each tier below High
const (
	solitaryMaxPeers = 0
	lowMaxPeers      = 5
	mediumMaxPeers   = 20
)

type tierInfo struct {
	name  string
	label string
	lo    int
	hi    int
}

var tierTable = [...]tierInfo{
	Solitary: {name: "solitary", label: "Solitary explorer", lo: 1, hi: 1},
	Low:      {name: "low", label: "A few survivors nearby", lo: 2, hi: 3},
	Medium:   {name: "medium", label: "Busy area", lo: 4, hi: 6},
	High:     {name: "high", label: "Crowded zone", lo: 7, hi: 10},
}

// Classify buckets a peer count into a tier. Negative counts are treated as zero.
func Classify(peerCount int) Tier {
	switch {
	case peerCount <= solitaryMaxPeers:
		return Solitary
	case peerCount <= lowMaxPeers:
		return Low
	case peerCount <= mediumMaxPeers:
		return Medium
	default:
		return High
	}
}

func (t Tier) info() tierInfo {
	if t < Solitary || t > High {
		return tierTable[Solitary]
	}
	return tierTable[t]
}

// Range returns the inclusive number of POIs to display for the tier
func (t Tier) Range() (lo, hi int) {
	i := t.info()
	return i.lo, i.hi
}

// RecommendedCount returns the floor of the midpoint of the tier's range
func (t Tier) RecommendedCount() int {
	lo, hi := t.Range()
	return (lo + hi) / 2
}

// Label returns a human-readable description of the tier
func (t Tier) Label() string { return t.info().label }

func (t Tier) String() string { return t.info().name }

// MarshalText encodes the tier as its name
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name
func (t *Tier) UnmarshalText(b []byte) error {
	for _, tier := range Tiers {
		if tier.String() == string(b) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown density tier %q", b)
}
