package density

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/spatial"
)

// Source yields uniformly distributed integers in [0, n)
type Source interface {
	IntN(n int) int
}

// PickRandomCount returns a uniformly random POI count within the tier's inclusive range
func PickRandomCount(t Tier, src Source) int {
	lo, hi := t.Range()
	return lo + src.IntN(hi-lo+1)
}

// SelectPOIs returns up to desiredCount non-looted candidates ordered by great-circle
// distance from origin. Ties keep their input order.
func SelectPOIs(origin models.Coordinate, candidates []models.PointOfInterest, desiredCount int) []models.RankedPOI {
	if desiredCount <= 0 || len(candidates) == 0 {
		return []models.RankedPOI{}
	}

	ranked := make([]models.RankedPOI, 0, len(candidates))
	for _, poi := range candidates {
		if poi.Status == models.POIStatusLooted {
			continue
		}
		ranked = append(ranked, models.RankedPOI{
			PointOfInterest: poi,
			DistanceMeters:  spatial.Distance(origin, poi.Coordinate()),
		})
	}

	slices.SortStableFunc(ranked, func(a, b models.RankedPOI) int {
		switch {
		case a.DistanceMeters < b.DistanceMeters:
			return -1
		case a.DistanceMeters > b.DistanceMeters:
			return 1
		}
		return 0
	})

	if len(ranked) > desiredCount {
		ranked = ranked[:desiredCount]
	}
	return ranked
}

// Plan is the outcome of sizing and selecting POIs for one player
type Plan struct {
	PeerCount int                `json:"peerCount"`
	Tier      Tier               `json:"tier"`
	Label     string             `json:"label"`
	Count     int                `json:"count"` // POIs the tier allows
	POIs      []models.RankedPOI `json:"pois"`
}

// Selector composes classification, random sizing and selection
type Selector struct {
	mu  sync.Mutex
	src Source
}

// NewSelector creates a selector drawing counts from src.
// A nil src uses a randomly seeded PCG generator.
func NewSelector(src Source) *Selector {
	if src == nil {
		src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{src: src}
}

// NewSeededSelector creates a selector with a deterministic source
func NewSeededSelector(seed uint64) *Selector {
	return NewSelector(rand.New(rand.NewPCG(seed, seed)))
}

// PickCount draws a random count for t
func (s *Selector) PickCount(t Tier) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PickRandomCount(t, s.src)
}

// Plan classifies peerCount, draws a count for the tier and selects the nearest eligible POIs
func (s *Selector) Plan(origin models.Coordinate, peerCount int, candidates []models.PointOfInterest) Plan {
	tier := Classify(peerCount)
	count := s.PickCount(tier)
	if peerCount < 0 {
		peerCount = 0
	}

	return Plan{
		PeerCount: peerCount,
		Tier:      tier,
		Label:     tier.Label(),
		Count:     count,
		POIs:      SelectPOIs(origin, candidates, count),
	}
}
