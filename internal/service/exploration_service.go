package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jengzang/survival-explorer-go/internal/density"
	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/observability"
	"github.com/jengzang/survival-explorer-go/internal/repository"
)

// ExploreResult is what a player sees around their current location
type ExploreResult struct {
	Origin              models.Coordinate `json:"origin"`
	NearbyRadiusMeters  float64           `json:"nearbyRadiusMeters"`
	CatalogRadiusMeters float64           `json:"catalogRadiusMeters"`
	density.Plan
}

// ExplorationService sizes and selects the POIs shown to a player
type ExplorationService struct {
	presence            *PresenceService
	pois                *repository.POIRepository
	selector            *density.Selector
	metrics             *observability.Metrics
	nearbyRadiusMeters  float64
	catalogRadiusMeters float64
	log                 *slog.Logger
}

// ExplorationOptions configures the exploration service
type ExplorationOptions struct {
	NearbyRadiusMeters  float64
	CatalogRadiusMeters float64
	Metrics             *observability.Metrics
}

// NewExplorationService creates a new exploration service
func NewExplorationService(presence *PresenceService, pois *repository.POIRepository, selector *density.Selector, opts ExplorationOptions) *ExplorationService {
	return &ExplorationService{
		presence:            presence,
		pois:                pois,
		selector:            selector,
		metrics:             opts.Metrics,
		nearbyRadiusMeters:  opts.NearbyRadiusMeters,
		catalogRadiusMeters: opts.CatalogRadiusMeters,
		log:                 slog.With("component", "exploration"),
	}
}

// Explore records the caller's presence, counts active peers around them and selects the
// POIs their density tier allows
func (s *ExplorationService) Explore(ctx context.Context, userID string, origin models.Coordinate) (*ExploreResult, error) {
	if _, err := s.presence.Report(ctx, userID, origin); err != nil {
		return nil, err
	}

	peers, err := s.presence.CountNearby(ctx, userID, origin, s.nearbyRadiusMeters)
	if err != nil {
		return nil, err
	}

	candidates, err := s.pois.ListWithinRadius(ctx, origin, s.catalogRadiusMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to load poi candidates: %w", err)
	}

	plan := s.selector.Plan(origin, peers, candidates)
	s.metrics.ObserveExplore(plan.Tier.String(), len(plan.POIs))
	s.log.DebugContext(ctx, "explore",
		"user", userID, "peers", peers, "tier", plan.Tier.String(),
		"count", plan.Count, "candidates", len(candidates), "selected", len(plan.POIs))

	return &ExploreResult{
		Origin:              origin,
		NearbyRadiusMeters:  s.nearbyRadiusMeters,
		CatalogRadiusMeters: s.catalogRadiusMeters,
		Plan:                plan,
	}, nil
}
