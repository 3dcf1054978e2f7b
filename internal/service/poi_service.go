package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/repository"
)

// POIService handles the POI catalog and gameplay status changes
type POIService struct {
	repo *repository.POIRepository
}

// NewPOIService creates a new POI service
func NewPOIService(repo *repository.POIRepository) *POIService {
	return &POIService{repo: repo}
}

// List retrieves POIs with filtering
func (s *POIService) List(ctx context.Context, filter models.POIFilter) ([]models.PointOfInterest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, filter.Status)
	}
	return s.repo.List(ctx, filter)
}

// Get retrieves a single POI
func (s *POIService) Get(ctx context.Context, id string) (*models.PointOfInterest, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPOINotFound
	}
	return p, err
}

// Discover marks an undiscovered POI as discovered. Already discovered or looted POIs
// are returned unchanged.
func (s *POIService) Discover(ctx context.Context, id string) (*models.PointOfInterest, error) {
	if _, err := s.transition(ctx, id, models.POIStatusUndiscovered, models.POIStatusDiscovered); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Loot marks a POI as looted
func (s *POIService) Loot(ctx context.Context, id string) (*models.PointOfInterest, error) {
	for _, from := range []models.POIStatus{models.POIStatusDiscovered, models.POIStatusUndiscovered} {
		ok, err := s.transition(ctx, id, from, models.POIStatusLooted)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.Get(ctx, id)
		}
	}
	return nil, ErrAlreadyLooted
}

func (s *POIService) transition(ctx context.Context, id string, from, to models.POIStatus) (bool, error) {
	ok, err := s.repo.UpdateStatus(ctx, id, from, to)
	if errors.Is(err, repository.ErrNotFound) {
		return false, ErrPOINotFound
	}
	return ok, err
}
