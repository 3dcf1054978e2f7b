package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/repository"
)

// PresenceService tracks where active players are
type PresenceService struct {
	repo         *repository.PresenceRepository
	activeWindow time.Duration
	now          func() time.Time
}

// NewPresenceService creates a new presence service
func NewPresenceService(repo *repository.PresenceRepository, activeWindow time.Duration) *PresenceService {
	return &PresenceService{repo: repo, activeWindow: activeWindow, now: time.Now}
}

// Report records the caller's current location
func (s *PresenceService) Report(ctx context.Context, userID string, c models.Coordinate) (*models.Presence, error) {
	if !c.Valid() {
		return nil, ErrInvalidCoordinate
	}
	p, err := s.repo.Upsert(ctx, userID, c, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to report presence: %w", err)
	}
	return p, nil
}

// CountNearby counts other players active within radiusMeters of c
func (s *PresenceService) CountNearby(ctx context.Context, userID string, c models.Coordinate, radiusMeters float64) (int, error) {
	n, err := s.repo.CountNearby(ctx, userID, c, radiusMeters, s.now().Add(-s.activeWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to count nearby players: %w", err)
	}
	return n, nil
}

// Prune deletes presence older than the active window
func (s *PresenceService) Prune(ctx context.Context) (int64, error) {
	return s.repo.DeleteStale(ctx, s.now().Add(-s.activeWindow))
}
