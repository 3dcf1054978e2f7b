package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/observability"
	"github.com/jengzang/survival-explorer-go/internal/repository"
	"github.com/jengzang/survival-explorer-go/internal/stats"
	"github.com/jengzang/survival-explorer-go/internal/territory"
)

// TerritoryService builds and persists territory claims
type TerritoryService struct {
	repo          *repository.TerritoryRepository
	builder       *territory.Builder
	metrics       *observability.Metrics
	maxPathPoints int
	now           func() time.Time
	log           *slog.Logger
}

// NewTerritoryService creates a new territory service
func NewTerritoryService(repo *repository.TerritoryRepository, builder *territory.Builder, maxPathPoints int, metrics *observability.Metrics) *TerritoryService {
	return &TerritoryService{
		repo:          repo,
		builder:       builder,
		metrics:       metrics,
		maxPathPoints: maxPathPoints,
		now:           time.Now,
		log:           slog.With("component", "territory"),
	}
}

// Claim builds a territory from a recorded path and stores it for userID
func (s *TerritoryService) Claim(ctx context.Context, userID, name string, path []models.Coordinate) (*models.Territory, error) {
	if s.maxPathPoints > 0 && len(path) > s.maxPathPoints {
		s.metrics.ObserveTerritoryRejection("too_many_points")
		return nil, ErrPathTooLong
	}
	for _, c := range path {
		if !c.Valid() {
			s.metrics.ObserveTerritoryRejection("invalid_coordinate")
			return nil, ErrInvalidCoordinate
		}
	}

	poly, err := s.builder.Build(path)
	if err != nil {
		if errors.Is(err, territory.ErrInsufficientPoints) {
			s.metrics.ObserveTerritoryRejection("insufficient_points")
		}
		return nil, err
	}

	t := &models.Territory{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Polygon:    poly.RenderCoordinates,
		Area:       math.Round(poly.Area*100) / 100,
		PointCount: poly.PointCount,
		Datum:      s.builder.Datum(),
		CreatedAt:  s.now().Unix(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save territory: %w", err)
	}

	s.metrics.ObserveTerritory(t.Area)
	s.log.InfoContext(ctx, "territory claimed", "user", userID, "id", t.ID, "area", t.Area, "points", t.PointCount)
	return t, nil
}

// ClaimNMEA builds a territory from a recorded NMEA log
func (s *TerritoryService) ClaimNMEA(ctx context.Context, userID, name string, r io.Reader) (*models.Territory, error) {
	path, err := territory.ParseNMEA(r)
	if err != nil {
		return nil, err
	}
	return s.Claim(ctx, userID, name, path)
}

// Get retrieves a territory owned by userID
func (s *TerritoryService) Get(ctx context.Context, userID, id string) (*models.Territory, error) {
	t, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && t.UserID != userID) {
		return nil, ErrTerritoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List retrieves the territories of filter.UserID with pagination
func (s *TerritoryService) List(ctx context.Context, filter models.TerritoryFilter) (*models.TerritoriesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	items, total, area, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list territories: %w", err)
	}

	return &models.TerritoriesResponse{
		Data:       items,
		Total:      total,
		TotalArea:  area,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

// Stats summarizes the claimed areas of userID in square meters
func (s *TerritoryService) Stats(ctx context.Context, userID string) (*stats.Summary, error) {
	areas, err := s.repo.Areas(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := stats.Summarize(areas)
	return &summary, nil
}

// Delete removes a territory owned by userID
func (s *TerritoryService) Delete(ctx context.Context, userID, id string) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTerritoryNotFound
	}
	return err
}

// Export encodes a territory as geojson or kml. Returns the payload and its content type.
func (s *TerritoryService) Export(ctx context.Context, userID, id, format string) ([]byte, string, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "geojson":
		b, err := territory.ToGeoJSON(*t)
		return b, "application/geo+json", err
	case "kml":
		b, err := territory.ToKML(*t)
		return b, "application/vnd.google-earth.kml+xml", err
	}
	return nil, "", ErrUnsupportedFormat
}
