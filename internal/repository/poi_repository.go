package repository

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jengzang/survival-explorer-go/internal/database"
	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/spatial"
)

const poiColumns = `id, name, type, latitude, longitude, status, has_resources, description, created_at, updated_at`

// POIRepository handles database operations for the POI catalog
type POIRepository struct {
	db *sqlx.DB
}

// NewPOIRepository creates a new POI repository
func NewPOIRepository(db *sqlx.DB) *POIRepository {
	return &POIRepository{db: db}
}

// Upsert inserts or replaces POIs in a single transaction. The status of an existing
// POI is gameplay state and is left untouched.
func (r *POIRepository) Upsert(ctx context.Context, pois []models.PointOfInterest) error {
	now := time.Now().Unix()
	query := `INSERT INTO pois (` + poiColumns + `)
		VALUES (:id, :name, :type, :latitude, :longitude, :status, :has_resources, :description, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, type = excluded.type,
			latitude = excluded.latitude, longitude = excluded.longitude,
			has_resources = excluded.has_resources,
			description = excluded.description, updated_at = excluded.updated_at`

	return database.Transaction(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, p := range pois {
			if p.Status == "" {
				p.Status = models.POIStatusUndiscovered
			}
			if p.CreatedAt == 0 {
				p.CreatedAt = now
			}
			p.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
				return fmt.Errorf("failed to upsert poi %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a single POI
func (r *POIRepository) GetByID(ctx context.Context, id string) (*models.PointOfInterest, error) {
	var p models.PointOfInterest
	err := r.db.GetContext(ctx, &p, `SELECT `+poiColumns+` FROM pois WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poi: %w", err)
	}
	return &p, nil
}

// List retrieves POIs with filtering
func (r *POIRepository) List(ctx context.Context, filter models.POIFilter) ([]models.PointOfInterest, error) {
	query := `SELECT ` + poiColumns + ` FROM pois`

	var conditions []string
	var args []interface{}

	if filter.MinLat != 0 || filter.MaxLat != 0 || filter.MinLon != 0 || filter.MaxLon != 0 {
		conditions = append(conditions, "latitude BETWEEN ? AND ?", "longitude BETWEEN ? AND ?")
		args = append(args, filter.MinLat, filter.MaxLat, filter.MinLon, filter.MaxLon)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	limit := filter.Limit
	if limit <= 0 || limit > 10000 {
		limit = 10000
	}
	query += " LIMIT ?"
	args = append(args, limit)

	pois := []models.PointOfInterest{}
	if err := r.db.SelectContext(ctx, &pois, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query pois: %w", err)
	}
	return pois, nil
}

// ListWithinRadius retrieves every POI within radiusMeters of center, nearest first.
// The bounding-box prefilter wraps at the antimeridian and widens to all longitudes
// when the box reaches a pole.
func (r *POIRepository) ListWithinRadius(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]models.PointOfInterest, error) {
	dLat := radiusMeters / spatial.MetersPerDegreeLat
	minLat := math.Max(center.Latitude-dLat, -90)
	maxLat := math.Min(center.Latitude+dLat, 90)

	dLon := 180.0
	if minLat > -90 && maxLat < 90 {
		// the box is widest in meters per degree at the edge furthest from the equator
		if perDeg := spatial.MetersPerDegreeLon(math.Max(math.Abs(minLat), math.Abs(maxLat))); perDeg > 0 {
			dLon = math.Min(radiusMeters/perDeg, 180)
		}
	}

	var lonConds []string
	args := []interface{}{minLat, maxLat}
	for _, rng := range longitudeRanges(center.Longitude, dLon) {
		lonConds = append(lonConds, "longitude BETWEEN ? AND ?")
		args = append(args, rng[0], rng[1])
	}

	query := `SELECT ` + poiColumns + ` FROM pois
		WHERE latitude BETWEEN ? AND ? AND (` + strings.Join(lonConds, " OR ") + `)
		ORDER BY id`

	candidates := []models.PointOfInterest{}
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query pois: %w", err)
	}

	type ranked struct {
		poi      models.PointOfInterest
		distance float64
	}
	within := make([]ranked, 0, len(candidates))
	for _, p := range candidates {
		if d := spatial.Distance(center, p.Coordinate()); d <= radiusMeters {
			within = append(within, ranked{poi: p, distance: d})
		}
	}
	slices.SortStableFunc(within, func(a, b ranked) int {
		return cmp.Compare(a.distance, b.distance)
	})

	pois := make([]models.PointOfInterest, len(within))
	for i, w := range within {
		pois[i] = w.poi
	}
	return pois, nil
}

// longitudeRanges returns the [lo, hi] longitude intervals covering lon ± d,
// split in two where they cross ±180
func longitudeRanges(lon, d float64) [][2]float64 {
	if d >= 180 {
		return [][2]float64{{-180, 180}}
	}
	lo, hi := lon-d, lon+d
	switch {
	case lo < -180:
		return [][2]float64{{-180, hi}, {lo + 360, 180}}
	case hi > 180:
		return [][2]float64{{lo, 180}, {-180, hi - 360}}
	}
	return [][2]float64{{lo, hi}}
}

// UpdateStatus moves a POI from one status to another. It returns ErrNotFound when the
// POI does not exist and false when its current status is not from.
func (r *POIRepository) UpdateStatus(ctx context.Context, id string, from, to models.POIStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pois SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().Unix(), id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update poi status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update poi status: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Count returns the number of POIs in the catalog
func (r *POIRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pois`); err != nil {
		return 0, fmt.Errorf("failed to count pois: %w", err)
	}
	return n, nil
}
