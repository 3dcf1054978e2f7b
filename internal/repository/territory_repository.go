package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"github.com/jengzang/survival-explorer-go/internal/models"
)

const territoryColumns = `id, user_id, name, polygon_json, area, point_count, datum, created_at`

// TerritoryRepository handles database operations for territories
type TerritoryRepository struct {
	db *sqlx.DB
}

// NewTerritoryRepository creates a new territory repository
func NewTerritoryRepository(db *sqlx.DB) *TerritoryRepository {
	return &TerritoryRepository{db: db}
}

// Create persists a territory. The polygon is stored as a JSON array of coordinates.
func (r *TerritoryRepository) Create(ctx context.Context, t *models.Territory) error {
	polygon, err := json.Marshal(t.Polygon)
	if err != nil {
		return fmt.Errorf("failed to encode polygon: %w", err)
	}
	t.PolygonJSON = string(polygon)

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO territories (`+territoryColumns+`)
		VALUES (:id, :user_id, :name, :polygon_json, :area, :point_count, :datum, :created_at)`, t)
	if err != nil {
		return fmt.Errorf("failed to insert territory: %w", err)
	}
	return nil
}

// GetByID retrieves a single territory
func (r *TerritoryRepository) GetByID(ctx context.Context, id string) (*models.Territory, error) {
	var t models.Territory
	err := r.db.GetContext(ctx, &t, `SELECT `+territoryColumns+` FROM territories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get territory: %w", err)
	}
	if err := decodePolygon(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List retrieves territories with filtering and pagination.
// Returns the page, the total number of matches and their summed area.
func (r *TerritoryRepository) List(ctx context.Context, filter models.TerritoryFilter) ([]models.Territory, int64, float64, error) {
	where := " WHERE user_id = ? AND area >= ?"
	args := []interface{}{filter.UserID, filter.MinArea}

	var summary struct {
		Total int64   `db:"total"`
		Area  float64 `db:"area"`
	}
	err := r.db.GetContext(ctx, &summary,
		`SELECT COUNT(*) AS total, COALESCE(SUM(area), 0) AS area FROM territories`+where, args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count territories: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := `SELECT ` + territoryColumns + ` FROM territories` + where +
		` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, offset)

	territories := []models.Territory{}
	if err := r.db.SelectContext(ctx, &territories, query, args...); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to query territories: %w", err)
	}
	for i := range territories {
		if err := decodePolygon(&territories[i]); err != nil {
			return nil, 0, 0, err
		}
	}

	return territories, summary.Total, summary.Area, nil
}

// Areas returns the area of every territory owned by userID
func (r *TerritoryRepository) Areas(ctx context.Context, userID string) ([]float64, error) {
	areas := []float64{}
	if err := r.db.SelectContext(ctx, &areas, `SELECT area FROM territories WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("failed to query territory areas: %w", err)
	}
	return areas, nil
}

// Delete removes a territory owned by userID
func (r *TerritoryRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM territories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete territory: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodePolygon(t *models.Territory) error {
	if err := json.Unmarshal([]byte(t.PolygonJSON), &t.Polygon); err != nil {
		return fmt.Errorf("failed to decode polygon of territory %s: %w", t.ID, err)
	}
	return nil
}
