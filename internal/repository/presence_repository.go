package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/spatial"
)

// presenceGeohashPrecision is the precision stored per presence row (~5 m cells)
const presenceGeohashPrecision = 9

// PresenceRepository stores the last known location of each player
type PresenceRepository struct {
	db *sqlx.DB
}

// NewPresenceRepository creates a new presence repository
func NewPresenceRepository(db *sqlx.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// Upsert records the location of a player at time at
func (r *PresenceRepository) Upsert(ctx context.Context, userID string, c models.Coordinate, at time.Time) (*models.Presence, error) {
	p := models.Presence{
		UserID:    userID,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Geohash:   spatial.EncodeGeohash(c.Latitude, c.Longitude, presenceGeohashPrecision),
		UpdatedAt: at.Unix(),
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO presence (user_id, latitude, longitude, geohash, updated_at)
		VALUES (:user_id, :latitude, :longitude, :geohash, :updated_at)
		ON CONFLICT(user_id) DO UPDATE SET
			latitude = excluded.latitude, longitude = excluded.longitude,
			geohash = excluded.geohash, updated_at = excluded.updated_at`, p)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert presence: %w", err)
	}
	return &p, nil
}

// ListNearby returns players other than excludeUserID seen at or after since and within
// radiusMeters of center
func (r *PresenceRepository) ListNearby(ctx context.Context, excludeUserID string, center models.Coordinate, radiusMeters float64, since time.Time) ([]models.Presence, error) {
	cells := spatial.CoveringGeohashes(center.Latitude, center.Longitude, radiusMeters)
	prefixLen := len(cells[0])
	if prefixLen > presenceGeohashPrecision {
		// parent cells still cover the circle
		prefixLen = presenceGeohashPrecision
		for i, cell := range cells {
			cells[i] = cell[:prefixLen]
		}
	}

	query, args, err := sqlx.In(`
		SELECT user_id, latitude, longitude, geohash, updated_at
		FROM presence
		WHERE substr(geohash, 1, ?) IN (?) AND updated_at >= ? AND user_id <> ?`,
		prefixLen, cells, since.Unix(), excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to build presence query: %w", err)
	}

	var rows []models.Presence
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query presence: %w", err)
	}

	nearby := rows[:0]
	for _, p := range rows {
		if spatial.Distance(center, p.Coordinate()) <= radiusMeters {
			nearby = append(nearby, p)
		}
	}
	return nearby, nil
}

// CountNearby counts players other than excludeUserID active within radiusMeters of center
func (r *PresenceRepository) CountNearby(ctx context.Context, excludeUserID string, center models.Coordinate, radiusMeters float64, since time.Time) (int, error) {
	nearby, err := r.ListNearby(ctx, excludeUserID, center, radiusMeters, since)
	if err != nil {
		return 0, err
	}
	return len(nearby), nil
}

// DeleteStale removes presence rows last updated before cutoff
func (r *PresenceRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM presence WHERE updated_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale presence: %w", err)
	}
	return res.RowsAffected()
}
