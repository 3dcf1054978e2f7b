// Package poigen procedurally scatters a POI catalog around a centre coordinate.
package poigen

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/spatial"
)

// Config holds catalog generation parameters
type Config struct {
	Center       models.Coordinate
	RadiusMeters float64 // catalog extent
	CellMeters   float64 // sampling grid spacing; at most one POI per cell
	Threshold    float64 // noise level (0-1) above which a cell holds a POI
	Seed         int64
}

// DefaultConfig returns a config producing a moderately dense catalog
func DefaultConfig(center models.Coordinate) Config {
	return Config{
		Center:       center,
		RadiusMeters: 2000,
		CellMeters:   150,
		Threshold:    0.55,
		Seed:         1,
	}
}

type poiKind struct {
	Type        string
	Name        string
	Description string
}

var kinds = []poiKind{
	{"hospital", "Abandoned Hospital", "Medical supplies may remain in the wards."},
	{"supermarket", "Looted Supermarket", "Shelves are mostly bare, check the stockroom."},
	{"factory", "Silent Factory", "Tools and scrap metal lie around the floor."},
	{"pharmacy", "Corner Pharmacy", "A small chance of medicine behind the counter."},
	{"gas_station", "Dry Gas Station", "The pumps are empty but the shop is intact."},
	{"school", "Empty School", "Classrooms could hold basic supplies."},
	{"police_station", "Police Station", "The armory door is still locked."},
}

// Generate produces POIs deterministically for cfg. Cells are sampled on a regular grid;
// one noise field decides whether a cell holds a POI, a second its type, and a third
// whether it still has resources. Each POI is jittered inside its cell.
func Generate(cfg Config) ([]models.PointOfInterest, error) {
	if cfg.RadiusMeters <= 0 || cfg.CellMeters <= 0 {
		return nil, fmt.Errorf("radius and cell size must be positive")
	}
	if !cfg.Center.Valid() {
		return nil, fmt.Errorf("invalid centre coordinate")
	}

	presence := opensimplex.NewNormalized(cfg.Seed)
	kindNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	resourceNoise := opensimplex.NewNormalized(cfg.Seed + 2)
	jitter := opensimplex.NewNormalized(cfg.Seed + 3)

	namespace := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("poigen:%d", cfg.Seed)))
	perLat := spatial.MetersPerDegreeLat
	perLon := spatial.MetersPerDegreeLon(cfg.Center.Latitude)

	steps := int(math.Ceil(cfg.RadiusMeters / cfg.CellMeters))
	var pois []models.PointOfInterest
	for gy := -steps; gy <= steps; gy++ {
		for gx := -steps; gx <= steps; gx++ {
			// noise coordinates in cell units, scaled to give clusters a few cells wide
			nx, ny := float64(gx)*0.35, float64(gy)*0.35
			if presence.Eval2(nx, ny) < cfg.Threshold {
				continue
			}

			jx := (jitter.Eval2(nx, ny) - 0.5) * cfg.CellMeters
			jy := (jitter.Eval2(ny+100, nx+100) - 0.5) * cfg.CellMeters
			east := float64(gx)*cfg.CellMeters + jx
			north := float64(gy)*cfg.CellMeters + jy
			if math.Hypot(east, north) > cfg.RadiusMeters {
				continue
			}

			k := kinds[int(kindNoise.Eval2(nx*2, ny*2)*float64(len(kinds)))%len(kinds)]
			pois = append(pois, models.PointOfInterest{
				ID:           uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%d:%d", gx, gy))).String(),
				Name:         k.Name,
				Type:         k.Type,
				Latitude:     cfg.Center.Latitude + north/perLat,
				Longitude:    cfg.Center.Longitude + east/perLon,
				Status:       models.POIStatusUndiscovered,
				HasResources: resourceNoise.Eval2(nx, ny) > 0.3,
				Description:  k.Description,
			})
		}
	}

	return pois, nil
}
