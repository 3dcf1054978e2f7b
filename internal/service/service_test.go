package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/survival-explorer-go/internal/database"
	"github.com/jengzang/survival-explorer-go/internal/datum"
	"github.com/jengzang/survival-explorer-go/internal/density"
	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/observability"
	"github.com/jengzang/survival-explorer-go/internal/repository"
	"github.com/jengzang/survival-explorer-go/internal/spatial"
	"github.com/jengzang/survival-explorer-go/internal/territory"
)

var origin = models.NewCoordinate(39.9042, 116.4074)

type fixture struct {
	presence    *PresenceService
	exploration *ExplorationService
	pois        *POIService
	territories *TerritoryService
	poiRepo     *repository.POIRepository
	metrics     *observability.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	metrics, err := observability.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	poiRepo := repository.NewPOIRepository(db)
	presence := NewPresenceService(repository.NewPresenceRepository(db), 10*time.Minute)
	return &fixture{
		presence: presence,
		exploration: NewExplorationService(presence, poiRepo, density.NewSeededSelector(3), ExplorationOptions{
			NearbyRadiusMeters:  1000,
			CatalogRadiusMeters: 2000,
			Metrics:             metrics,
		}),
		pois:        NewPOIService(poiRepo),
		territories: NewTerritoryService(repository.NewTerritoryRepository(db), territory.NewBuilder(datum.GCJ02{}), 100, metrics),
		poiRepo:     poiRepo,
		metrics:     metrics,
	}
}

func at(distance, bearing float64) models.Coordinate {
	lat, lon := spatial.DestinationPoint(origin.Latitude, origin.Longitude, bearing, distance)
	return models.NewCoordinate(lat, lon)
}

func (f *fixture) seedSamplePOIs(t *testing.T) {
	t.Helper()
	sample := []struct {
		id       string
		distance float64
		status   models.POIStatus
	}{
		{"hospital", 150, models.POIStatusUndiscovered},
		{"supermarket", 320, models.POIStatusLooted},
		{"factory", 580, models.POIStatusUndiscovered},
		{"pharmacy", 420, models.POIStatusDiscovered},
		{"gas_station", 890, models.POIStatusUndiscovered},
		{"far_away", 5000, models.POIStatusUndiscovered},
	}
	var pois []models.PointOfInterest
	for i, s := range sample {
		c := at(s.distance, float64(i*60))
		pois = append(pois, models.PointOfInterest{
			ID: s.id, Name: s.id, Type: s.id,
			Latitude: c.Latitude, Longitude: c.Longitude,
			Status: s.status, HasResources: true,
		})
	}
	require.NoError(t, f.poiRepo.Upsert(context.Background(), pois))
}

func poiIDs(pois []models.RankedPOI) []string {
	out := make([]string, len(pois))
	for i, p := range pois {
		out[i] = p.ID
	}
	return out
}

func TestExploreSolitary(t *testing.T) {
	f := newFixture(t)
	f.seedSamplePOIs(t)

	res, err := f.exploration.Explore(context.Background(), "me", origin)
	require.NoError(t, err)

	assert.Equal(t, 0, res.PeerCount)
	assert.Equal(t, density.Solitary, res.Tier)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, []string{"hospital"}, poiIDs(res.POIs))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DensityTiers.WithLabelValues("solitary")))
}

func TestExploreMediumTierCountsPeers(t *testing.T) {
	f := newFixture(t)
	f.seedSamplePOIs(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := f.presence.Report(ctx, fmt.Sprintf("peer-%d", i), at(100+float64(i)*100, float64(i*45)))
		require.NoError(t, err)
	}
	// out of range and the caller's own earlier report do not count
	_, err := f.presence.Report(ctx, "distant", at(4000, 0))
	require.NoError(t, err)
	_, err = f.presence.Report(ctx, "me", at(50, 0))
	require.NoError(t, err)

	res, err := f.exploration.Explore(ctx, "me", origin)
	require.NoError(t, err)

	assert.Equal(t, 6, res.PeerCount)
	assert.Equal(t, density.Medium, res.Tier)
	assert.GreaterOrEqual(t, res.Count, 4)
	assert.LessOrEqual(t, res.Count, 6)
	// four eligible POIs within the catalog radius, looted and far ones excluded
	assert.Equal(t, []string{"hospital", "pharmacy", "factory", "gas_station"}, poiIDs(res.POIs))
}

func TestExploreRejectsInvalidCoordinate(t *testing.T) {
	f := newFixture(t)
	_, err := f.exploration.Explore(context.Background(), "me", models.NewCoordinate(95, 0))
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestPOIDiscoverAndLoot(t *testing.T) {
	f := newFixture(t)
	f.seedSamplePOIs(t)
	ctx := context.Background()

	p, err := f.pois.Discover(ctx, "hospital")
	require.NoError(t, err)
	assert.Equal(t, models.POIStatusDiscovered, p.Status)

	// discovering again is a no-op
	p, err = f.pois.Discover(ctx, "hospital")
	require.NoError(t, err)
	assert.Equal(t, models.POIStatusDiscovered, p.Status)

	p, err = f.pois.Loot(ctx, "hospital")
	require.NoError(t, err)
	assert.Equal(t, models.POIStatusLooted, p.Status)

	_, err = f.pois.Loot(ctx, "hospital")
	assert.ErrorIs(t, err, ErrAlreadyLooted)

	// undiscovered POIs can be looted directly
	p, err = f.pois.Loot(ctx, "factory")
	require.NoError(t, err)
	assert.Equal(t, models.POIStatusLooted, p.Status)

	_, err = f.pois.Loot(ctx, "nope")
	assert.ErrorIs(t, err, ErrPOINotFound)
	_, err = f.pois.Discover(ctx, "nope")
	assert.ErrorIs(t, err, ErrPOINotFound)

	// looted POIs drop out of exploration
	res, err := f.exploration.Explore(ctx, "me", origin)
	require.NoError(t, err)
	assert.Equal(t, []string{"pharmacy"}, poiIDs(res.POIs))
}

func TestPOIListRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.pois.List(context.Background(), models.POIFilter{Status: "burning"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func walk() []models.Coordinate {
	return []models.Coordinate{origin, at(200, 90), at(283, 45), at(200, 0)}
}

func TestTerritoryClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr, err := f.territories.Claim(ctx, "me", "camp", walk())
	require.NoError(t, err)

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, models.DatumGCJ02, tr.Datum)
	assert.Equal(t, 4, tr.PointCount)
	assert.Len(t, tr.Polygon, 5)
	assert.Equal(t, tr.Polygon[0], tr.Polygon[4])
	assert.InDelta(t, 40000, tr.Area, 800)

	got, err := f.territories.Get(ctx, "me", tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Polygon, got.Polygon)

	// other players cannot see it
	_, err = f.territories.Get(ctx, "someone-else", tr.ID)
	assert.ErrorIs(t, err, ErrTerritoryNotFound)

	list, err := f.territories.List(ctx, models.TerritoryFilter{UserID: "me"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, 1, list.TotalPages)
	assert.Equal(t, tr.Area, list.TotalArea)

	summary, err := f.territories.Stats(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, tr.Area, summary.Median)

	require.NoError(t, f.territories.Delete(ctx, "me", tr.ID))
	assert.ErrorIs(t, f.territories.Delete(ctx, "me", tr.ID), ErrTerritoryNotFound)
}

func TestTerritoryClaimRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.territories.Claim(ctx, "me", "", walk()[:2])
	assert.ErrorIs(t, err, territory.ErrInsufficientPoints)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TerritoryRejections.WithLabelValues("insufficient_points")))

	bad := append(walk(), models.NewCoordinate(0, 200))
	_, err = f.territories.Claim(ctx, "me", "", bad)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	long := make([]models.Coordinate, 101)
	for i := range long {
		long[i] = at(float64(i), 90)
	}
	_, err = f.territories.Claim(ctx, "me", "", long)
	assert.ErrorIs(t, err, ErrPathTooLong)
}

func TestTerritoryClaimNMEA(t *testing.T) {
	f := newFixture(t)
	log := strings.Join([]string{
		"$GPGGA,123519,3954.252,N,11624.444,E,1,08,0.9,45.4,M,-8.0,M,,*64",
		"$GPGGA,123529,3954.252,N,11624.544,E,1,08,0.9,45.4,M,-8.0,M,,*66",
		"$GPGGA,123559,3954.352,N,11624.544,E,1,08,0.9,45.4,M,-8.0,M,,*60",
	}, "\n")

	tr, err := f.territories.ClaimNMEA(context.Background(), "me", "nmea", strings.NewReader(log))
	require.NoError(t, err)
	assert.Equal(t, 3, tr.PointCount)
	assert.Greater(t, tr.Area, 0.0)
}

func TestTerritoryExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.territories.Claim(ctx, "me", "camp", walk())
	require.NoError(t, err)

	b, contentType, err := f.territories.Export(ctx, "me", tr.ID, "geojson")
	require.NoError(t, err)
	assert.Equal(t, "application/geo+json", contentType)
	assert.Contains(t, string(b), `"Polygon"`)

	b, contentType, err = f.territories.Export(ctx, "me", tr.ID, "kml")
	require.NoError(t, err)
	assert.Contains(t, contentType, "kml")
	assert.Contains(t, string(b), "<LinearRing>")

	_, _, err = f.territories.Export(ctx, "me", tr.ID, "shp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPresencePrune(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.presence.Report(ctx, "old", origin)
	require.NoError(t, err)
	f.presence.now = func() time.Time { return time.Now().Add(time.Hour) }

	n, err := f.presence.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
