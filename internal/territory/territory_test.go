package territory

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jengzang/survival-explorer-go/internal/datum"
	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns an open ~side x side meter square anchored at (lat, lon)
func square(lat, lon, side float64) []models.Coordinate {
	dLat := side / spatial.MetersPerDegreeLat
	dLon := side / spatial.MetersPerDegreeLon(lat)
	return []models.Coordinate{
		models.NewCoordinate(lat, lon),
		models.NewCoordinate(lat, lon+dLon),
		models.NewCoordinate(lat+dLat, lon+dLon),
		models.NewCoordinate(lat+dLat, lon),
	}
}

func TestBuildRejectsShortPaths(t *testing.T) {
	b := NewBuilder(nil)
	for _, path := range [][]models.Coordinate{
		nil,
		{models.NewCoordinate(1, 1)},
		{models.NewCoordinate(1, 1), models.NewCoordinate(1, 2)},
	} {
		poly, err := b.Build(path)
		assert.Nil(t, poly)
		assert.True(t, errors.Is(err, ErrInsufficientPoints))
	}
}

func TestBuildClosesOpenPath(t *testing.T) {
	path := square(39.9, 116.4, 100)
	poly, err := NewBuilder(nil).Build(path)
	require.NoError(t, err)

	assert.Len(t, poly.RenderCoordinates, len(path)+1)
	assert.Equal(t, poly.RenderCoordinates[0], poly.RenderCoordinates[len(poly.RenderCoordinates)-1])
	assert.Equal(t, 4, poly.PointCount)
	assert.InDelta(t, 10000, poly.Area, 50)
}

func TestBuildDoesNotDuplicateClosingPoint(t *testing.T) {
	path := square(39.9, 116.4, 100)
	closed := append(path, path[0])

	poly, err := NewBuilder(nil).Build(closed)
	require.NoError(t, err)
	assert.Len(t, poly.RenderCoordinates, len(closed))
	assert.Equal(t, 5, poly.PointCount)

	// within epsilon counts as closed too
	nearly := append(square(39.9, 116.4, 100), models.NewCoordinate(39.9+1e-7, 116.4))
	poly, err = NewBuilder(nil).Build(nearly)
	require.NoError(t, err)
	assert.Len(t, poly.RenderCoordinates, len(nearly))
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	path := square(39.9, 116.4, 100)
	before := append([]models.Coordinate(nil), path...)
	_, err := NewBuilder(datum.GCJ02{}).Build(path)
	require.NoError(t, err)
	assert.Equal(t, before, path)
}

func TestBuildCollinearYieldsZeroArea(t *testing.T) {
	line := []models.Coordinate{
		models.NewCoordinate(39.9, 116.40),
		models.NewCoordinate(39.9, 116.41),
		models.NewCoordinate(39.9, 116.42),
	}
	poly, err := NewBuilder(nil).Build(line)
	require.NoError(t, err)
	assert.InDelta(t, 0, poly.Area, 1e-6)
	assert.Equal(t, 3, poly.PointCount)
}

func TestBuildAcceptsSelfIntersectingPath(t *testing.T) {
	// bow-tie: the two lobes cancel in the shoelace sum, a known limitation
	bowtie := []models.Coordinate{
		models.NewCoordinate(0, 0),
		models.NewCoordinate(0.001, 0.001),
		models.NewCoordinate(0, 0.001),
		models.NewCoordinate(0.001, 0),
	}
	poly, err := NewBuilder(nil).Build(bowtie)
	require.NoError(t, err)
	assert.Len(t, poly.RenderCoordinates, 5)
	assert.InDelta(t, 0, poly.Area, 1e-3)
}

func TestBuildDatumCorrection(t *testing.T) {
	path := square(39.9042, 116.4074, 200)

	raw, err := NewBuilder(datum.Identity{}).Build(path)
	require.NoError(t, err)
	corrected, err := NewBuilder(datum.GCJ02{}).Build(path)
	require.NoError(t, err)

	// area comes from raw coordinates in both cases
	assert.Equal(t, raw.Area, corrected.Area)

	g := datum.GCJ02{}
	for i, c := range corrected.RenderCoordinates {
		assert.Equal(t, models.DatumGCJ02, c.Datum)
		assert.Equal(t, g.Forward(raw.RenderCoordinates[i]), c)
		assert.NotEqual(t, raw.RenderCoordinates[i].Longitude, c.Longitude)
	}
}

func TestBuildLargePathUsesSphericalArea(t *testing.T) {
	path := square(30, 110, 50000)

	b := NewBuilder(nil)
	poly, err := b.Build(path)
	require.NoError(t, err)

	ring := append(append([]models.Coordinate(nil), path...), path[0])
	assert.Equal(t, spatial.SphericalArea(ring), poly.Area)
	assert.InEpsilon(t, 2.5e9, poly.Area, 0.02)

	poly, err = NewBuilder(nil, WithSphericalThreshold(1e7)).Build(path)
	require.NoError(t, err)
	assert.Equal(t, spatial.PlanarArea(ring), poly.Area)
}

func TestWithClosureEpsilon(t *testing.T) {
	path := append(square(39.9, 116.4, 100), models.NewCoordinate(39.9+1e-4, 116.4))

	poly, err := NewBuilder(nil).Build(path)
	require.NoError(t, err)
	assert.Len(t, poly.RenderCoordinates, len(path)+1)

	poly, err = NewBuilder(nil, WithClosureEpsilon(1e-3)).Build(path)
	require.NoError(t, err)
	assert.Len(t, poly.RenderCoordinates, len(path))
}

func sampleTerritory() models.Territory {
	path := square(39.9, 116.4, 100)
	return models.Territory{
		ID:         "t-1",
		UserID:     "player-1",
		Name:       "Camp",
		Polygon:    path,
		Area:       10000,
		PointCount: 4,
		Datum:      models.DatumWGS84,
	}
}

func TestToGeoJSON(t *testing.T) {
	b, err := ToGeoJSON(sampleTerritory())
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		ID       string `json:"id"`
		Geometry struct {
			Type        string         `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "Feature", doc.Type)
	assert.Equal(t, "t-1", doc.ID)
	assert.Equal(t, "Polygon", doc.Geometry.Type)
	require.Len(t, doc.Geometry.Coordinates, 1)
	ring := doc.Geometry.Coordinates[0]
	assert.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
	// GeoJSON is lon, lat
	assert.Equal(t, 116.4, ring[0][0])
	assert.Equal(t, 39.9, ring[0][1])
	assert.Equal(t, "Camp", doc.Properties["name"])
}

func TestToKML(t *testing.T) {
	b, err := ToKML(sampleTerritory())
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "<Polygon>")
	assert.Contains(t, out, "<LinearRing>")
	assert.Contains(t, out, "<name>Camp</name>")
	assert.Contains(t, out, "116.4,39.9")
}

const nmeaLog = `$GPGGA,123519,3954.252,N,11624.444,E,1,08,0.9,45.4,M,-8.0,M,,*64
$GPRMC,123519,A,3954.252,N,11624.444,E,001.0,084.4,191026,,*1E
garbage line
$GPGGA,123529,3954.252,N,11624.544,E,1,08,0.9,45.4,M,-8.0,M,,*66
$GPGGA,123539,3954.352,N,11624.544,E,0,00,,,M,,M,,*58
$GPRMC,123549,V,3954.352,N,11624.544,E,,,191026,,*05
$GPGGA,123559,3954.352,N,11624.544,E,1,08,0.9,45.4,M,-8.0,M,,*60
`

func TestParseNMEA(t *testing.T) {
	path, err := ParseNMEA(strings.NewReader(nmeaLog))
	require.NoError(t, err)
	require.Len(t, path, 3)

	assert.InDelta(t, 39.9042, path[0].Latitude, 1e-6)
	assert.InDelta(t, 116.4074, path[0].Longitude, 1e-6)
	assert.InDelta(t, 116.409067, path[1].Longitude, 1e-6)
	assert.InDelta(t, 39.905867, path[2].Latitude, 1e-6)

	poly, err := NewBuilder(nil).Build(path)
	require.NoError(t, err)
	assert.Greater(t, poly.Area, 0.0)
}
