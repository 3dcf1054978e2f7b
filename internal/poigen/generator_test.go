package poigen

import (
	"testing"

	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var center = models.NewCoordinate(39.9042, 116.4074)

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(DefaultConfig(center))
	require.NoError(t, err)
	b, err := Generate(DefaultConfig(center))
	require.NoError(t, err)

	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestGenerateStaysWithinRadius(t *testing.T) {
	cfg := DefaultConfig(center)
	pois, err := Generate(cfg)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, p := range pois {
		assert.LessOrEqual(t, spatial.Distance(center, p.Coordinate()), cfg.RadiusMeters+1)
		assert.Equal(t, models.POIStatusUndiscovered, p.Status)
		assert.NotEmpty(t, p.Type)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestGenerateSeedChangesCatalog(t *testing.T) {
	cfg := DefaultConfig(center)
	a, err := Generate(cfg)
	require.NoError(t, err)

	cfg.Seed = 99
	b, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig(center)
	cfg.RadiusMeters = 0
	_, err := Generate(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig(models.NewCoordinate(120, 0))
	_, err = Generate(cfg)
	assert.Error(t, err)
}
