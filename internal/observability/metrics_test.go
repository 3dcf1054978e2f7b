package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveExplore("low", 3)
	m.ObserveExplore("low", 2)
	m.ObserveExplore("high", 9)
	m.ObserveTerritory(12000)
	m.ObserveTerritoryRejection("insufficient_points")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DensityTiers.WithLabelValues("low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DensityTiers.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TerritoryRejections.WithLabelValues("insufficient_points")))
	assert.Equal(t, uint64(3), histogramSampleCount(t, reg, "explorer_selected_pois"))
	assert.Equal(t, uint64(1), histogramSampleCount(t, reg, "explorer_territory_area_square_meters"))
}

func histogramSampleCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		return mf.GetMetric()[0].GetHistogram().GetSampleCount()
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestMetricsReRegisterReturnsExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.ObserveExplore("medium", 5)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.DensityTiers.WithLabelValues("medium")))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.ObserveExplore("solitary", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `explorer_density_tier_total{tier="solitary"} 1`))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveExplore("low", 1)
		m.ObserveTerritory(1)
		m.ObserveTerritoryRejection("x")
	})
}
