package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the HTTP surface and gameplay outcomes
type Metrics struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	DensityTiers        *prometheus.CounterVec
	SelectedPOIs        prometheus.Histogram
	TerritoryArea       prometheus.Histogram
	TerritoryRejections *prometheus.CounterVec
}

// NewMetrics registers collectors against reg, defaulting to the global registry when nil
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{gatherer: gatherer}
	var err error

	if m.HTTPRequests, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_http_requests_total",
		Help: "Handled HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"}), "explorer_http_requests_total"); err != nil {
		return nil, err
	}

	if m.HTTPDurations, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "explorer_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route", "method"}), "explorer_http_request_duration_seconds"); err != nil {
		return nil, err
	}

	if m.DensityTiers, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_density_tier_total",
		Help: "Explore requests by classified density tier.",
	}, []string{"tier"}), "explorer_density_tier_total"); err != nil {
		return nil, err
	}

	if m.SelectedPOIs, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "explorer_selected_pois",
		Help:    "Number of POIs returned per explore request.",
		Buckets: prometheus.LinearBuckets(0, 1, 11),
	}), "explorer_selected_pois"); err != nil {
		return nil, err
	}

	if m.TerritoryArea, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "explorer_territory_area_square_meters",
		Help:    "Area of claimed territories.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 10),
	}), "explorer_territory_area_square_meters"); err != nil {
		return nil, err
	}

	if m.TerritoryRejections, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_territory_rejections_total",
		Help: "Rejected territory claims by reason.",
	}, []string{"reason"}), "explorer_territory_rejections_total"); err != nil {
		return nil, err
	}

	return m, nil
}

// Handler exposes the registered metrics for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveExplore records the outcome of one explore request
func (m *Metrics) ObserveExplore(tier string, selected int) {
	if m == nil {
		return
	}
	m.DensityTiers.WithLabelValues(tier).Inc()
	m.SelectedPOIs.Observe(float64(selected))
}

// ObserveTerritory records a claimed territory's area
func (m *Metrics) ObserveTerritory(area float64) {
	if m == nil {
		return
	}
	m.TerritoryArea.Observe(area)
}

// ObserveTerritoryRejection records a rejected claim
func (m *Metrics) ObserveTerritoryRejection(reason string) {
	if m == nil {
		return
	}
	m.TerritoryRejections.WithLabelValues(reason).Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
