// Package territory closes recorded GPS paths into territory polygons.
package territory

import (
	"errors"

	"github.com/jengzang/survival-explorer-go/internal/datum"
	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/spatial"
)

const (
	// MinPoints is the fewest input coordinates a territory can be built from
	MinPoints = 3

	// DefaultClosureEpsilon is the planar distance in degrees below which the first and
	// last coordinates count as the same point (sub-meter)
	DefaultClosureEpsilon = 1e-6

	// DefaultSphericalThresholdMeters is the bounding-box diagonal above which area is
	// computed on the sphere instead of a local planar projection
	DefaultSphericalThresholdMeters = 10000.0
)

// ErrInsufficientPoints is returned when a path has fewer than MinPoints coordinates
var ErrInsufficientPoints = errors.New("territory: at least 3 points are required to build a polygon")

// Builder converts raw recorded paths into render-ready polygons
type Builder struct {
	transformer        datum.Transformer
	closureEpsilon     float64
	sphericalThreshold float64
}

// Option configures a Builder
type Option func(*Builder)

// WithClosureEpsilon overrides the closure tolerance in degrees
func WithClosureEpsilon(eps float64) Option {
	return func(b *Builder) {
		if eps > 0 {
			b.closureEpsilon = eps
		}
	}
}

// WithSphericalThreshold overrides the bounding-box diagonal, in meters, above which
// spherical area is used
func WithSphericalThreshold(meters float64) Option {
	return func(b *Builder) {
		if meters > 0 {
			b.sphericalThreshold = meters
		}
	}
}

// NewBuilder creates a builder rendering into the datum of t. A nil t renders raw coordinates.
func NewBuilder(t datum.Transformer, opts ...Option) *Builder {
	if t == nil {
		t = datum.Identity{}
	}
	b := &Builder{
		transformer:        t,
		closureEpsilon:     DefaultClosureEpsilon,
		sphericalThreshold: DefaultSphericalThresholdMeters,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Datum returns the display datum of built polygons
func (b *Builder) Datum() models.Datum {
	return b.transformer.Name()
}

// Build closes path, converts it to the display datum and measures its area.
// Area is always measured on the raw coordinates. Self-intersecting and degenerate
// paths are accepted as-is.
func (b *Builder) Build(path []models.Coordinate) (*models.TerritoryPolygon, error) {
	if len(path) < MinPoints {
		return nil, ErrInsufficientPoints
	}

	ring := make([]models.Coordinate, len(path), len(path)+1)
	copy(ring, path)
	if !ring[0].Equal(ring[len(ring)-1], b.closureEpsilon) {
		ring = append(ring, ring[0])
	}

	render := make([]models.Coordinate, len(ring))
	for i, c := range ring {
		render[i] = b.transformer.Forward(c)
	}

	return &models.TerritoryPolygon{
		RenderCoordinates: render,
		Area:              b.area(ring),
		PointCount:        len(path),
	}, nil
}

func (b *Builder) area(ring []models.Coordinate) float64 {
	if spatial.BoundingBoxDiagonal(ring) > b.sphericalThreshold {
		return spatial.SphericalArea(ring)
	}
	return spatial.PlanarArea(ring)
}
