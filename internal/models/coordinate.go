package models

import "math"

// Datum names the coordinate reference system a Coordinate is expressed in
type Datum string

const (
	DatumWGS84 Datum = "wgs84" // raw GPS
	DatumGCJ02 Datum = "gcj02" // mainland China map providers
)

// Coordinate is an immutable latitude/longitude pair in degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Datum     Datum   `json:"datum,omitempty"`
}

// NewCoordinate returns a raw GPS coordinate
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lon, Datum: DatumWGS84}
}

// PlanarDistance returns the euclidean distance in degrees between c and o.
// Only meaningful for tolerance checks on nearby points.
func (c Coordinate) PlanarDistance(o Coordinate) float64 {
	return math.Hypot(c.Latitude-o.Latitude, c.Longitude-o.Longitude)
}

// Equal reports whether c and o coincide within eps degrees
func (c Coordinate) Equal(o Coordinate, eps float64) bool {
	return c.PlanarDistance(o) <= eps
}

// Valid reports whether the coordinate lies within the WGS-84 value ranges
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180 &&
		!math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude)
}
