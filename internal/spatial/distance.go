package spatial

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/jengzang/survival-explorer-go/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers

	// MetersPerDegreeLat is the length of one degree of latitude (approximate)
	MetersPerDegreeLat = 111320.0
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Distance returns the great-circle distance between two coordinates in meters
func Distance(a, b models.Coordinate) float64 {
	return HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// DestinationPoint calculates the destination point given a start point, bearing, and distance
// bearing: degrees (0-360), distance: meters
func DestinationPoint(lat, lon, bearing, distance float64) (float64, float64) {
	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	bearingRad := bearing * math.Pi / 180
	angular := distance / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearingRad))
	lon2 := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(lat2))

	ll := s2.LatLng{Lat: s1.Angle(lat2), Lng: s1.Angle(lon2)}.Normalized()
	return ll.Lat.Degrees(), ll.Lng.Degrees()
}

// MetersPerDegreeLon returns the length of one degree of longitude at lat
func MetersPerDegreeLon(lat float64) float64 {
	return MetersPerDegreeLat * math.Cos(lat*math.Pi/180)
}
