package spatial

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/jengzang/survival-explorer-go/internal/models"
)

// Centroid calculates the arithmetic centroid of a set of coordinates
func Centroid(points []models.Coordinate) models.Coordinate {
	if len(points) == 0 {
		return models.Coordinate{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}

	return models.Coordinate{
		Latitude:  sumLat / float64(len(points)),
		Longitude: sumLon / float64(len(points)),
		Datum:     points[0].Datum,
	}
}

// BoundingBox calculates the bounding box of a set of coordinates
// Returns (minLat, minLon, maxLat, maxLon)
func BoundingBox(points []models.Coordinate) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minLat, maxLat := points[0].Latitude, points[0].Latitude
	minLon, maxLon := points[0].Longitude, points[0].Longitude
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
		minLon = math.Min(minLon, p.Longitude)
		maxLon = math.Max(maxLon, p.Longitude)
	}

	return minLat, minLon, maxLat, maxLon
}

// BoundingBoxDiagonal returns the great-circle length of the bounding box diagonal in meters
func BoundingBoxDiagonal(points []models.Coordinate) float64 {
	minLat, minLon, maxLat, maxLon := BoundingBox(points)
	return HaversineDistance(minLat, minLon, maxLat, maxLon)
}

// PathLength calculates the total length of a path in meters
func PathLength(points []models.Coordinate) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// PlanarArea calculates polygon area in square meters with the shoelace formula over an
// equirectangular projection. The projection scale is taken at the middle latitude of the
// bounding box and longitudes are measured from the first vertex, so the ring may be open
// or closed and in either orientation. Self-intersecting rings are summed as-is.
func PlanarArea(points []models.Coordinate) float64 {
	if len(points) < 3 {
		return 0
	}

	minLat, _, maxLat, _ := BoundingBox(points)
	originLat := (minLat + maxLat) / 2
	originLon := points[0].Longitude
	kx := MetersPerDegreeLon(originLat)
	ky := MetersPerDegreeLat

	project := func(c models.Coordinate) (float64, float64) {
		return wrapLongitude(c.Longitude-originLon) * kx, (c.Latitude - originLat) * ky
	}

	var sum float64
	for i := range points {
		x1, y1 := project(points[i])
		x2, y2 := project(points[(i+1)%len(points)])
		sum += x1*y2 - x2*y1
	}

	return math.Abs(sum) / 2
}

// SphericalArea calculates polygon area in square meters as an s2 loop on the sphere.
// Repeated consecutive vertices and a closing vertex are dropped first; fewer than three
// remaining vertices give zero.
func SphericalArea(points []models.Coordinate) float64 {
	vertices := make([]s2.Point, 0, len(points))
	for i, c := range points {
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(c.Latitude, c.Longitude))
		if i > 0 && p.ApproxEqual(vertices[len(vertices)-1]) {
			continue
		}
		vertices = append(vertices, p)
	}
	if n := len(vertices); n > 1 && vertices[0].ApproxEqual(vertices[n-1]) {
		vertices = vertices[:n-1]
	}
	if len(vertices) < 3 {
		return 0
	}

	// Loop area is the region to the left of the boundary; take the smaller side
	// so both orientations give the enclosed area.
	steradians := s2.LoopFromPoints(vertices).Area()
	steradians = math.Min(steradians, 4*math.Pi-steradians)
	return steradians * EarthRadiusMeters * EarthRadiusMeters
}

// PointInPolygon checks if a point is inside a polygon using ray casting
func PointInPolygon(point models.Coordinate, polygon []models.Coordinate) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Latitude > point.Latitude) != (pj.Latitude > point.Latitude) &&
			point.Longitude < (pj.Longitude-pi.Longitude)*(point.Latitude-pi.Latitude)/(pj.Latitude-pi.Latitude)+pi.Longitude {
			inside = !inside
		}
		j = i
	}

	return inside
}

func wrapLongitude(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}
