package territory

import (
	"bytes"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-kml/v3"

	"github.com/jengzang/survival-explorer-go/internal/models"
)

// Ring converts coordinates to an orb ring, closing it if needed
func Ring(coords []models.Coordinate) orb.Ring {
	ring := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		ring = append(ring, orb.Point{c.Longitude, c.Latitude})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// ToGeoJSON encodes a territory as a GeoJSON Feature with a Polygon geometry
func ToGeoJSON(t models.Territory) ([]byte, error) {
	f := geojson.NewFeature(orb.Polygon{Ring(t.Polygon)})
	f.ID = t.ID
	f.Properties["name"] = t.Name
	f.Properties["userId"] = t.UserID
	f.Properties["area"] = t.Area
	f.Properties["pointCount"] = t.PointCount
	f.Properties["datum"] = string(t.Datum)

	b, err := f.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode geojson: %w", err)
	}
	return b, nil
}

// ToKML encodes a territory as a KML document with a single polygon placemark
func ToKML(t models.Territory) ([]byte, error) {
	ring := Ring(t.Polygon)
	coords := make([]kml.Coordinate, len(ring))
	for i, p := range ring {
		coords[i] = kml.Coordinate{Lon: p.Lon(), Lat: p.Lat()}
	}

	name := t.Name
	if name == "" {
		name = t.ID
	}

	doc := kml.KML(
		kml.Document(
			kml.Name(name),
			kml.Placemark(
				kml.Name(name),
				kml.Description(fmt.Sprintf("area %.1f m², %d points, datum %s", t.Area, t.PointCount, t.Datum)),
				kml.Polygon(
					kml.OuterBoundaryIs(
						kml.LinearRing(
							kml.Coordinates(coords...),
						),
					),
				),
			),
		),
	)

	var buf bytes.Buffer
	if err := doc.WriteIndent(&buf, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to encode kml: %w", err)
	}
	return buf.Bytes(), nil
}
