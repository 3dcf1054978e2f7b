package models

// POIStatus is the gameplay state of a point of interest
type POIStatus string

const (
	POIStatusUndiscovered POIStatus = "undiscovered"
	POIStatusDiscovered   POIStatus = "discovered"
	POIStatusLooted       POIStatus = "looted"
)

// Valid reports whether s is a known status
func (s POIStatus) Valid() bool {
	switch s {
	case POIStatusUndiscovered, POIStatusDiscovered, POIStatusLooted:
		return true
	}
	return false
}

// PointOfInterest represents a discoverable, lootable map location
type PointOfInterest struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Type         string    `json:"type" db:"type"` // hospital, supermarket, factory, pharmacy, gas_station ...
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	Status       POIStatus `json:"status" db:"status"`
	HasResources bool      `json:"hasResources" db:"has_resources"`
	Description  string    `json:"description" db:"description"`

	// Metadata
	CreatedAt int64 `json:"createdAt" db:"created_at"` // Unix timestamp in seconds
	UpdatedAt int64 `json:"updatedAt" db:"updated_at"`
}

// Coordinate returns the POI location as a raw GPS coordinate
func (p PointOfInterest) Coordinate() Coordinate {
	return NewCoordinate(p.Latitude, p.Longitude)
}

// RankedPOI is a POI annotated with its distance from a query origin
type RankedPOI struct {
	PointOfInterest
	DistanceMeters float64 `json:"distanceMeters"`
}
