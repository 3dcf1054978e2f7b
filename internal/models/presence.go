package models

// Presence is the last reported location of an active player
type Presence struct {
	UserID    string  `json:"userId" db:"user_id"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Geohash   string  `json:"geohash" db:"geohash"`
	UpdatedAt int64   `json:"updatedAt" db:"updated_at"` // Unix timestamp in seconds
}

// Coordinate returns the reported location as a raw GPS coordinate
func (p Presence) Coordinate() Coordinate {
	return NewCoordinate(p.Latitude, p.Longitude)
}
