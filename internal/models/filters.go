package models

// LocationQuery carries the caller's current position. Both fields are pointers so a
// missing coordinate is rejected instead of read as zero.
type LocationQuery struct {
	Lat *float64 `form:"lat" json:"latitude" binding:"required,min=-90,max=90"`
	Lon *float64 `form:"lon" json:"longitude" binding:"required,min=-180,max=180"`
}

// Coordinate returns the queried position. Call only after binding succeeded.
func (q LocationQuery) Coordinate() Coordinate {
	return NewCoordinate(*q.Lat, *q.Lon)
}

// POIFilter represents filter parameters for querying the POI catalog
type POIFilter struct {
	MinLat float64   `form:"minLat"`
	MaxLat float64   `form:"maxLat"`
	MinLon float64   `form:"minLon"`
	MaxLon float64   `form:"maxLon"`
	Status POIStatus `form:"status"` // undiscovered, discovered, looted
	Type   string    `form:"type"`
	Limit  int       `form:"limit"` // Max results
}

// TerritoryFilter represents filter parameters for listing territories
type TerritoryFilter struct {
	UserID   string  `form:"-"`
	MinArea  float64 `form:"minArea"` // Square meters
	Page     int     `form:"page"`
	PageSize int     `form:"pageSize"`
}

// PathUpload is the body of a territory claim
type PathUpload struct {
	Name   string       `json:"name"`
	Points []Coordinate `json:"points"`
}
