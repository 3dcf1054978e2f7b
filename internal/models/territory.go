package models

// TerritoryPolygon is the closed, render-ready result of building a recorded path
type TerritoryPolygon struct {
	RenderCoordinates []Coordinate `json:"renderCoordinates"` // display datum, closed ring
	Area              float64      `json:"area"`              // square meters, from raw coordinates
	PointCount        int          `json:"pointCount"`        // number of input points
}

// Territory is a persisted territory claim
type Territory struct {
	ID          string       `json:"id" db:"id"`
	UserID      string       `json:"userId" db:"user_id"`
	Name        string       `json:"name,omitempty" db:"name"`
	PolygonJSON string       `json:"-" db:"polygon_json"`
	Polygon     []Coordinate `json:"polygon" db:"-"`
	Area        float64      `json:"area" db:"area"`
	PointCount  int          `json:"pointCount" db:"point_count"`
	Datum       Datum        `json:"datum" db:"datum"`
	CreatedAt   int64        `json:"createdAt" db:"created_at"` // Unix timestamp in seconds
}

// TerritoriesResponse represents a paginated list of territories
type TerritoriesResponse struct {
	Data       []Territory `json:"data"`
	Total      int64       `json:"total"`
	TotalArea  float64     `json:"totalArea"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
