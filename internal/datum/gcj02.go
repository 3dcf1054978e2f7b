package datum

import (
	"math"

	"github.com/jengzang/survival-explorer-go/internal/models"
)

// Krasovsky 1940 ellipsoid parameters used by the published GCJ-02 reference formula
const (
	krasovskyA  = 6378245.0
	krasovskyEE = 0.00669342162296594323

	// inverse converges well below this within a handful of iterations
	inverseTolerance = 1e-9
	inverseMaxIter   = 30
)

// GCJ02 applies the WGS-84 to GCJ-02 offset used by mainland China map providers.
// Coordinates outside the mainland bounding box pass through unchanged.
type GCJ02 struct{}

func (GCJ02) Name() models.Datum { return models.DatumGCJ02 }

// Forward converts a WGS-84 coordinate to GCJ-02
func (GCJ02) Forward(c models.Coordinate) models.Coordinate {
	out := c
	out.Datum = models.DatumGCJ02
	if outOfChina(c.Latitude, c.Longitude) {
		return out
	}
	dLat, dLon := gcjDelta(c.Latitude, c.Longitude)
	out.Latitude += dLat
	out.Longitude += dLon
	return out
}

// Inverse converts a GCJ-02 coordinate back to WGS-84 by fixed-point iteration on Forward
func (g GCJ02) Inverse(c models.Coordinate) models.Coordinate {
	out := models.NewCoordinate(c.Latitude, c.Longitude)
	if outOfChina(c.Latitude, c.Longitude) {
		return out
	}

	for i := 0; i < inverseMaxIter; i++ {
		f := g.Forward(out)
		dLat := f.Latitude - c.Latitude
		dLon := f.Longitude - c.Longitude
		out.Latitude -= dLat
		out.Longitude -= dLon
		if math.Abs(dLat) < inverseTolerance && math.Abs(dLon) < inverseTolerance {
			break
		}
	}
	return out
}

func outOfChina(lat, lon float64) bool {
	return lon < 72.004 || lon > 137.8347 || lat < 0.8293 || lat > 55.8271
}

func gcjDelta(lat, lon float64) (float64, float64) {
	dLat := offsetLat(lon-105.0, lat-35.0)
	dLon := offsetLon(lon-105.0, lat-35.0)

	radLat := lat / 180.0 * math.Pi
	magic := math.Sin(radLat)
	magic = 1 - krasovskyEE*magic*magic
	sqrtMagic := math.Sqrt(magic)

	dLat = (dLat * 180.0) / ((krasovskyA * (1 - krasovskyEE)) / (magic * sqrtMagic) * math.Pi)
	dLon = (dLon * 180.0) / (krasovskyA / sqrtMagic * math.Cos(radLat) * math.Pi)
	return dLat, dLon
}

func offsetLat(x, y float64) float64 {
	ret := -100.0 + 2.0*x + 3.0*y + 0.2*y*y + 0.1*x*y + 0.2*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(y*math.Pi) + 40.0*math.Sin(y/3.0*math.Pi)) * 2.0 / 3.0
	ret += (160.0*math.Sin(y/12.0*math.Pi) + 320*math.Sin(y*math.Pi/30.0)) * 2.0 / 3.0
	return ret
}

func offsetLon(x, y float64) float64 {
	ret := 300.0 + x + 2.0*y + 0.1*x*x + 0.1*x*y + 0.1*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(x*math.Pi) + 40.0*math.Sin(x/3.0*math.Pi)) * 2.0 / 3.0
	ret += (150.0*math.Sin(x/12.0*math.Pi) + 300.0*math.Sin(x/30.0*math.Pi)) * 2.0 / 3.0
	return ret
}
