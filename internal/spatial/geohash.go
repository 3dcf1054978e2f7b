package spatial

import (
	"math"
	"strings"
)

// Base32 alphabet for geohash
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// MaxGeohashPrecision is the longest geohash produced
const MaxGeohashPrecision = 12

// EncodeGeohash encodes latitude and longitude into a geohash string
// precision: number of characters in the geohash (1-12)
func EncodeGeohash(lat, lon float64, precision int) string {
	precision = clampPrecision(precision)

	latRange := [2]float64{-90.0, 90.0}
	lonRange := [2]float64{-180.0, 180.0}

	var sb strings.Builder
	sb.Grow(precision)

	bits, ch := 0, 0
	even := true
	for sb.Len() < precision {
		rng, v := &latRange, lat
		if even {
			rng, v = &lonRange, lon
		}
		mid := (rng[0] + rng[1]) / 2
		if v > mid {
			ch |= 1 << (4 - bits)
			rng[0] = mid
		} else {
			rng[1] = mid
		}
		even = !even

		bits++
		if bits == 5 {
			sb.WriteByte(base32[ch])
			bits, ch = 0, 0
		}
	}

	return sb.String()
}

// GeohashBounds returns the bounding box of a geohash cell
// Returns (minLat, minLon, maxLat, maxLon)
func GeohashBounds(geohash string) (float64, float64, float64, float64) {
	latRange := [2]float64{-90.0, 90.0}
	lonRange := [2]float64{-180.0, 180.0}

	even := true
	for i := 0; i < len(geohash); i++ {
		idx := strings.IndexByte(base32, geohash[i])
		if idx < 0 {
			continue
		}
		for mask := 16; mask > 0; mask >>= 1 {
			rng := &latRange
			if even {
				rng = &lonRange
			}
			mid := (rng[0] + rng[1]) / 2
			if idx&mask != 0 {
				rng[0] = mid
			} else {
				rng[1] = mid
			}
			even = !even
		}
	}

	return latRange[0], lonRange[0], latRange[1], lonRange[1]
}

// DecodeGeohash decodes a geohash string into the centre of its cell
func DecodeGeohash(geohash string) (lat, lon float64) {
	minLat, minLon, maxLat, maxLon := GeohashBounds(geohash)
	return (minLat + maxLat) / 2, (minLon + maxLon) / 2
}

// GeohashNeighbors returns the 8 neighbouring geohash cells
func GeohashNeighbors(geohash string) []string {
	lat, lon := DecodeGeohash(geohash)
	minLat, minLon, maxLat, maxLon := GeohashBounds(geohash)
	latDelta := maxLat - minLat
	lonDelta := maxLon - minLon

	neighbors := make([]string, 0, 8)
	for dLat := -1; dLat <= 1; dLat++ {
		for dLon := -1; dLon <= 1; dLon++ {
			if dLat == 0 && dLon == 0 {
				continue
			}
			newLat := math.Max(-90, math.Min(90, lat+float64(dLat)*latDelta))
			newLon := wrapLongitude(lon + float64(dLon)*lonDelta)
			neighbors = append(neighbors, EncodeGeohash(newLat, newLon, len(geohash)))
		}
	}

	return neighbors
}

// GeohashCellSize returns the smaller side, in meters, of a geohash cell of the given
// precision at latitude lat
func GeohashCellSize(precision int, lat float64) float64 {
	totalBits := 5 * clampPrecision(precision)
	lonBits := (totalBits + 1) / 2
	latBits := totalBits / 2

	height := 180.0 / math.Exp2(float64(latBits)) * MetersPerDegreeLat
	width := 360.0 / math.Exp2(float64(lonBits)) * MetersPerDegreeLon(lat)
	return math.Min(height, width)
}

// GeohashPrecisionForRadius returns the finest precision whose cells are at least
// radiusMeters across at lat, so a cell plus its 8 neighbours covers the radius
func GeohashPrecisionForRadius(radiusMeters, lat float64) int {
	for precision := MaxGeohashPrecision; precision > 1; precision-- {
		if GeohashCellSize(precision, lat) >= radiusMeters {
			return precision
		}
	}
	return 1
}

// CoveringGeohashes returns the cell containing (lat, lon) and its neighbours at a
// precision coarse enough to contain every point within radiusMeters
func CoveringGeohashes(lat, lon, radiusMeters float64) []string {
	center := EncodeGeohash(lat, lon, GeohashPrecisionForRadius(radiusMeters, lat))

	seen := map[string]bool{center: true}
	cells := []string{center}
	for _, n := range GeohashNeighbors(center) {
		if !seen[n] {
			seen[n] = true
			cells = append(cells, n)
		}
	}
	return cells
}

func clampPrecision(precision int) int {
	if precision < 1 {
		return 1
	}
	if precision > MaxGeohashPrecision {
		return MaxGeohashPrecision
	}
	return precision
}
