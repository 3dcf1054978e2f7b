package territory

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/adrianmo/go-nmea"

	"github.com/jengzang/survival-explorer-go/internal/models"
)

// ParseNMEA reads a recorded NMEA log into a raw path. GGA fixes and valid RMC sentences
// contribute points; malformed sentences and sentences without a fix are skipped.
// Consecutive GGA/RMC pairs reporting the same position yield a single point.
func ParseNMEA(r io.Reader) ([]models.Coordinate, error) {
	var path []models.Coordinate

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		s, err := nmea.Parse(line)
		if err != nil {
			continue
		}

		var c models.Coordinate
		switch m := s.(type) {
		case nmea.GGA:
			if m.FixQuality == nmea.Invalid || m.FixQuality == "" {
				continue
			}
			c = models.NewCoordinate(m.Latitude, m.Longitude)
		case nmea.RMC:
			if m.Validity != nmea.ValidRMC {
				continue
			}
			c = models.NewCoordinate(m.Latitude, m.Longitude)
		default:
			continue
		}

		if n := len(path); n > 0 && path[n-1] == c {
			continue
		}
		path = append(path, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nmea log: %w", err)
	}

	return path, nil
}
