// Package datum converts raw GPS coordinates into the datum a map provider renders in.
package datum

import (
	"fmt"
	"strings"

	"github.com/jengzang/survival-explorer-go/internal/models"
)

// Transformer maps a raw WGS-84 coordinate into a display datum
type Transformer interface {
	Name() models.Datum
	Forward(c models.Coordinate) models.Coordinate
}

// Inverter is implemented by transformers that can map a display coordinate back to WGS-84
type Inverter interface {
	Inverse(c models.Coordinate) models.Coordinate
}

// New returns the transformer registered under name
func New(name string) (Transformer, error) {
	switch models.Datum(strings.ToLower(strings.TrimSpace(name))) {
	case "", models.DatumWGS84, "identity":
		return Identity{}, nil
	case models.DatumGCJ02:
		return GCJ02{}, nil
	}
	return nil, fmt.Errorf("unknown datum %q", name)
}

// Identity renders raw GPS coordinates unchanged
type Identity struct{}

func (Identity) Name() models.Datum { return models.DatumWGS84 }

func (Identity) Forward(c models.Coordinate) models.Coordinate {
	c.Datum = models.DatumWGS84
	return c
}

func (Identity) Inverse(c models.Coordinate) models.Coordinate {
	c.Datum = models.DatumWGS84
	return c
}
