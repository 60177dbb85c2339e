// Package geocode resolves canonical place names to coordinates.
package geocode

import (
	"context"
	"errors"
)

// ErrUnresolved means the service answered but found no match for the name.
// Callers exclude the location from mapped output and keep going.
var ErrUnresolved = errors.New("location not resolved")

// Result is one successful lookup.
type Result struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name,omitempty"`
}

// Geocoder resolves a single place name. Implementations return
// ErrUnresolved for names the service cannot locate; any other error is a
// lookup failure after retries were exhausted.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*Result, error)
}
