// Package table reads and writes the CSV checkpoints passed between
// pipeline stages: mentions, counts and coordinates.
package table

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"lettergeo/internal/model"
)

// Standard file names under <data>/csv/.
const (
	MentionsFile    = "mentions.csv"
	CountsFile      = "loc_count.csv"
	CoordinatesFile = "loc_coordinates.csv"
)

// CSVDir returns the checkpoint directory under the data dir.
func CSVDir(dataDir string) string {
	return filepath.Join(dataDir, "csv")
}

// ReadMentions loads the per-letter mention table.
func ReadMentions(path string) ([]model.Mention, error) {
	var rows []model.Mention
	if err := read(path, &rows); err != nil {
		return nil, fmt.Errorf("read mentions table: %w", err)
	}
	return rows, nil
}

// WriteMentions saves the per-letter mention table.
func WriteMentions(path string, rows []model.Mention) error {
	if err := write(path, &rows); err != nil {
		return fmt.Errorf("write mentions table: %w", err)
	}
	return nil
}

// ReadCounts loads the (loc,count) table.
func ReadCounts(path string) ([]model.LocationCount, error) {
	var rows []model.LocationCount
	if err := read(path, &rows); err != nil {
		return nil, fmt.Errorf("read counts table: %w", err)
	}
	return rows, nil
}

// WriteCounts saves the (loc,count) table.
func WriteCounts(path string, rows []model.LocationCount) error {
	if err := write(path, &rows); err != nil {
		return fmt.Errorf("write counts table: %w", err)
	}
	return nil
}

// ReadCoordinates loads the (loc,count,lat,lon) table.
func ReadCoordinates(path string) ([]model.GeocodedLocation, error) {
	var rows []model.GeocodedLocation
	if err := read(path, &rows); err != nil {
		return nil, fmt.Errorf("read coordinates table: %w", err)
	}
	return rows, nil
}

// WriteCoordinates saves the (loc,count,lat,lon) table.
func WriteCoordinates(path string, rows []model.GeocodedLocation) error {
	if err := write(path, &rows); err != nil {
		return fmt.Errorf("write coordinates table: %w", err)
	}
	return nil
}

func read(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.UnmarshalFile(f, out)
}

func write(path string, in interface{}) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return gocsv.MarshalFile(in, f)
}
