package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lettergeo/internal/geocode"
	"lettergeo/internal/model"
	"lettergeo/internal/render"
	"lettergeo/internal/table"
)

// Geomap orchestrates pipeline B: counts table -> coordinates -> map
// artifacts.
type Geomap struct {
	cfg      *model.Config
	geocoder geocode.Geocoder
	renderer *render.Renderer
}

// GeomapStats summarizes one run.
type GeomapStats struct {
	Locations  int // rows in the input table
	Resolved   int
	Unresolved int // no coordinates after retries; excluded from maps
	Rendered   int
	Failed     int // artifacts that failed to render
}

// NewGeomap wires pipeline B. The geocoder is injected so tests can run
// without the network; the CLI passes the cached Nominatim client.
func NewGeomap(cfg *model.Config, geocoder geocode.Geocoder) *Geomap {
	return &Geomap{
		cfg:      cfg,
		geocoder: geocoder,
		renderer: render.New(cfg.Render),
	}
}

// Run geocodes the counts table and renders the maps. inputPath overrides
// the default counts table location when non-empty.
func (g *Geomap) Run(ctx context.Context, inputPath string) (*GeomapStats, error) {
	if inputPath == "" {
		inputPath = filepath.Join(table.CSVDir(g.cfg.Corpus.DataDir), table.CountsFile)
	}

	// 1. Load the counts table
	rows, err := table.ReadCounts(inputPath)
	if err != nil {
		return nil, err
	}
	stats := &GeomapStats{Locations: len(rows)}

	// 2. Resolve coordinates, dropping what the service cannot locate
	g.verbosef("Geocoding %d locations...", len(rows))
	var resolved []model.GeocodedLocation
	for _, row := range rows {
		result, err := g.geocoder.Geocode(ctx, row.Loc)
		if err != nil {
			if errors.Is(err, geocode.ErrUnresolved) {
				g.verbosef("  unresolved: %s", row.Loc)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: geocode %s: %v\n", row.Loc, err)
			}
			stats.Unresolved++
			continue
		}
		resolved = append(resolved, model.GeocodedLocation{
			Loc:   row.Loc,
			Count: row.Count,
			Lat:   result.Lat,
			Lon:   result.Lon,
		})
	}
	stats.Resolved = len(resolved)

	// 3. Checkpoint coordinates so --plot-only can skip the network
	coordsPath := filepath.Join(table.CSVDir(g.cfg.Corpus.DataDir), table.CoordinatesFile)
	if err := table.WriteCoordinates(coordsPath, resolved); err != nil {
		return nil, err
	}
	g.verbosef("Wrote coordinates: %s", coordsPath)

	// 4. Render map artifacts
	return g.renderMaps(stats, resolved)
}

// RunPlotOnly renders the maps from a previously saved coordinates table,
// skipping geocoding entirely.
func (g *Geomap) RunPlotOnly(ctx context.Context) (*GeomapStats, error) {
	_ = ctx

	coordsPath := filepath.Join(table.CSVDir(g.cfg.Corpus.DataDir), table.CoordinatesFile)
	rows, err := table.ReadCoordinates(coordsPath)
	if err != nil {
		return nil, err
	}

	stats := &GeomapStats{Locations: len(rows), Resolved: len(rows)}
	return g.renderMaps(stats, rows)
}

func (g *Geomap) renderMaps(stats *GeomapStats, rows []model.GeocodedLocation) (*GeomapStats, error) {
	rendered, failed, err := g.renderer.RenderAll(rows)
	if err != nil {
		return nil, fmt.Errorf("render maps: %w", err)
	}
	stats.Rendered = rendered
	stats.Failed = failed

	fmt.Fprintf(os.Stderr, "✓ %d/%d locations resolved, %d artifacts -> %s\n",
		stats.Resolved, stats.Locations, stats.Rendered, g.cfg.Render.OutputDir)
	if stats.Unresolved > 0 {
		fmt.Fprintf(os.Stderr, "  %d locations unresolved (excluded from maps)\n", stats.Unresolved)
	}
	if stats.Failed > 0 {
		fmt.Fprintf(os.Stderr, "  %d artifacts failed to render\n", stats.Failed)
	}
	return stats, nil
}

func (g *Geomap) verbosef(format string, a ...interface{}) {
	if g.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
}
