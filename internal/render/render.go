// Package render produces the map artifacts from the geocoded table. Every
// artifact is generated independently: one failing renderer is a warning,
// not the end of the run.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"lettergeo/internal/model"
)

// Artifact filenames are fixed so re-runs overwrite instead of accumulate.
const (
	WorldHTMLFile  = "map_world.html"
	WorldImageFile = "map_world.png"
	EuropeImage    = "map_europe.png"
)

// bounds clips a static map to a region of interest.
type bounds struct {
	MinLon, MaxLon float64
	MinLat, MaxLat float64
}

var (
	worldBounds  = bounds{MinLon: -150, MaxLon: 180, MinLat: -60, MaxLat: 90}
	europeBounds = bounds{MinLon: -20, MaxLon: 35, MinLat: 35, MaxLat: 73}
)

type artifact struct {
	file   string
	render func(rows []model.GeocodedLocation, title, path string) error
}

// Renderer writes all map artifacts to the output directory.
type Renderer struct {
	outDir    string
	title     string
	warnf     func(format string, a ...interface{})
	artifacts []artifact
}

// New creates a renderer for the configured output directory.
func New(cfg model.RenderConfig) *Renderer {
	return &Renderer{
		outDir: cfg.OutputDir,
		title:  cfg.Title,
		warnf: func(format string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", a...)
		},
		artifacts: []artifact{
			{file: WorldHTMLFile, render: renderWorldHTML},
			{file: WorldImageFile, render: func(rows []model.GeocodedLocation, title, path string) error {
				return renderStatic(rows, title, path, worldBounds)
			}},
			{file: EuropeImage, render: func(rows []model.GeocodedLocation, title, path string) error {
				return renderStatic(rows, title, path, europeBounds)
			}},
		},
	}
}

// RenderAll generates every artifact and returns how many rendered and how
// many failed. Only an unusable output directory is a hard error.
func (r *Renderer) RenderAll(rows []model.GeocodedLocation) (rendered, failed int, err error) {
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return 0, 0, fmt.Errorf("create output dir: %w", err)
	}

	for _, a := range r.artifacts {
		path := filepath.Join(r.outDir, a.file)
		if err := a.render(rows, r.title, path); err != nil {
			r.warnf("render %s: %v", a.file, err)
			failed++
			continue
		}
		rendered++
	}
	return rendered, failed, nil
}
