package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lettergeo/internal/geocode"
	"lettergeo/internal/pipeline"
)

var (
	inputTable     string
	plotOnly       bool
	noCache        bool
	geocodeTimeout time.Duration
)

// geomapCmd represents the geomap command
var geomapCmd = &cobra.Command{
	Use:   "geomap",
	Short: "Geocode the counts table and render map artifacts",
	Long: `Geomap runs pipeline B:
- Read the (loc,count) table produced by preprocess
- Resolve coordinates via Nominatim (rate limited, cached, bounded retries)
- Checkpoint the (loc,count,lat,lon) table
- Render the static and interactive maps

Unresolvable locations are reported and excluded from the maps; they never
abort the run. With --plot-only the maps are re-rendered from the saved
coordinates table without touching the network.

Example:
  lettergeo geomap
  lettergeo geomap --input data/csv/loc_count.csv
  lettergeo geomap --plot-only`,
	RunE: runGeomap,
}

func init() {
	rootCmd.AddCommand(geomapCmd)

	geomapCmd.Flags().StringVarP(&inputTable, "input", "f", "", "counts table to geocode (default: <data>/csv/loc_count.csv)")
	geomapCmd.Flags().BoolVar(&plotOnly, "plot-only", false, "re-render maps from the saved coordinates table (skip geocoding)")
	geomapCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the geocode cache (force fresh lookups)")
	geomapCmd.Flags().DurationVar(&geocodeTimeout, "timeout", 0, "per-request geocoding timeout (default from config)")
}

func runGeomap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if geocodeTimeout > 0 {
		cfg.Geocode.Timeout = geocodeTimeout
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	var geocoder geocode.Geocoder = geocode.NewNominatim(cfg.Geocode)
	if cfg.Cache.Enabled {
		geocoder = geocode.NewCached(geocoder, cfg.Cache)
	}

	ctx := context.Background()
	g := pipeline.NewGeomap(cfg, geocoder)

	start := time.Now()
	if plotOnly {
		if _, err := g.RunPlotOnly(ctx); err != nil {
			return fmt.Errorf("geomap failed: %w", err)
		}
	} else {
		if _, err := g.Run(ctx, inputTable); err != nil {
			return fmt.Errorf("geomap failed: %w", err)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Done in %v\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
