package render

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"lettergeo/internal/model"
)

// renderWorldHTML writes the interactive world map: a scatter over the
// world geo component, point value (and color) by mention count, tooltip
// with the canonical name.
func renderWorldHTML(rows []model.GeocodedLocation, title, path string) error {
	maxCount := 1
	for _, row := range rows {
		if row.Count > maxCount {
			maxCount = row.Count
		}
	}

	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithGeoComponentOpts(opts.GeoComponent{Map: "world"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        float32(maxCount),
			InRange:    &opts.VisualMapInRange{Color: []string{"#50a3ba", "#eac736", "#d94e5d"}},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	data := make([]opts.GeoData, 0, len(rows))
	for _, row := range rows {
		data = append(data, opts.GeoData{
			Name:  row.Loc,
			Value: []interface{}{row.Lon, row.Lat, row.Count},
		})
	}
	geo.AddSeries("mentions", types.ChartScatter, data)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	if err := geo.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
