package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"lettergeo/internal/model"
)

// renderStatic writes a static scatter map: longitude/latitude axes clipped
// to the given bounds, marker radius scaled by mention count.
func renderStatic(rows []model.GeocodedLocation, title, path string, b bounds) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Min, p.X.Max = b.MinLon, b.MaxLon
	p.Y.Min, p.Y.Max = b.MinLat, b.MaxLat
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, 0, len(rows))
	counts := make([]int, 0, len(rows))
	for _, row := range rows {
		xys = append(xys, plotter.XY{X: row.Lon, Y: row.Lat})
		counts = append(counts, row.Count)
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  color.NRGBA{R: 230, G: 120, B: 30, A: 160},
			Radius: markerRadius(counts[i]),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(scatter)

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

// markerRadius scales with the square root of the count so dense clusters
// stay readable, capped to keep the largest markers from covering Europe.
func markerRadius(count int) vg.Length {
	if count < 1 {
		count = 1
	}
	r := 2 + 1.5*math.Sqrt(float64(count))
	if r > 14 {
		r = 14
	}
	return vg.Points(r)
}
