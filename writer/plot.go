package writer

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// PlotProfile renders field along the x row j as a text chart
func PlotProfile(s *Snapshot, field string, j, width, height int) (string, error) {
	n := s.FieldIndex(field)
	if n < 0 {
		return "", fmt.Errorf("writer: snapshot has no field %q, fields are %v", field, s.Fields)
	}
	if j < 0 || j >= s.Ny {
		return "", fmt.Errorf("writer: row %d outside [0,%d)", j, s.Ny)
	}
	_, f := s.Row(n, j)
	return PlotSeries(f, fmt.Sprintf("%s at t=%.4g, row %d", field, s.Time, j), width, height), nil
}

// PlotSeries renders any series, used for derived quantities
func PlotSeries(data []float64, caption string, width, height int) string {
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
