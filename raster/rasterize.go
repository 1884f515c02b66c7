package raster

import (
	"math"

	"github.com/paulmach/orb"
)

// PointValue is one point feature with the attribute value to burn.
type PointValue struct {
	Point orb.Point
	Value float64
}

// Rasterize burns point values into the region's grid. Cells with no
// point stay NaN; when several points share a cell the last one wins.
// The returned slice is row major, row 0 at the northern edge.
func Rasterize(region Region, points []PointValue) []float64 {
	rows, cols := region.Rows(), region.Cols()
	cells := make([]float64, rows*cols)
	for i := range cells {
		cells[i] = math.NaN()
	}

	for _, pv := range points {
		row, col, ok := region.Cell(pv.Point)
		if !ok {
			continue
		}
		cells[row*cols+col] = pv.Value
	}

	return cells
}
