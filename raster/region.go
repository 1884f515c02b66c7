package raster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Region is a north-up computational grid: bounds plus cell resolution.
// Rows and columns are derived, rounding the extent up to whole cells.
type Region struct {
	North float64
	South float64
	East  float64
	West  float64
	NSRes float64
	EWRes float64
}

// NewRegion builds a region from explicit bounds.
func NewRegion(north, south, east, west, nsRes, ewRes float64) (Region, error) {
	r := Region{North: north, South: south, East: east, West: west, NSRes: nsRes, EWRes: ewRes}
	if err := r.validate(); err != nil {
		return Region{}, err
	}
	return r, nil
}

// RegionFromPoints computes a region covering the given points, padded
// by one resolution unit on each side so edge points fall inside cells.
func RegionFromPoints(points []orb.Point, nsRes, ewRes float64) (Region, error) {
	if len(points) == 0 {
		return Region{}, fmt.Errorf("no points to compute a region from")
	}

	r := Region{
		North: math.Inf(-1),
		South: math.Inf(1),
		East:  math.Inf(-1),
		West:  math.Inf(1),
		NSRes: nsRes,
		EWRes: ewRes,
	}
	for _, p := range points {
		r.West = math.Min(r.West, p.X())
		r.East = math.Max(r.East, p.X())
		r.South = math.Min(r.South, p.Y())
		r.North = math.Max(r.North, p.Y())
	}
	r.North += nsRes
	r.South -= nsRes
	r.East += ewRes
	r.West -= ewRes

	if err := r.validate(); err != nil {
		return Region{}, err
	}
	return r, nil
}

func (r Region) validate() error {
	if r.NSRes <= 0 || r.EWRes <= 0 {
		return fmt.Errorf("resolution must be positive, got %v x %v", r.NSRes, r.EWRes)
	}
	if r.North <= r.South {
		return fmt.Errorf("north bound %v must exceed south bound %v", r.North, r.South)
	}
	if r.East <= r.West {
		return fmt.Errorf("east bound %v must exceed west bound %v", r.East, r.West)
	}
	return nil
}

// cellCount rounds an extent up to whole cells. Quotients that are
// integral up to float noise snap to the integer first, so a bbox that
// is an exact multiple of the resolution does not gain a ghost row or
// column.
func cellCount(extent, res float64) int {
	q := extent / res
	if rounded := math.Round(q); math.Abs(q-rounded) < 1e-9 {
		return int(rounded)
	}
	return int(math.Ceil(q))
}

// Rows is the number of grid rows, extents rounded up to whole cells.
func (r Region) Rows() int {
	return cellCount(r.North-r.South, r.NSRes)
}

// Cols is the number of grid columns.
func (r Region) Cols() int {
	return cellCount(r.East-r.West, r.EWRes)
}

// Cell maps a point to its row and column, row 0 at the northern edge.
// ok is false when the point lies outside the region.
func (r Region) Cell(p orb.Point) (row, col int, ok bool) {
	if p.X() < r.West || p.Y() > r.North {
		return 0, 0, false
	}
	row = int((r.North - p.Y()) / r.NSRes)
	col = int((p.X() - r.West) / r.EWRes)
	if row >= r.Rows() || col >= r.Cols() || row < 0 || col < 0 {
		return 0, 0, false
	}
	return row, col, true
}
