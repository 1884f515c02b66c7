package importer

import (
	"context"
	"slices"
	"time"

	"github.com/paulmach/orb"

	"github.com/pesekon2/sos-tools-go/gis"
	"github.com/pesekon2/sos-tools-go/raster"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// RegionOptions bound the output grid. With no explicit bounds the
// region is computed from the station points, padded by one cell.
type RegionOptions struct {
	North float64
	South float64
	East  float64
	West  float64
	NSRes float64
	EWRes float64
}

func (r RegionOptions) explicit() bool {
	return r.North != 0 || r.South != 0 || r.East != 0 || r.West != 0
}

func (r RegionOptions) region(points []orb.Point) (raster.Region, error) {
	if r.explicit() {
		return raster.NewRegion(r.North, r.South, r.East, r.West, r.NSRes, r.EWRes)
	}
	return raster.RegionFromPoints(points, r.NSRes, r.EWRes)
}

// RasterOptions extend the import options with the output grid and the
// choice to keep the intermediate vector map.
type RasterOptions struct {
	Options
	Region      RegionOptions
	KeepVectors bool
}

// RasterMapInfo is one produced raster with its temporal extent.
type RasterMapInfo struct {
	Name     string
	Property string
	Start    time.Time
	End      time.Time
}

// RasterResult describes what a raster import produced.
type RasterResult struct {
	Maps []RasterMapInfo
	// VectorMap is set when the intermediate vector map was kept.
	VectorMap string
}

// RasterImport fetches observations for one offering and writes one
// raster map per observed property and aggregation bucket, station
// values burned into their cells.
func (im *Importer) RasterImport(ctx context.Context, opts RasterOptions) (RasterResult, error) {
	if err := opts.validate(); err != nil {
		return RasterResult{}, err
	}

	series, off, err := im.fetch(ctx, opts.Options)
	if err != nil {
		return RasterResult{}, err
	}

	// The vector map is written first and dropped again after the
	// rasters exist, unless the caller asked to keep it.
	vres, err := im.writeVector(ctx, opts.Options, series, off)
	if err != nil {
		return RasterResult{}, err
	}

	var result RasterResult
	if opts.KeepVectors {
		result.VectorMap = vres.MapName
	}

	coords := make(map[string]orb.Point)
	allPoints := make([]orb.Point, 0, len(series))
	epsg := 0
	for _, s := range series {
		if _, seen := coords[s.Procedure]; seen {
			continue
		}
		coords[s.Procedure] = s.Point
		allPoints = append(allPoints, s.Point)
		if epsg == 0 {
			epsg = s.EPSG
		}
	}

	region, err := opts.Region.region(allPoints)
	if err != nil {
		return RasterResult{}, err
	}

	buckets := temporal.NewBuckets(window(opts.Options, off), opts.Granularity)
	collectors := collect(series, buckets)

	for property, c := range collectors {
		for _, bv := range c.Reduce(opts.Method) {
			burns := make([]raster.PointValue, 0, len(bv.Values))
			for procedure, value := range bv.Values {
				burns = append(burns, raster.PointValue{Point: coords[procedure], Value: value})
			}

			name := temporal.MapName(opts.Output, opts.Offering, property, temporal.CompactTimestamp(bv.Start))
			m := gis.RasterMap{
				Name:  name,
				EPSG:  epsg,
				North: region.North,
				South: region.South,
				East:  region.East,
				West:  region.West,
				Rows:  region.Rows(),
				Cols:  region.Cols(),
				NSRes: region.NSRes,
				EWRes: region.EWRes,
				Cells: raster.Rasterize(region, burns),
			}
			if _, err := im.store.CreateRasterMap(ctx, m); err != nil {
				return RasterResult{}, err
			}
			result.Maps = append(result.Maps, RasterMapInfo{
				Name:     name,
				Property: property,
				Start:    bv.Start,
				End:      bv.End,
			})
		}
	}

	if !opts.KeepVectors {
		if err := im.store.RemoveVectorMap(ctx, vres.MapName); err != nil {
			return RasterResult{}, err
		}
	}

	sortRasterMaps(result.Maps)
	im.logger.Info("raster maps imported",
		"offering", opts.Offering, "maps", len(result.Maps))
	return result, nil
}

func sortRasterMaps(maps []RasterMapInfo) {
	slices.SortFunc(maps, func(a, b RasterMapInfo) int {
		if a.Property != b.Property {
			if a.Property < b.Property {
				return -1
			}
			return 1
		}
		return a.Start.Compare(b.Start)
	})
}
