package importer

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/pesekon2/sos-tools-go/gis"
	"github.com/pesekon2/sos-tools-go/raster"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// RasterizeOptions select the source vector dataset and the attribute
// to burn into the output rasters.
type RasterizeOptions struct {
	Dataset  string
	Output   string
	Property string
	Region   RegionOptions
}

// RasterizeSeries converts a space-time vector dataset into a
// space-time raster dataset: every registered layer's values for one
// observed property are rasterized, the temporal extents preserved.
func (im *Importer) RasterizeSeries(ctx context.Context, opts RasterizeOptions) (SeriesResult, error) {
	if opts.Dataset == "" || opts.Output == "" || opts.Property == "" {
		return SeriesResult{}, fmt.Errorf("a dataset, an output name and a property are required")
	}

	ds, err := im.store.GetDataset(ctx, opts.Dataset)
	if err != nil {
		return SeriesResult{}, err
	}
	if ds.Type != gis.DatasetVector {
		return SeriesResult{}, fmt.Errorf("dataset %s is %s, expected %s", ds.Name, ds.Type, gis.DatasetVector)
	}

	registered, err := im.store.GetDatasetMaps(ctx, opts.Dataset)
	if err != nil {
		return SeriesResult{}, err
	}
	if len(registered) == 0 {
		return SeriesResult{}, fmt.Errorf("dataset %s has no registered layers", opts.Dataset)
	}

	title := fmt.Sprintf("Rasterized %s of %s", opts.Property, opts.Dataset)
	if _, err := im.store.CreateDataset(ctx, opts.Output, gis.DatasetRaster, title, ""); err != nil {
		return SeriesResult{}, err
	}

	maps := make(map[string]gis.VectorMap)
	points := make(map[string][]gis.VectorPoint)
	count := 0
	for _, reg := range registered {
		m, ok := maps[reg.MapName]
		if !ok {
			m, err = im.store.GetVectorMap(ctx, reg.MapName)
			if err != nil {
				return SeriesResult{}, err
			}
			maps[reg.MapName] = m
			points[reg.MapName], err = im.store.GetVectorPoints(ctx, m.ID)
			if err != nil {
				return SeriesResult{}, err
			}
		}

		burns, coords, err := im.layerBurns(ctx, m.ID, reg.Layer, opts.Property, points[reg.MapName])
		if err != nil {
			return SeriesResult{}, err
		}
		if len(burns) == 0 {
			continue
		}

		region, err := opts.Region.region(coords)
		if err != nil {
			return SeriesResult{}, err
		}

		name := temporal.MapName(opts.Output, temporal.CompactTimestamp(reg.Start))
		rm := gis.RasterMap{
			Name:  name,
			EPSG:  m.EPSG,
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
		if _, err := im.store.CreateRasterMap(ctx, rm); err != nil {
			return SeriesResult{}, err
		}
		if err := im.store.RegisterMap(ctx, opts.Output, gis.RegisteredMap{
			MapName: name,
			Start:   reg.Start,
			End:     reg.End,
		}); err != nil {
			return SeriesResult{}, err
		}
		count++
	}
	if count == 0 {
		return SeriesResult{}, fmt.Errorf("no layer of %s carries values for %s", opts.Dataset, opts.Property)
	}

	im.logger.Info("vector dataset rasterized",
		"dataset", opts.Dataset, "output", opts.Output, "maps", count)
	return SeriesResult{Datasets: map[string]int{opts.Output: count}}, nil
}

// layerBurns reads one layer's values for a property and joins them to
// the point coordinates by category.
func (im *Importer) layerBurns(ctx context.Context, mapID int64, layer int, property string, points []gis.VectorPoint) ([]raster.PointValue, []orb.Point, error) {
	values, err := im.store.GetVectorValues(ctx, mapID, layer)
	if err != nil {
		return nil, nil, err
	}

	byCat := make(map[int]orb.Point, len(points))
	for _, p := range points {
		byCat[p.Cat] = orb.Point{p.X, p.Y}
	}

	var burns []raster.PointValue
	var coords []orb.Point
	for _, v := range values {
		if v.Property != property {
			continue
		}
		p, ok := byCat[v.Cat]
		if !ok {
			continue
		}
		burns = append(burns, raster.PointValue{Point: p, Value: v.Value})
		coords = append(coords, p)
	}
	return burns, coords, nil
}
