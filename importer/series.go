package importer

import (
	"context"
	"fmt"

	"github.com/pesekon2/sos-tools-go/gis"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// SeriesResult describes created space-time datasets and the number of
// maps or layers registered in each.
type SeriesResult struct {
	Datasets map[string]int
	// VectorMap is set when the intermediate vector map was kept.
	VectorMap string
}

// RasterSeriesImport runs a raster import and groups the produced maps
// into one space-time raster dataset per observed property, each map
// registered with its bucket's temporal extent.
func (im *Importer) RasterSeriesImport(ctx context.Context, opts RasterOptions) (SeriesResult, error) {
	rres, err := im.RasterImport(ctx, opts)
	if err != nil {
		return SeriesResult{}, err
	}

	result := SeriesResult{Datasets: make(map[string]int), VectorMap: rres.VectorMap}
	created := make(map[string]bool)
	for _, m := range rres.Maps {
		dataset := temporal.MapName(opts.Output, opts.Offering, m.Property)
		if !created[dataset] {
			title := fmt.Sprintf("%s at offering %s", m.Property, opts.Offering)
			if _, err := im.store.CreateDataset(ctx, dataset, gis.DatasetRaster, title, ""); err != nil {
				return SeriesResult{}, err
			}
			created[dataset] = true
		}

		end := m.End
		if err := im.store.RegisterMap(ctx, dataset, gis.RegisteredMap{
			MapName: m.Name,
			Start:   m.Start,
			End:     &end,
		}); err != nil {
			return SeriesResult{}, err
		}
		result.Datasets[dataset]++
	}

	im.logger.Info("raster datasets created",
		"offering", opts.Offering, "datasets", len(result.Datasets))
	return result, nil
}

// VectorSeriesImport runs a vector import and registers every produced
// layer in one space-time vector dataset.
func (im *Importer) VectorSeriesImport(ctx context.Context, opts Options) (SeriesResult, error) {
	vres, err := im.VectorImport(ctx, opts)
	if err != nil {
		return SeriesResult{}, err
	}
	if len(vres.Layers) == 0 {
		return SeriesResult{}, fmt.Errorf("offering %s produced no layers to register", opts.Offering)
	}

	dataset := temporal.MapName(opts.Output, opts.Offering)
	title := fmt.Sprintf("Observations at offering %s", opts.Offering)
	if _, err := im.store.CreateDataset(ctx, dataset, gis.DatasetVector, title, ""); err != nil {
		return SeriesResult{}, err
	}

	width := opts.Granularity.Duration()
	for _, layer := range vres.Layers {
		end := layer.Start.Add(width)
		if err := im.store.RegisterMap(ctx, dataset, gis.RegisteredMap{
			MapName: vres.MapName,
			Layer:   layer.Layer,
			Start:   layer.Start,
			End:     &end,
		}); err != nil {
			return SeriesResult{}, err
		}
	}

	im.logger.Info("vector dataset created",
		"dataset", dataset, "layers", len(vres.Layers))
	return SeriesResult{Datasets: map[string]int{dataset: len(vres.Layers)}}, nil
}
