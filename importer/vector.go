package importer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pesekon2/sos-tools-go/gis"
	"github.com/pesekon2/sos-tools-go/sos"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// VectorResult describes what a vector import produced.
type VectorResult struct {
	MapName string
	Points  int
	Layers  []gis.VectorLayer
}

// VectorImport fetches observations for one offering and writes them
// as one vector map: a point per procedure, a layer per aggregation
// bucket and an attribute value per observed property.
func (im *Importer) VectorImport(ctx context.Context, opts Options) (VectorResult, error) {
	if err := opts.validate(); err != nil {
		return VectorResult{}, err
	}
	if opts.SensorsOnly {
		return im.sensorsImport(ctx, opts)
	}

	series, off, err := im.fetch(ctx, opts)
	if err != nil {
		return VectorResult{}, err
	}
	return im.writeVector(ctx, opts, series, off)
}

// writeVector turns fetched series into a stored vector map.
func (im *Importer) writeVector(ctx context.Context, opts Options, series []sos.Series, off sos.Offering) (VectorResult, error) {
	mapName := temporal.MapName(opts.Output, opts.Offering)
	points, cats, epsg := stationPoints(series)

	mapID, err := im.store.CreateVectorMap(ctx, mapName, epsg)
	if err != nil {
		return VectorResult{}, err
	}
	if err := im.store.WriteVectorPoints(ctx, mapID, points); err != nil {
		return VectorResult{}, err
	}

	buckets := temporal.NewBuckets(window(opts, off), opts.Granularity)
	layers := mergeBuckets(collect(series, buckets), opts.Method, cats)

	if cols := len(layers) * propertyCount(series); cols > maxLayerColumns {
		im.logger.Warn("import produces a very wide attribute table",
			"map", mapName, "columns", cols)
	}

	result := VectorResult{MapName: mapName, Points: len(points)}
	for i, layer := range layers {
		if err := im.store.AddVectorLayer(ctx, mapID, i+1, layer.start, layer.values); err != nil {
			return VectorResult{}, err
		}
		result.Layers = append(result.Layers, gis.VectorLayer{Layer: i + 1, Start: layer.start})
	}

	im.logger.Info("vector map imported",
		"map", mapName, "points", len(points), "layers", len(layers))
	return result, nil
}

// sensorsImport writes station metadata from DescribeSensor instead of
// observations, one described point per procedure.
func (im *Importer) sensorsImport(ctx context.Context, opts Options) (VectorResult, error) {
	if im.client == nil {
		return VectorResult{}, fmt.Errorf("no service configured, set a SOS endpoint URL")
	}

	caps, err := im.client.GetCapabilities(ctx)
	if err != nil {
		return VectorResult{}, err
	}
	off, err := caps.Offering(opts.Offering)
	if err != nil {
		return VectorResult{}, err
	}

	procedures := opts.Procedures
	if len(procedures) == 0 {
		procedures = off.Procedures
	}
	if len(procedures) == 0 {
		return VectorResult{}, fmt.Errorf("offering %s lists no procedures", opts.Offering)
	}

	var points []gis.VectorPoint
	epsg := 0
	for _, procedure := range procedures {
		sensor, err := im.client.DescribeSensor(ctx, procedure)
		if err != nil {
			return VectorResult{}, fmt.Errorf("describing %s: %w", procedure, err)
		}
		if epsg == 0 {
			epsg = sensor.EPSG
		}
		points = append(points, gis.VectorPoint{
			Cat:         len(points) + 1,
			Name:        sensor.Procedure,
			Description: sensor.Description,
			Keywords:    strings.Join(sensor.Keywords, ","),
			SensorType:  sensor.SensorType,
			SystemType:  sensor.SystemType,
			X:           sensor.Point.X(),
			Y:           sensor.Point.Y(),
			Z:           sensor.Z,
		})
	}

	mapName := temporal.MapName(opts.Output, opts.Offering)
	mapID, err := im.store.CreateVectorMap(ctx, mapName, epsg)
	if err != nil {
		return VectorResult{}, err
	}
	if err := im.store.WriteVectorPoints(ctx, mapID, points); err != nil {
		return VectorResult{}, err
	}

	im.logger.Info("sensor metadata imported", "map", mapName, "points", len(points))
	return VectorResult{MapName: mapName, Points: len(points)}, nil
}

// stationPoints derives the point table from the fetched series: one
// category per procedure in first-seen order, coordinates and EPSG
// taken from the series geometry.
func stationPoints(series []sos.Series) ([]gis.VectorPoint, map[string]int, int) {
	cats := make(map[string]int)
	var points []gis.VectorPoint
	epsg := 0
	for _, s := range series {
		if _, seen := cats[s.Procedure]; seen {
			continue
		}
		cats[s.Procedure] = len(points) + 1
		points = append(points, gis.VectorPoint{
			Cat:  len(points) + 1,
			Name: s.Procedure,
			X:    s.Point.X(),
			Y:    s.Point.Y(),
			Z:    s.Z,
		})
		if epsg == 0 {
			epsg = s.EPSG
		}
	}
	return points, cats, epsg
}

type layerData struct {
	start  time.Time
	values []gis.VectorValue
}

// mergeBuckets reduces every property's collector and merges the
// results into chronological layers spanning all properties.
func mergeBuckets(collectors map[string]*temporal.Collector, method temporal.Method, cats map[string]int) []layerData {
	byStart := make(map[time.Time]*layerData)
	for property, c := range collectors {
		for _, bv := range c.Reduce(method) {
			layer := byStart[bv.Start]
			if layer == nil {
				layer = &layerData{start: bv.Start}
				byStart[bv.Start] = layer
			}
			for procedure, value := range bv.Values {
				layer.values = append(layer.values, gis.VectorValue{
					Cat:      cats[procedure],
					Property: property,
					Value:    value,
				})
			}
		}
	}

	layers := make([]layerData, 0, len(byStart))
	for _, layer := range byStart {
		layers = append(layers, *layer)
	}
	sortLayers(layers)
	return layers
}

func sortLayers(layers []layerData) {
	slices.SortFunc(layers, func(a, b layerData) int { return a.start.Compare(b.start) })
	for _, layer := range layers {
		slices.SortFunc(layer.values, func(a, b gis.VectorValue) int {
			if a.Cat != b.Cat {
				return a.Cat - b.Cat
			}
			return strings.Compare(a.Property, b.Property)
		})
	}
}

func propertyCount(series []sos.Series) int {
	seen := make(map[string]struct{})
	for _, s := range series {
		seen[s.Property] = struct{}{}
	}
	return len(seen)
}
