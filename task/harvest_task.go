package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pesekon2/sos-tools-go/config"
	"github.com/pesekon2/sos-tools-go/importer"
	"github.com/pesekon2/sos-tools-go/notify"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// EventSink receives one event per harvested offering. Both the MQTT
// notifier and the status API hub implement it.
type EventSink interface {
	Publish(event notify.ImportEvent) error
}

// NewHarvestTask re-imports every configured offering. One failing
// offering does not stop the others. Import events go to every sink.
func NewHarvestTask(logger *slog.Logger, im *importer.Importer, sinks []EventSink, cnfg *config.AppConfig) func() {
	return func() {
		logger.Debug("running harvest task...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		for _, off := range cnfg.Harvest.Offerings {
			maps, err := harvestOffering(ctx, im, cnfg.Region, off)
			if err != nil {
				logger.Error("harvest failed",
					slog.String("offering", off.Offering), slog.Any("error", err))
			} else {
				logger.Info("offering harvested",
					slog.String("offering", off.Offering), slog.Int("maps", maps))
			}

			event := notify.ImportEvent{
				Offering: off.Offering,
				Output:   off.Output,
				Kind:     off.GetKind(),
				Maps:     maps,
				Time:     time.Now().UTC(),
			}
			if err != nil {
				event.Error = err.Error()
			}
			for _, sink := range sinks {
				if err := sink.Publish(event); err != nil {
					logger.Warn("publishing import event failed", slog.Any("error", err))
				}
			}
		}

		logger.Debug("harvest task done")
	}
}

func harvestOffering(ctx context.Context, im *importer.Importer, region config.AppConfigRegion, off config.AppConfigHarvestOffering) (int, error) {
	var granularity temporal.Granularity
	if off.Granularity != "" {
		var err error
		granularity, err = temporal.ParseGranularity(off.Granularity)
		if err != nil {
			return 0, err
		}
	}
	method, err := temporal.ParseMethod(off.Method)
	if err != nil {
		return 0, err
	}
	window, err := harvestWindow(off, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	opts := importer.Options{
		Offering:           off.Offering,
		Output:             off.Output,
		ObservedProperties: off.ObservedProperties,
		Procedures:         off.Procedures,
		EventTime:          window,
		Granularity:        granularity,
		Method:             method,
	}
	rasterOpts := importer.RasterOptions{
		Options: opts,
		Region: importer.RegionOptions{
			North: region.North,
			South: region.South,
			East:  region.East,
			West:  region.West,
			NSRes: region.NSRes,
			EWRes: region.EWRes,
		},
	}

	switch off.GetKind() {
	case "vector":
		res, err := im.VectorImport(ctx, opts)
		if err != nil {
			return 0, err
		}
		return len(res.Layers), nil
	case "raster":
		res, err := im.RasterImport(ctx, rasterOpts)
		if err != nil {
			return 0, err
		}
		return len(res.Maps), nil
	case "raster-series":
		res, err := im.RasterSeriesImport(ctx, rasterOpts)
		if err != nil {
			return 0, err
		}
		return countDatasetMaps(res), nil
	default:
		res, err := im.VectorSeriesImport(ctx, opts)
		if err != nil {
			return 0, err
		}
		return countDatasetMaps(res), nil
	}
}

// harvestWindow bounds one run to a sliding window ending now, so
// recurring runs do not re-fetch the offering's whole temporal extent.
func harvestWindow(off config.AppConfigHarvestOffering, now time.Time) (temporal.Window, error) {
	width, err := temporal.ParseGranularity(off.GetWindow())
	if err != nil {
		return temporal.Window{}, fmt.Errorf("parsing harvest window for %s: %w", off.Offering, err)
	}
	return temporal.Window{Start: now.Add(-width.Duration()), End: now}, nil
}

func countDatasetMaps(res importer.SeriesResult) int {
	total := 0
	for _, n := range res.Datasets {
		total += n
	}
	return total
}
