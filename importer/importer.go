package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pesekon2/sos-tools-go/gis"
	"github.com/pesekon2/sos-tools-go/sos"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// maxLayerColumns is the attribute column count above which imports
// log a warning, the practical limit of wide attribute tables.
const maxLayerColumns = 2000

// Importer runs SOS imports against a store. It is the shared core of
// the command line tools.
type Importer struct {
	client *sos.Client
	store  *gis.Store
	logger *slog.Logger
}

func New(client *sos.Client, store *gis.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{client: client, store: store, logger: logger}
}

// Options select what to fetch and how to aggregate it. Zero values
// fall back to the offering's full extent, all procedures and all
// observed properties.
type Options struct {
	Offering           string
	Output             string
	ObservedProperties []string
	Procedures         []string
	EventTime          temporal.Window
	Granularity        temporal.Granularity
	Method             temporal.Method
	ResponseFormat     string

	// IncludeEmpty keeps procedures that delivered no readings.
	IncludeEmpty bool
	// SensorsOnly imports station metadata without any observations.
	SensorsOnly bool
}

func (o Options) validate() error {
	if o.Offering == "" {
		return fmt.Errorf("an offering is required")
	}
	if o.Output == "" {
		return fmt.Errorf("an output name is required")
	}
	return nil
}

// fetch resolves the offering, fills request defaults from it and
// fetches the observation series.
func (im *Importer) fetch(ctx context.Context, opts Options) ([]sos.Series, sos.Offering, error) {
	if im.client == nil {
		return nil, sos.Offering{}, fmt.Errorf("no service configured, set a SOS endpoint URL")
	}

	caps, err := im.client.GetCapabilities(ctx)
	if err != nil {
		return nil, sos.Offering{}, err
	}
	off, err := caps.Offering(opts.Offering)
	if err != nil {
		return nil, sos.Offering{}, err
	}

	req := sos.GetObservationRequest{
		Offering:           opts.Offering,
		ObservedProperties: opts.ObservedProperties,
		Procedures:         opts.Procedures,
		EventTime:          opts.EventTime,
		ResponseFormat:     opts.ResponseFormat,
	}.FillDefaults(off)

	series, err := im.client.FetchSeries(ctx, req)
	if err != nil {
		return nil, sos.Offering{}, err
	}

	if !opts.IncludeEmpty {
		kept := series[:0]
		for _, s := range series {
			if !s.IsEmpty() {
				kept = append(kept, s)
			}
		}
		series = kept
	}
	if len(series) == 0 {
		return nil, sos.Offering{}, sos.ErrNoObservations
	}

	return series, off, nil
}

// window picks the effective aggregation window: the explicit event
// time when given, the offering's extent otherwise.
func window(opts Options, off sos.Offering) temporal.Window {
	if !opts.EventTime.IsZero() {
		return opts.EventTime
	}
	return off.Window()
}

// collect buckets every reading, one collector per observed property
// keyed by procedure name.
func collect(series []sos.Series, buckets temporal.Buckets) map[string]*temporal.Collector {
	collectors := make(map[string]*temporal.Collector)
	for _, s := range series {
		c := collectors[s.Property]
		if c == nil {
			c = temporal.NewCollector(buckets)
			collectors[s.Property] = c
		}
		for _, r := range s.Readings {
			c.Add(s.Procedure, r.Time, r.Value)
		}
	}
	return collectors
}
