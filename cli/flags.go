package cli

import (
	"flag"

	"github.com/pesekon2/sos-tools-go/config"
	"github.com/pesekon2/sos-tools-go/importer"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// ImportFlags are the options shared by all import tools.
type ImportFlags struct {
	Offering           *string
	Output             *string
	ObservedProperties *string
	Procedures         *string
	EventTime          *string
	Granularity        *string
	Method             *string
	ResponseFormat     *string
	IncludeEmpty       *bool
	SensorsOnly        *bool
}

func AddImportFlags(fs *flag.FlagSet) *ImportFlags {
	return &ImportFlags{
		Offering:           fs.String("offering", "", "offering to fetch observations from (required)"),
		Output:             fs.String("output", "", "name of the output map (required)"),
		ObservedProperties: fs.String("observed-properties", "", "comma separated observed properties, default all"),
		Procedures:         fs.String("procedures", "", "comma separated procedures, default all"),
		EventTime:          fs.String("event-time", "", "time window as start/end in ISO 8601, default the offering's extent"),
		Granularity:        fs.String("granularity", "", `aggregation granularity, e.g. "1 hour"`),
		Method:             fs.String("method", "", "aggregation method: average, sum, minimum, maximum or count (default average)"),
		ResponseFormat:     fs.String("response-format", "", "response format requested from the service"),
		IncludeEmpty:       fs.Bool("i", false, "keep procedures without readings"),
		SensorsOnly:        fs.Bool("s", false, "import sensor metadata instead of observations"),
	}
}

// Options translates the parsed flags into import options.
func (f *ImportFlags) Options(cnfg *config.AppConfig) (importer.Options, error) {
	opts := importer.Options{
		Offering:           *f.Offering,
		Output:             *f.Output,
		ObservedProperties: SplitList(*f.ObservedProperties),
		Procedures:         SplitList(*f.Procedures),
		IncludeEmpty:       *f.IncludeEmpty,
		SensorsOnly:        *f.SensorsOnly,
	}

	opts.ResponseFormat = *f.ResponseFormat
	if opts.ResponseFormat == "" && cnfg.Service.ResponseFormat != nil {
		opts.ResponseFormat = *cnfg.Service.ResponseFormat
	}

	if *f.EventTime != "" {
		window, err := temporal.ParseWindow(*f.EventTime)
		if err != nil {
			return importer.Options{}, err
		}
		opts.EventTime = window
	}
	if *f.Granularity != "" {
		granularity, err := temporal.ParseGranularity(*f.Granularity)
		if err != nil {
			return importer.Options{}, err
		}
		opts.Granularity = granularity
	}

	method, err := temporal.ParseMethod(*f.Method)
	if err != nil {
		return importer.Options{}, err
	}
	opts.Method = method

	return opts, nil
}

// RegionFlags bound the output grid of the raster tools.
type RegionFlags struct {
	North *float64
	South *float64
	East  *float64
	West  *float64
	NSRes *float64
	EWRes *float64
}

func AddRegionFlags(fs *flag.FlagSet) *RegionFlags {
	return &RegionFlags{
		North: fs.Float64("north", 0, "northern bound of the output grid"),
		South: fs.Float64("south", 0, "southern bound of the output grid"),
		East:  fs.Float64("east", 0, "eastern bound of the output grid"),
		West:  fs.Float64("west", 0, "western bound of the output grid"),
		NSRes: fs.Float64("nsres", 0, "north-south cell resolution"),
		EWRes: fs.Float64("ewres", 0, "east-west cell resolution"),
	}
}

// Options translates the parsed flags into region options, falling
// back to the configured region for unset values.
func (f *RegionFlags) Options(region config.AppConfigRegion) importer.RegionOptions {
	opts := importer.RegionOptions{
		North: *f.North,
		South: *f.South,
		East:  *f.East,
		West:  *f.West,
		NSRes: *f.NSRes,
		EWRes: *f.EWRes,
	}
	if opts.North == 0 && opts.South == 0 && opts.East == 0 && opts.West == 0 {
		opts.North = region.North
		opts.South = region.South
		opts.East = region.East
		opts.West = region.West
	}
	if opts.NSRes == 0 {
		opts.NSRes = region.NSRes
	}
	if opts.EWRes == 0 {
		opts.EWRes = region.EWRes
	}
	return opts
}
