// Fetches observations from a Sensor Observation Service and imports
// them as a vector point map, one layer per aggregation bucket. Can
// also print service metadata or import sensor descriptions only.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pesekon2/sos-tools-go/cli"
	"github.com/pesekon2/sos-tools-go/importer"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	url := flag.String("url", "", "base URL of the SOS endpoint")
	version := flag.String("service-version", "", "SOS protocol version, 1.0.0 or 2.0.0")
	dbPath := flag.String("db", "", "path to the map store")
	describe := flag.Bool("describe", false, "print service metadata instead of importing")
	offerings := flag.Bool("o", false, "with -describe: print the offering list")
	properties := flag.Bool("v", false, "with -describe: print the observed properties")
	procedures := flag.Bool("p", false, "with -describe: print the procedures")
	extent := flag.Bool("t", false, "with -describe: print the temporal extent")
	shell := flag.Bool("g", false, "with -describe: print in shell script style")
	imp := cli.AddImportFlags(flag.CommandLine)
	flag.Parse()

	ctx := context.Background()
	app, err := cli.Setup(ctx, *configPath, *url, *version, *dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer app.Close()

	if *describe {
		err := importer.Describe(ctx, app.Client, os.Stdout, importer.DescribeOptions{
			Offering:           *imp.Offering,
			Offerings:          *offerings,
			ObservedProperties: *properties,
			Procedures:         *procedures,
			TimeExtent:         *extent,
			Shell:              *shell,
		})
		if err != nil {
			cli.Fatal(app.Logger, "describing service failed", err)
		}
		return
	}

	opts, err := imp.Options(app.Config)
	if err != nil {
		cli.Fatal(app.Logger, "invalid options", err)
	}

	res, err := importer.New(app.Client, app.Store, app.Logger).VectorImport(ctx, opts)
	if err != nil {
		cli.Fatal(app.Logger, "vector import failed", err)
	}

	fmt.Printf("%s: %d points, %d layers\n", res.MapName, res.Points, len(res.Layers))
}
