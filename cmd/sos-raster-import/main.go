// Fetches observations from a Sensor Observation Service and imports
// them as raster maps, one map per observed property and aggregation
// bucket.
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
	keepVectors := flag.Bool("k", false, "keep the intermediate vector map")
	imp := cli.AddImportFlags(flag.CommandLine)
	region := cli.AddRegionFlags(flag.CommandLine)
	flag.Parse()

	ctx := context.Background()
	app, err := cli.Setup(ctx, *configPath, *url, *version, *dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer app.Close()

	opts, err := imp.Options(app.Config)
	if err != nil {
		cli.Fatal(app.Logger, "invalid options", err)
	}

	res, err := importer.New(app.Client, app.Store, app.Logger).RasterImport(ctx, importer.RasterOptions{
		Options:     opts,
		Region:      region.Options(app.Config.Region),
		KeepVectors: *keepVectors,
	})
	if err != nil {
		cli.Fatal(app.Logger, "raster import failed", err)
	}

	for _, m := range res.Maps {
		fmt.Println(m.Name)
	}
	if res.VectorMap != "" {
		fmt.Printf("kept vector map %s\n", res.VectorMap)
	}
}
