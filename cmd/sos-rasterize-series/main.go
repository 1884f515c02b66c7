// Converts a space-time vector dataset into a space-time raster
// dataset by rasterizing one observed property of every registered
// layer.
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
	dbPath := flag.String("db", "", "path to the map store")
	dataset := flag.String("dataset", "", "source space-time vector dataset (required)")
	output := flag.String("output", "", "name of the output raster dataset (required)")
	property := flag.String("property", "", "observed property to rasterize (required)")
	region := cli.AddRegionFlags(flag.CommandLine)
	flag.Parse()

	ctx := context.Background()
	app, err := cli.Setup(ctx, *configPath, "", "", *dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer app.Close()

	res, err := importer.New(app.Client, app.Store, app.Logger).RasterizeSeries(ctx, importer.RasterizeOptions{
		Dataset:  *dataset,
		Output:   *output,
		Property: *property,
		Region:   region.Options(app.Config.Region),
	})
	if err != nil {
		cli.Fatal(app.Logger, "rasterizing failed", err)
	}

	for name, maps := range res.Datasets {
		fmt.Printf("%s: %d maps registered\n", name, maps)
	}
}
