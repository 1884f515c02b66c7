// Converts saved SOS observation documents to GeoJSON. With -watch it
// keeps running and converts files as they appear in the input
// directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lmittmann/tint"

	"github.com/pesekon2/sos-tools-go/cli"
	"github.com/pesekon2/sos-tools-go/convert"
	"github.com/pesekon2/sos-tools-go/sos"
)

func main() {
	input := flag.String("input", "", "observation document or directory to convert (required)")
	output := flag.String("output", "", "output file or directory, default next to the input")
	format := flag.String("format", sos.FormatOM, "response format of the input documents")
	properties := flag.String("properties", "", "comma separated observed properties to extract (required)")
	watch := flag.Bool("watch", false, "keep running and convert files as they appear")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.RFC3339}))
	slog.SetDefault(logger)

	props := cli.SplitList(*properties)
	if *input == "" || len(props) == 0 {
		fmt.Fprintln(os.Stderr, "both -input and -properties are required")
		os.Exit(1)
	}

	info, err := os.Stat(*input)
	if err != nil {
		cli.Fatal(logger, "reading input", err)
	}

	if *watch {
		if !info.IsDir() {
			cli.Fatal(logger, "watch mode", fmt.Errorf("-input must be a directory"))
		}
		if err := watchDir(logger, *input, *output, *format, props); err != nil {
			cli.Fatal(logger, "watching input directory", err)
		}
		return
	}

	if info.IsDir() {
		entries, err := os.ReadDir(*input)
		if err != nil {
			cli.Fatal(logger, "reading input directory", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(*input, entry.Name())
			if err := convertFile(path, outputPath(path, *output), *format, props); err != nil {
				logger.Error("conversion failed", slog.String("file", path), slog.Any("error", err))
			}
		}
		return
	}

	if err := convertFile(*input, outputPath(*input, *output), *format, props); err != nil {
		cli.Fatal(logger, "conversion failed", err)
	}
}

// outputPath derives the target file: an explicit file, a file inside
// an explicit directory, or the input path with a .geojson extension.
func outputPath(input, output string) string {
	if output != "" {
		if info, err := os.Stat(output); err == nil && info.IsDir() {
			base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			return filepath.Join(output, base+".geojson")
		}
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".geojson"
}

func convertFile(input, output, format string, properties []string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	series, err := sos.ParseObservations(data, format, properties)
	if err != nil {
		return err
	}

	fc, err := convert.SeriesToGeoJSON(series)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, payload, 0o644); err != nil {
		return err
	}

	slog.Info("converted", slog.String("input", input), slog.String("output", output))
	return nil
}

func watchDir(logger *slog.Logger, dir, output, format string, properties []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.Info("watching for observation documents", slog.String("dir", dir))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if strings.EqualFold(filepath.Ext(event.Name), ".geojson") {
				continue
			}
			if err := convertFile(event.Name, outputPath(event.Name, output), format, properties); err != nil {
				logger.Error("conversion failed", slog.String("file", event.Name), slog.Any("error", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", slog.Any("error", err))

		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			return nil
		}
	}
}
