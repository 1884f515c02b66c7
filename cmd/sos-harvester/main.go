// Long-running daemon that re-imports configured offerings on a
// schedule, runs nightly store maintenance and serves the status API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pesekon2/sos-tools-go/cli"
	"github.com/pesekon2/sos-tools-go/importer"
	"github.com/pesekon2/sos-tools-go/notify"
	"github.com/pesekon2/sos-tools-go/task"
	"github.com/pesekon2/sos-tools-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			slog.Default().Error("application panicked", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Default().Info("application is shutting down...")
	}()

	configPath := flag.String("config", "", "path to config file")
	runNow := flag.Bool("run-now", false, "run one harvest immediately on startup")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := cli.Setup(ctx, *configPath, "", "", "")
	if err != nil {
		panic(fmt.Sprintf("failed to start: %v", err))
	}
	defer app.Close()

	logger := app.Logger
	logger.Info("harvester is starting...", slog.String("version", Version))

	if len(app.Config.Harvest.Offerings) == 0 {
		logger.Warn("no offerings configured, nothing will be harvested")
	}

	server := www.StartServer(app.Store, app.Config.Api)
	sinks := []task.EventSink{server}

	if app.Config.Mqtt.Enabled() {
		notifier := notify.New(
			app.Config.Mqtt.Host,
			app.Config.Mqtt.Port,
			app.Config.Mqtt.Username,
			app.Config.Mqtt.Password,
			app.Config.Mqtt.GetTopic())
		if err := notifier.Connect(); err != nil {
			panic(fmt.Sprintf("MQTT connection error: %v", err))
		}
		defer notifier.Disconnect()
		sinks = append(sinks, notifier)
	}

	im := importer.New(app.Client, app.Store, logger.With("module", "importer"))
	tasks := task.NewTasks(im, app.Store, sinks, app.Config)
	if err := tasks.Run(); err != nil {
		panic(fmt.Sprintf("failed to schedule tasks: %v", err))
	}
	defer tasks.Stop()

	if *runNow {
		go tasks.HarvestTask()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal", slog.Any("signal", sig))
		cancel()
	}()

	server.Run(ctx)
}
