// Package cli holds the wiring shared by the command line tools:
// configuration, logging and the service and store handles.
package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/pesekon2/sos-tools-go/config"
	"github.com/pesekon2/sos-tools-go/gis"
	"github.com/pesekon2/sos-tools-go/logging"
	"github.com/pesekon2/sos-tools-go/sos"
)

// App bundles what every tool needs once the config is loaded.
type App struct {
	Config *config.AppConfig
	Store  *gis.Store
	Client *sos.Client
	Logger *slog.Logger
}

// Setup loads the config file, opens the store, builds the SOS client
// and installs the default logger. Command line values override the
// config file when non-empty.
func Setup(ctx context.Context, configPath, serviceURL, version, dbPath string) (*App, error) {
	cnfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if serviceURL != "" {
		cnfg.Service.URL = serviceURL
	}
	if version != "" {
		cnfg.Service.Version = version
	}
	if dbPath != "" {
		cnfg.Database.Path = dbPath
	}
	if cnfg.Database.Path == "" {
		cnfg.Database.Path = "gis.db"
	}

	consoleHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})

	store, err := gis.NewStore(ctx, cnfg.Database.Path)
	if err != nil {
		return nil, err
	}

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewStoreHandler(store, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)
	store.SetLogger(logger.With("module", "store"))

	// Tools that only touch the store can run without a service URL.
	var client *sos.Client
	if cnfg.Service.URL != "" {
		client, err = sos.NewClient(sos.ClientOptions{
			URL:      cnfg.Service.URL,
			Version:  cnfg.Service.Version,
			Username: cnfg.Service.Username,
			Password: cnfg.Service.Password,
		})
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	return &App{Config: cnfg, Store: store, Client: client, Logger: logger}, nil
}

func (a *App) Close() {
	a.Store.Close()
}

// SplitList turns a comma separated flag value into its items,
// dropping empty entries.
func SplitList(str string) []string {
	if str == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(str, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Fatal logs the error and terminates the tool.
func Fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
