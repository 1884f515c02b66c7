package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/pesekon2/sos-tools-go/config"
	"github.com/pesekon2/sos-tools-go/gis"
)

func NewMaintenanceTask(logger *slog.Logger, store *gis.Store, cnfg *config.AppConfig) func() {
	return func() {
		logger.Debug("running maintenance task...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		if err := store.Backup(ctx); err != nil {
			logger.Error("store backup error", slog.Any("error", err))
		}

		if err := store.PurgeBackups(ctx, cnfg.Database.GetBackupRetentionDays()); err != nil {
			logger.Error("backup maintenance error", slog.Any("error", err))
		}

		if err := store.PurgeLog(ctx, cnfg.Logging.GetDbMaxEntries()); err != nil {
			logger.Error("log maintenance error", slog.Any("error", err))
		}

		logger.Info("maintenance task done")
	}
}
