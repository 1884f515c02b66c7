package task

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/pesekon2/sos-tools-go/config"
	"github.com/pesekon2/sos-tools-go/gis"
	"github.com/pesekon2/sos-tools-go/importer"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	HarvestTask     func()
	MaintenanceTask func()
}

func NewTasks(im *importer.Importer, store *gis.Store, sinks []EventSink, cnfg *config.AppConfig) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		HarvestTask:     NewHarvestTask(logger.With(slog.String("task", "harvest")), im, sinks, cnfg),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), store, cnfg),
	}
}

func (t *Tasks) Run() error {
	if _, err := t.cron.AddFunc(t.cnfg.Harvest.GetRunAt(), t.HarvestTask); err != nil {
		return err
	}
	if _, err := t.cron.AddFunc(t.cnfg.Maintenance.GetRunAt(), t.MaintenanceTask); err != nil {
		return err
	}
	t.cron.Start()
	return nil
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
