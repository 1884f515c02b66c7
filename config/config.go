package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/pesekon2/sos-tools-go/logging"
)

type AppConfigService struct {
	// Base URL of the SOS endpoint, e.g. "http://istsos.org/istsos/demo?"
	URL      string
	Version  string
	Username string
	Password string
	// Response format requested from the service, default O&M XML
	ResponseFormat *string `mapstructure:"response_format"`
}

type AppConfigDatabase struct {
	Path string
	// How many days daily backup files should be stored before they get deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigApi struct {
	Address string
	Port    int16
}

type AppConfigRegion struct {
	North float64
	South float64
	East  float64
	West  float64
	NSRes float64 `mapstructure:"ns_res"`
	EWRes float64 `mapstructure:"ew_res"`
}

// AppConfigHarvestOffering is one offering the harvester re-imports on
// every run.
type AppConfigHarvestOffering struct {
	Offering           string
	Output             string
	ObservedProperties []string `mapstructure:"observed_properties"`
	Procedures         []string
	// "vector", "raster", "vector-series" or "raster-series", default "vector-series"
	Kind        *string
	Granularity string
	Method      string
	// Width of the sliding import window ending at the current run,
	// e.g. "24 hours", default: "24 hours"
	Window *string
}

func (o AppConfigHarvestOffering) GetKind() string {
	if o.Kind == nil {
		return "vector-series"
	}
	return strings.ToLower(*o.Kind)
}

func (o AppConfigHarvestOffering) GetWindow() string {
	if o.Window == nil {
		return "24 hours"
	}
	return *o.Window
}

type AppConfigHarvest struct {
	// Cron expression for the import runs, default: hourly
	RunAt     *string `mapstructure:"run_at"`
	Offerings []AppConfigHarvestOffering
}

func (h AppConfigHarvest) GetRunAt() string {
	if h.RunAt == nil {
		return "0 * * * *"
	}
	return *h.RunAt
}

type AppConfigMaintenance struct {
	// Cron expression for log purge and backups, default: daily at 02:30
	RunAt *string `mapstructure:"run_at"`
}

func (m AppConfigMaintenance) GetRunAt() string {
	if m.RunAt == nil {
		return "30 2 * * *"
	}
	return *m.RunAt
}

type AppConfigMqtt struct {
	Host     string
	Port     int16
	Username string
	Password string
	// Topic the harvester publishes import events to, default: "sos/imports"
	Topic *string
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetTopic() string {
	if m.Topic == nil {
		return "sos/imports"
	}
	return *m.Topic
}

type AppConfigLogging struct {
	// Min log level for database: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for the console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.LogAttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Service     AppConfigService
	Database    AppConfigDatabase
	Api         AppConfigApi
	Region      AppConfigRegion
	Harvest     AppConfigHarvest
	Maintenance AppConfigMaintenance
	Mqtt        AppConfigMqtt
	Logging     AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		// Running without a config file is fine unless one was named
		// explicitly, the tools can be driven by flags alone.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
