package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `service:
  url: "http://istsos.org/istsos/demo?"
  version: "1.0.0"
database:
  path: "gis.db"
api:
  address: "127.0.0.1"
  port: 8087
region:
  north: 62.32
  south: 62.28
  east: 17.42
  west: 17.38
  ns_res: 0.02
  ew_res: 0.02
harvest:
  offerings:
    - offering: "WQ2"
      output: "out"
      granularity: "1 hour"
      method: "average"
mqtt:
  host: "localhost"
  port: 1883
logging:
  db_level: "WARN"
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Service.URL != "http://istsos.org/istsos/demo?" {
		t.Errorf("unexpected service url %q", c.Service.URL)
	}
	if c.Api.Port != 8087 {
		t.Errorf("expected api port 8087, got %d", c.Api.Port)
	}
	if c.Region.NSRes != 0.02 {
		t.Errorf("expected ns_res 0.02, got %v", c.Region.NSRes)
	}

	if len(c.Harvest.Offerings) != 1 {
		t.Fatalf("expected 1 harvest offering, got %d", len(c.Harvest.Offerings))
	}
	off := c.Harvest.Offerings[0]
	if off.Offering != "WQ2" || off.Granularity != "1 hour" {
		t.Errorf("unexpected harvest offering: %+v", off)
	}
	if off.GetKind() != "vector-series" {
		t.Errorf("expected default kind vector-series, got %q", off.GetKind())
	}
}

func TestConfigDefaults(t *testing.T) {
	var c AppConfig

	if c.Database.GetBackupRetentionDays() != 90 {
		t.Errorf("expected default backup retention of 90 days")
	}
	if c.Harvest.GetRunAt() != "0 * * * *" {
		t.Errorf("expected hourly harvest default, got %q", c.Harvest.GetRunAt())
	}
	if c.Maintenance.GetRunAt() != "30 2 * * *" {
		t.Errorf("unexpected maintenance default %q", c.Maintenance.GetRunAt())
	}
	if c.Mqtt.Enabled() {
		t.Errorf("mqtt should be disabled without a host")
	}
	if c.Mqtt.GetTopic() != "sos/imports" {
		t.Errorf("unexpected default topic %q", c.Mqtt.GetTopic())
	}
	if c.Logging.GetDbLevel() != slog.LevelInfo {
		t.Errorf("expected default db log level INFO")
	}
	if c.Logging.GetDbMaxEntries() != 10000 {
		t.Errorf("expected default of 10000 log entries")
	}
}
