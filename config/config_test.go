package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
db:
  dsn: postgres://kpi@localhost/kpi?sslmode=disable
kpi:
  rows_per_day: 12
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 || cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Store.Backend != BackendPostgres || cfg.Store.SummaryListName != "MonthlySummaries" {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if !cfg.KPI.UseWorkingDays || cfg.KPI.RowsPerDay != 12 {
		t.Fatalf("unexpected kpi config: %+v", cfg.KPI)
	}
	if cfg.Redis.LockTTL != 30*time.Second || cfg.Redis.Enabled {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if !strings.HasPrefix(cfg.Database.DSN, "postgres://") {
		t.Fatalf("unexpected dsn: %s", cfg.Database.DSN)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: postgres
db:
  dsn: postgres://file
`)
	t.Setenv("KPI_STORE_BACKEND", "list")
	t.Setenv("KPI_LIST_BASE_URL", "https://lists.example.com/api")
	t.Setenv("KPI_KPI_USE_WORKING_DAYS", "false")
	t.Setenv("KPI_SERVER_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Backend != BackendList || cfg.List.BaseURL != "https://lists.example.com/api" {
		t.Fatalf("expected env to win, got %+v / %+v", cfg.Store, cfg.List)
	}
	if cfg.KPI.UseWorkingDays {
		t.Fatalf("expected working days disabled")
	}
	if cfg.Server.Addr() != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr())
	}
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "postgres://x"},
		Store:    StoreConfig{Backend: BackendPostgres, SummaryListName: "MonthlySummaries", DailyListName: "DailyRecords"},
		KPI:      KPIConfig{RowsPerDay: 19},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero rows", func(c *Config) { c.KPI.RowsPerDay = 0 }, "rows_per_day"},
		{"no summary list", func(c *Config) { c.Store.SummaryListName = "" }, "summary_list_name"},
		{"postgres without dsn", func(c *Config) { c.Database.DSN = "" }, "db.dsn"},
		{"list without url", func(c *Config) { c.Store.Backend = BackendList }, "list.base_url"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "mongo" }, "unknown store.backend"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true }, "redis.addr"},
	}

	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(&cfg)

		err := cfg.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}
