package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

const postgresYAML = `
telegram:
  token: "test-token"
storage:
  driver: postgres
database:
  host: db.internal
  port: "5432"
  user: unilinkup
  name: unilinkup
  sslmode: disable
  max_connections: 5
`

func TestDatabaseSectionDecodes(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(postgresYAML), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != "5432" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Database.MaxConnections != 5 {
		t.Errorf("max_connections = %d", cfg.Database.MaxConnections)
	}
	if cfg.Storage.Driver != StoragePostgres {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
}

func TestNormalizeRequiresDatabaseForPostgres(t *testing.T) {
	cfg := Config{
		Telegram: TelegramConfig{Token: "t"},
		Storage:  StorageConfig{Driver: StoragePostgres},
	}
	if err := Normalize(&cfg); err == nil {
		t.Fatal("expected error for missing database settings")
	}

	cfg.Database = DatabaseConfig{Host: "localhost", Name: "bot"}
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := Config{Telegram: TelegramConfig{Token: "t"}}
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Storage.Driver != StorageMemory || cfg.Storage.MaxHistory != 100 {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if len(cfg.Catalog.Locations) == 0 || len(cfg.Catalog.Friends) == 0 {
		t.Error("default catalogs missing")
	}
}
