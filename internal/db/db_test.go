package db

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"taller-service/internal/config"
)

func TestNew_SQLiteMemory(t *testing.T) {
	cfg := &config.Config{DB: config.DBConfig{Driver: config.DriverSQLite, DSN: ":memory:", MaxOpenConns: 1}}

	database, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, table := range []string{"vehicle_snapshots", "sync_runs"} {
		if !database.Migrator().HasTable(table) {
			t.Errorf("table %s not migrated", table)
		}
	}

	// Migrations are idempotent.
	if err := runMigrations(database); err != nil {
		t.Errorf("second migration run: %v", err)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &config.Config{DB: config.DBConfig{Driver: "oracle", DSN: "x"}}
	_, err := New(cfg, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "unsupported db driver") {
		t.Errorf("err = %v, want unsupported driver", err)
	}
}
