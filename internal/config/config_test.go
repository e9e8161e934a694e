package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"JWT_ACCESS_SECRET": "secret",
		"GOOGLE_SCRIPT_URL": "https://script.example/exec",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.HTTP.Host != "0.0.0.0" || cfg.HTTP.Port != 8080 {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.DB.Driver != DriverSQLite || cfg.DB.DSN != "file:taller.db" {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.Auth.AccessTTL != 12*time.Hour {
		t.Errorf("AccessTTL = %v", cfg.Auth.AccessTTL)
	}
	if !reflect.DeepEqual(cfg.Auth.AdminEmails, []string{"admin@municipalidad.gov.ar"}) {
		t.Errorf("AdminEmails = %v", cfg.Auth.AdminEmails)
	}
	if cfg.Gateway.Timeout != 30*time.Second || cfg.Gateway.MaxRetries != 3 {
		t.Errorf("Gateway = %+v", cfg.Gateway)
	}
	if len(cfg.Catalog.Areas) != 13 || len(cfg.Catalog.Estados) != 3 {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Upload.MaxBytes != 5*1024*1024 {
		t.Errorf("Upload.MaxBytes = %d", cfg.Upload.MaxBytes)
	}
}

func TestFromViper_Lists(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"JWT_ACCESS_SECRET": "secret",
		"GOOGLE_SCRIPT_URL": "https://script.example/exec",
		"ADMIN_EMAILS":      " jefe@taller.gob ,, otro@taller.gob ",
		"CATALOG_ESTADOS":   "ok,roto",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Auth.AdminEmails, []string{"jefe@taller.gob", "otro@taller.gob"}) {
		t.Errorf("AdminEmails = %v", cfg.Auth.AdminEmails)
	}
	if !reflect.DeepEqual(cfg.Catalog.Estados, []string{"ok", "roto"}) {
		t.Errorf("Estados = %v", cfg.Catalog.Estados)
	}
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{
			name:    "missing secret",
			values:  map[string]any{"GOOGLE_SCRIPT_URL": "u"},
			wantErr: "JWT_ACCESS_SECRET is required",
		},
		{
			name:    "missing script url",
			values:  map[string]any{"JWT_ACCESS_SECRET": "s"},
			wantErr: "GOOGLE_SCRIPT_URL is required",
		},
		{
			name:    "postgres without dsn",
			values:  map[string]any{"JWT_ACCESS_SECRET": "s", "GOOGLE_SCRIPT_URL": "u", "DB_DRIVER": "postgres"},
			wantErr: "DB_DSN is required",
		},
		{
			name:    "unknown driver",
			values:  map[string]any{"JWT_ACCESS_SECRET": "s", "GOOGLE_SCRIPT_URL": "u", "DB_DRIVER": "oracle"},
			wantErr: "DB_DRIVER must be",
		},
		{
			name:    "negative retries",
			values:  map[string]any{"JWT_ACCESS_SECRET": "s", "GOOGLE_SCRIPT_URL": "u", "GATEWAY_MAX_RETRIES": -1},
			wantErr: "GATEWAY_MAX_RETRIES",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
