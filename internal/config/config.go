package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	defaultEstados = []string{"reparado", "pendiente", "en proceso"}
	defaultAreas   = []string{
		"viales",
		"torneria",
		"liviana",
		"engrase",
		"carpinteria",
		"gomeria",
		"electromecanica",
		"pesada",
		"patio",
		"soldadura",
		"proveedor",
		"En funcionamiento",
		"Fuera de servicio",
	}
	defaultAdminEmails = []string{"admin@municipalidad.gov.ar"}
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
	AccessTTL    time.Duration
	AdminEmails  []string
}

type GatewayConfig struct {
	ScriptURL  string
	Timeout    time.Duration
	MaxRetries int
}

type CatalogConfig struct {
	Estados []string
	Areas   []string
}

type FinalizationConfig struct {
	PendingMessage string
}

type UploadConfig struct {
	MaxBytes int64
}

type Config struct {
	Environment  string
	HTTP         HTTPConfig
	DB           DBConfig
	Auth         AuthConfig
	Gateway      GatewayConfig
	Catalog      CatalogConfig
	Finalization FinalizationConfig
	Upload       UploadConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			AccessTTL:    v.GetDuration("JWT_ACCESS_TTL"),
			AdminEmails:  splitList(v.GetString("ADMIN_EMAILS")),
		},
		Gateway: GatewayConfig{
			ScriptURL:  v.GetString("GOOGLE_SCRIPT_URL"),
			Timeout:    v.GetDuration("GATEWAY_TIMEOUT"),
			MaxRetries: v.GetInt("GATEWAY_MAX_RETRIES"),
		},
		Catalog: CatalogConfig{
			Estados: splitList(v.GetString("CATALOG_ESTADOS")),
			Areas:   splitList(v.GetString("CATALOG_AREAS")),
		},
		Finalization: FinalizationConfig{
			PendingMessage: v.GetString("FINALIZATION_PENDING_MESSAGE"),
		},
		Upload: UploadConfig{
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverSQLite
	}
	if cfg.DB.DSN == "" && cfg.DB.Driver == DriverSQLite {
		cfg.DB.DSN = "file:taller.db"
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = 12 * time.Hour
	}
	if len(cfg.Auth.AdminEmails) == 0 {
		cfg.Auth.AdminEmails = defaultAdminEmails
	}
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = 30 * time.Second
	}
	if cfg.Gateway.MaxRetries == 0 {
		cfg.Gateway.MaxRetries = 3
	}
	if len(cfg.Catalog.Estados) == 0 {
		cfg.Catalog.Estados = defaultEstados
	}
	if len(cfg.Catalog.Areas) == 0 {
		cfg.Catalog.Areas = defaultAreas
	}
	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = 5 * 1024 * 1024
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.Driver != DriverPostgres && cfg.DB.Driver != DriverSQLite {
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Gateway.ScriptURL == "" {
		return fmt.Errorf("GOOGLE_SCRIPT_URL is required")
	}
	if cfg.Gateway.MaxRetries < 1 {
		return fmt.Errorf("GATEWAY_MAX_RETRIES must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
