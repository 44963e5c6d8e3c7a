// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config groups all settings of the ledger server.
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	JWT     JWTConfig
	Ledger  LedgerConfig
	Reports ReportsConfig
}

type AppConfig struct {
	Env      string // development, production
	LogLevel string
}

// IsDevelopment switches logging to the console encoder.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type HTTPConfig struct {
	Port int
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type StorageConfig struct {
	Driver      string
	DatabaseURL string
	MaxConns    int32
	AutoMigrate bool
	// SeedFile is a YAML or JSON catalog loaded by the memory driver.
	SeedFile string
}

// JWTConfig enables bearer authentication when Secret is set.
type JWTConfig struct {
	Secret string
}

// LedgerConfig controls entry status.
type LedgerConfig struct {
	// EntryDeadline is the offset from the start of a ledger day after which
	// a first entry counts as late.
	EntryDeadline time.Duration
}

// ReportsConfig controls report classification.
type ReportsConfig struct {
	// TransportRule is a CEL expression over `id`, `name` and `unit` of a service definition.
	TransportRule string
}

// DefaultTransportRule classifies services whose name mentions transport.
const DefaultTransportRule = `name.matches("(?i)transport")`

// Load reads configuration. Environment variables take precedence over file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		HTTP: HTTPConfig{
			Port: v.GetInt("HTTP_PORT"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
			DatabaseURL: v.GetString("DATABASE_URL"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
			SeedFile:    v.GetString("STORAGE_SEED_FILE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Ledger: LedgerConfig{
			EntryDeadline: v.GetDuration("LEDGER_ENTRY_DEADLINE"),
		},
		Reports: ReportsConfig{
			TransportRule: v.GetString("REPORTS_TRANSPORT_RULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("STORAGE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("STORAGE_SEED_FILE", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LEDGER_ENTRY_DEADLINE", "36h")
	v.SetDefault("REPORTS_TRANSPORT_RULE", DefaultTransportRule)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTP.Port)
	}
	if c.Ledger.EntryDeadline <= 0 {
		return fmt.Errorf("LEDGER_ENTRY_DEADLINE must be positive")
	}
	if c.Reports.TransportRule == "" {
		c.Reports.TransportRule = DefaultTransportRule
	}
	return nil
}
