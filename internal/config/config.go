// Package config loads service settings from an optional TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable, e.g. BODYMETRICS_STORE_DRIVER.
const EnvPrefix = "BODYMETRICS"

// Supported values of Config.StoreDriver.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds every setting of the service and CLI.
type Config struct {
	Addr        string `toml:"addr" envconfig:"ADDR"`
	MetricsAddr string `toml:"metrics_addr" envconfig:"METRICS_ADDR"`

	// storage
	StoreDriver   string `toml:"store_driver" envconfig:"STORE_DRIVER"`
	FilePath      string `toml:"file_path" envconfig:"FILE_PATH"`
	SQLitePath    string `toml:"sqlite_path" envconfig:"SQLITE_PATH"`
	DatabaseURL   string `toml:"database_url" envconfig:"DATABASE_URL"`
	RedisAddr     string `toml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisKey      string `toml:"redis_key" envconfig:"REDIS_KEY"`

	// logging
	LogLevel      string `toml:"log_level" envconfig:"LOG_LEVEL"`
	LogsPath      string `toml:"logs_path" envconfig:"LOGS_PATH"`
	LogToStdout   bool   `toml:"log_to_stdout" envconfig:"LOG_TO_STDOUT"`
	LogFormatJSON bool   `toml:"log_format_json" envconfig:"LOG_FORMAT_JSON"`

	// write auth; empty hash disables it
	AdminUsername     string `toml:"admin_username" envconfig:"ADMIN_USERNAME"`
	AdminPasswordHash string `toml:"admin_password_hash" envconfig:"ADMIN_PASSWORD_HASH"`
}

// Default returns the settings used when neither file nor environment say otherwise.
func Default() *Config {
	return &Config{
		Addr:          ":8080",
		MetricsAddr:   ":9090",
		StoreDriver:   DriverFile,
		FilePath:      "data/metrics.json",
		SQLitePath:    "data/metrics.db",
		RedisAddr:     "localhost:6379",
		LogLevel:      "info",
		LogToStdout:   true,
		AdminUsername: "admin",
	}
}

// Toml is the layout of the config file, one section per env.
type Toml struct {
	Development *Config
	Production  *Config
}

// Get returns the section for env, accepting short and long env names.
func (t *Toml) Get(env string) (*Config, error) {
	if err := CheckEnv(env); err != nil {
		return nil, err
	}
	if isProduction(env) {
		return t.Production, nil
	}
	return t.Development, nil
}

// CheckEnv reports an error unless env names development or production.
func CheckEnv(env string) error {
	switch strings.ToLower(env) {
	case "dev", "development", "prod", "production":
		return nil
	default:
		return fmt.Errorf("unknown env: %s", env)
	}
}

func isProduction(env string) bool {
	e := strings.ToLower(env)
	return e == "prod" || e == "production"
}

// Load builds the config for env. Values come from Default, then the env
// section of the TOML file at path (skipped if path is empty or missing),
// then BODYMETRICS_* environment variables.
func Load(env, path string) (*Config, error) {
	if err := CheckEnv(env); err != nil {
		return nil, err
	}
	cfg := Default()

	if path != "" {
		section, err := readToml(env, path)
		if err != nil {
			return nil, err
		}
		if section != nil {
			cfg = section
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readToml(env, path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	// each section starts from the defaults so a partial file stays usable
	t := Toml{Development: Default(), Production: Default()}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the store driver is known and has what it needs.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverFile:
		if c.FilePath == "" {
			return errors.New("file driver requires file_path")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite driver requires sqlite_path")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("postgres driver requires database_url")
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return errors.New("redis driver requires redis_addr")
		}
	default:
		return fmt.Errorf("unsupported store driver: %q", c.StoreDriver)
	}
	return nil
}
