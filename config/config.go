package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBHost      string `env:"DB_HOST" yaml:"db_host"`
	DBPort      string `env:"DB_PORT" yaml:"db_port"`
	DBUser      string `env:"DB_USER" yaml:"db_user"`
	DBPassword  string `env:"DB_PASSWORD" yaml:"db_password"`
	DBName      string `env:"DB_NAME" yaml:"db_name"`
	DBSSLMode   string `env:"DB_SSLMODE" yaml:"db_sslmode"`
	DatabaseURL string `env:"DATABASE_URL" yaml:"database_url"`

	Port          string   `env:"PORT" yaml:"port"`
	Environment   string   `env:"ENVIRONMENT" yaml:"environment"`
	LogLevel      string   `env:"LOG_LEVEL" yaml:"log_level"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," yaml:"cors_origins"`
	RunMigrations bool     `env:"RUN_MIGRATIONS" yaml:"run_migrations"`

	AuditRetentionMonths int           `env:"AUDIT_RETENTION_MONTHS" yaml:"audit_retention_months"`
	AuditPurgeInterval   time.Duration `env:"AUDIT_PURGE_INTERVAL" yaml:"audit_purge_interval"`

	ExportBucket string `env:"EXPORT_BUCKET" yaml:"export_bucket"`
}

func defaults() Config {
	return Config{
		DBSSLMode:            "disable",
		Port:                 "3001",
		Environment:          "development",
		LogLevel:             "info",
		CORSOrigins:          []string{"http://localhost:5173", "http://localhost:3000"},
		RunMigrations:        true,
		AuditRetentionMonths: 6,
	}
}

// LoadConfig layers defaults, the optional YAML file named by CONFIG_FILE,
// and environment variables, in that order.
func LoadConfig() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a libpq keyword DSN.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

// MigrationURL returns a postgres:// URL for golang-migrate.
func (c Config) MigrationURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "staging"
}
