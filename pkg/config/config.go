// Package config loads the jiraseed configuration from the process
// environment and validates it before anything touches the network.
// Core logic never reads ambient state; the loaded Config is injected
// into the tracker client, the mapping bridge, and the engine.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config carries every externally supplied setting.
type Config struct {
	Tracker TrackerConfig
	DB      DBConfig

	// HistoryPath is the SQLite file recording run history.
	// Empty disables history entirely.
	HistoryPath string

	// LogLevel sets the minimum zerolog level (trace..error).
	LogLevel string
}

// TrackerConfig holds Jira Data Center connection settings.
type TrackerConfig struct {
	// BaseURL is the Jira base URL, e.g. https://jira.company.com.
	BaseURL string `validate:"required,url"`

	// Username is the Jira user the fixture is provisioned as.
	Username string `validate:"required"`

	// Token is a Personal Access Token sent as a Bearer credential.
	Token string `validate:"required"`

	// VerifySSL controls TLS certificate verification.
	VerifySSL bool
}

// DBConfig holds the component-mapping database connection settings.
// Only required when the component-mapping phase runs.
type DBConfig struct {
	Host     string
	Port     int `validate:"gte=0,lte=65535"`
	Name     string
	User     string
	Password string
}

// DSN renders the pgx connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// FromEnv builds a Config from environment variables. Missing optional
// values get the same defaults the original deployment used.
func FromEnv() Config {
	return Config{
		Tracker: TrackerConfig{
			BaseURL:   os.Getenv("JIRA_URL"),
			Username:  os.Getenv("JIRA_USER"),
			Token:     os.Getenv("JIRA_TOKEN"),
			VerifySSL: envBool("JIRA_VERIFY_SSL", true),
		},
		DB: DBConfig{
			Host:     envDefault("DB_HOST", "localhost"),
			Port:     envInt("DB_PORT", 5432),
			Name:     envDefault("DB_NAME", "lct_data"),
			User:     envDefault("DB_USER", "postgres"),
			Password: envDefault("DB_PASSWORD", "postgres"),
		},
		HistoryPath: os.Getenv("JIRASEED_HISTORY"),
		LogLevel:    envDefault("LOG_LEVEL", "info"),
	}
}

// Validate checks the tracker settings. DB settings are validated
// lazily by the bridge because most phases never touch the database.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.Tracker); err != nil {
		return fmt.Errorf("tracker configuration invalid (set JIRA_URL, JIRA_USER, JIRA_TOKEN): %w", err)
	}
	if err := v.Struct(c.DB); err != nil {
		return fmt.Errorf("database configuration invalid: %w", err)
	}
	return nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
