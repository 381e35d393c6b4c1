// Package config provides configuration management for the NBA Predict application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Ingestion  IngestionConfig  `mapstructure:"ingestion" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ModelConfig represents regression model configuration
type ModelConfig struct {
	Name            string `mapstructure:"name" validate:"required"`
	Season          int    `mapstructure:"season" validate:"required,gt=1945"`
	MinTrainingGames int   `mapstructure:"min_training_games" validate:"required,gt=0"`
}

// PredictionConfig represents prediction run configuration
type PredictionConfig struct {
	// LeadTime is how long before the first tip-off the daily run fires.
	LeadTimeMinutes   int `mapstructure:"lead_time_minutes" validate:"required,gt=0"`
	StatsCacheTTLSecs int `mapstructure:"stats_cache_ttl_seconds" validate:"required,gt=0"`
	StatsCacheMaxSize int `mapstructure:"stats_cache_max_size" validate:"required,gt=0"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	Sources  []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name      string  `mapstructure:"name" validate:"required"`
	Enabled   bool    `mapstructure:"enabled"`
	BaseURL   string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey    string  `mapstructure:"api_key"`
	RateLimit float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// ScheduleConfig represents scheduled job configuration. Expressions use
// standard five-field cron syntax, evaluated in UTC.
type ScheduleConfig struct {
	StatsSync string `mapstructure:"stats_sync" validate:"required"`
	LineSync  string `mapstructure:"line_sync" validate:"required"`
	// PredictionRun is when the daily prediction planner fires; the
	// actual run waits until lead time before the first tip-off.
	PredictionRun string `mapstructure:"prediction_run" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SourceByName returns the ingestion source with the given name
func (c *Config) SourceByName(name string) (*DataSourceConfig, bool) {
	for i := range c.Ingestion.Sources {
		if c.Ingestion.Sources[i].Name == name {
			return &c.Ingestion.Sources[i], true
		}
	}
	return nil, false
}
