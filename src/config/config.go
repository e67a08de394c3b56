package config

import (
	"fmt"
	"net/url"
	"os"

	"macro-observer/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills optional settings left empty in the YAML file.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Storage.RetentionDays == 0 {
		c.Storage.RetentionDays = 30
	}
	if c.DataSource.StockRange == "" {
		c.DataSource.StockRange = "3mo"
	}
	if c.Dashboard.TickSteps == 0 {
		c.Dashboard.TickSteps = 4
	}
	if c.Dashboard.DivergingLimit == 0 {
		c.Dashboard.DivergingLimit = 10
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Server
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return fmt.Errorf("invalid grpc port number: %d (must be between 1025 and 65535)", c.GrpcPort)
	}
	if c.GrpcPort != 0 && c.GrpcPort == c.Port {
		return fmt.Errorf("grpc port must differ from server port")
	}

	// Storage
	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}
	if c.Storage.RetentionDays < 0 {
		return fmt.Errorf("retention days cannot be negative")
	}

	// Network
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	// Data source
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data source base url cannot be empty")
	}
	if u, err := url.Parse(c.DataSource.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid data source base url: %s", c.DataSource.BaseURL)
	}
	if c.DataSource.TopN != 0 && (c.DataSource.TopN < 5 || c.DataSource.TopN > 500) {
		return fmt.Errorf("top_n must be between 5 and 500, got %d", c.DataSource.TopN)
	}
	if c.DataSource.StartYear != 0 && c.DataSource.EndYear != 0 && c.DataSource.StartYear > c.DataSource.EndYear {
		return fmt.Errorf("start year %d is after end year %d", c.DataSource.StartYear, c.DataSource.EndYear)
	}

	// Dashboard
	if c.Dashboard.TickSteps < 1 {
		return fmt.Errorf("tick steps must be at least 1")
	}
	if c.Dashboard.DivergingLimit < 1 {
		return fmt.Errorf("diverging limit must be at least 1")
	}
	if c.Dashboard.RefreshMinutes < 0 {
		return fmt.Errorf("refresh minutes cannot be negative")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
