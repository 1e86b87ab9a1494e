package config

import (
	"fmt"
	"os"

	"market-gateway/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides validation and defaults
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from a YAML file
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

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.Broker.RequestTimeout <= 0 {
		c.Broker.RequestTimeout = 10
	}
	if c.Stream.PollIntervalSeconds <= 0 {
		c.Stream.PollIntervalSeconds = 1
	}
	if c.Historical.Interval == "" {
		c.Historical.Interval = "ONE_MINUTE"
	}
	if c.Cache.Key == "" {
		c.Cache.Key = "market_data"
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d", c.Port)
	}

	if c.Broker.BaseURL == "" {
		return fmt.Errorf("broker base URL cannot be empty")
	}

	if c.Instrument.Exchange == "" || c.Instrument.TradingSymbol == "" || c.Instrument.SymbolToken == "" {
		return fmt.Errorf("instrument exchange, trading symbol and token must all be set")
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("cache address cannot be empty when cache is enabled")
	}

	if c.Storage.Enabled {
		switch c.Storage.DBType {
		case "sqlite":
			if c.Storage.DBPath == "" {
				return fmt.Errorf("database path cannot be empty for sqlite")
			}
		case "postgres":
			if c.Storage.DBConnectionString == "" {
				return fmt.Errorf("connection string cannot be empty for postgres")
			}
		default:
			return fmt.Errorf("unsupported db type: %s", c.Storage.DBType)
		}
	}

	return nil
}
