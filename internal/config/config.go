package config

import (
	"fmt"
)

// Config holds all collector configuration
type Config struct {
	// Pool settings
	Processes    int   `mapstructure:"processes"`
	PoolSize     int   `mapstructure:"pool_size"`
	WindowSize   int   `mapstructure:"window_size"`
	ClearingFreq int   `mapstructure:"clearing_freq"`
	ClearWindow  int   `mapstructure:"clear_window"`
	Random       bool  `mapstructure:"random"`
	Seed         int64 `mapstructure:"seed"`

	// Collection settings
	Rounds int `mapstructure:"rounds"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		Processes:    4,
		PoolSize:     1024,
		WindowSize:   0, // drop one oldest entry on overflow
		ClearingFreq: 0, // periodic clearing disabled
		ClearWindow:  0,
		Random:       true,
		Seed:         0, // seed from the clock
		Rounds:       1,
		LogLevel:     "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Processes <= 0 {
		return fmt.Errorf("processes must be positive, got %d", c.Processes)
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive, got %d", c.PoolSize)
	}
	if c.WindowSize < 0 {
		return fmt.Errorf("window_size must not be negative, got %d", c.WindowSize)
	}
	if c.ClearingFreq < 0 {
		return fmt.Errorf("clearing_freq must not be negative, got %d", c.ClearingFreq)
	}
	if c.ClearingFreq > 0 && c.ClearWindow <= 0 {
		return fmt.Errorf("clearing_freq requires a positive clear_window, got %d", c.ClearWindow)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	return nil
}
