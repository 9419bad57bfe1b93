// Package config provides daemon configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Config holds scent-colony daemon configuration.
type Config struct {
	// COMMS: connect to standalone NATS at COMMSURL.
	COMMSURL  string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName string `envconfig:"SERVICE_NAME" default:"scent-colony"`

	// Subject overrides (empty = package defaults from commsutil)
	SignalSubject string `envconfig:"COLONY_SIGNAL_SUBJECT"`
	APISubject    string `envconfig:"COLONY_API_SUBJECT"`
	TrailSubject  string `envconfig:"COLONY_TRAIL_SUBJECT"`

	// Colony tuning
	Reinforce float64 `envconfig:"COLONY_REINFORCE" default:"1"`
	Epsilon   float64 `envconfig:"COLONY_EPSILON" default:"0.01"`
	FadeRate  float64 `envconfig:"COLONY_FADE_RATE" default:"0.1"`
	TopK      int     `envconfig:"COLONY_TOP_K" default:"10"`

	// FadeInterval is the period of the decay ticker.
	FadeInterval time.Duration `envconfig:"COLONY_FADE_INTERVAL" default:"30s"`

	// Timeouts
	RequestTimeout time.Duration `envconfig:"COLONY_REQUEST_TIMEOUT" default:"25s"`

	// Topology
	TopologyFile string `envconfig:"COLONY_TOPOLOGY_FILE"`

	// HTTP endpoint (COLONY_HTTP_ADDR preferred, e.g. "0.0.0.0:8080")
	HTTPAddr string `envconfig:"COLONY_HTTP_ADDR"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateForServe checks required config when running the colony daemon.
func (c *Config) ValidateForServe() error {
	if c.Reinforce <= 0 {
		return fmt.Errorf("%s - COLONY_REINFORCE must be positive", logPrefix)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("%s - COLONY_EPSILON must be positive", logPrefix)
	}
	if c.FadeRate <= 0 || c.FadeRate >= 1 {
		return fmt.Errorf("%s - COLONY_FADE_RATE must be in (0, 1)", logPrefix)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%s - COLONY_TOP_K must be positive", logPrefix)
	}
	if c.FadeInterval <= 0 {
		return fmt.Errorf("%s - COLONY_FADE_INTERVAL must be positive", logPrefix)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - COLONY_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	return nil
}
