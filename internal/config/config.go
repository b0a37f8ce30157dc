// Package config loads the bridge daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	// Serial capture pod carrying the raw device frames.
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`

	// Main-loop cadence in microseconds. The loop must outpace the device's
	// byte rate or the channel overflows.
	PollIntervalUs int `yaml:"poll_interval_us"`

	// Byte channel capacity; must be a power of two.
	ChannelSize int `yaml:"channel_size"`

	// Push host lock-key state back to the device LEDs.
	FollowHostLEDs bool `yaml:"follow_host_leds"`

	LogLevel string `yaml:"log_level"`
}

// Defaults applied by Load when a field is absent.
const (
	DefaultBaud           = 115200
	DefaultPollIntervalUs = 500
	DefaultChannelSize    = 64
)

// Load reads, parses, and validates the configuration file, applying
// defaults for optional fields.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(raw)
}

// Parse is Load without the file I/O.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	b := &cfg.Bridge
	if b.Baud == 0 {
		b.Baud = DefaultBaud
	}
	if b.PollIntervalUs == 0 {
		b.PollIntervalUs = DefaultPollIntervalUs
	}
	if b.ChannelSize == 0 {
		b.ChannelSize = DefaultChannelSize
	}
	if b.LogLevel == "" {
		b.LogLevel = "info"
	}
}

// PollInterval returns the loop cadence as a duration.
func (b BridgeConfig) PollInterval() time.Duration {
	return time.Duration(b.PollIntervalUs) * time.Microsecond
}
