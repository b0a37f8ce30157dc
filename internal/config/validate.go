package config

import "fmt"

// Validate checks configuration correctness. It performs declarative
// validation only and does not mutate the configuration.
func Validate(cfg *Config) error {
	b := cfg.Bridge

	if b.Port == "" {
		return fmt.Errorf("config: bridge.port is required")
	}
	if b.Baud <= 0 {
		return fmt.Errorf("config: bridge.baud must be positive, got %d", b.Baud)
	}
	if b.PollIntervalUs <= 0 {
		return fmt.Errorf("config: bridge.poll_interval_us must be positive, got %d", b.PollIntervalUs)
	}
	if b.ChannelSize < 2 || b.ChannelSize&(b.ChannelSize-1) != 0 {
		return fmt.Errorf("config: bridge.channel_size must be a power of two >= 2, got %d", b.ChannelSize)
	}
	switch b.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: bridge.log_level %q is not one of debug, info, warn, error", b.LogLevel)
	}
	return nil
}
