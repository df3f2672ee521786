package jitter

import (
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds the settings for a Buffer.
type Config struct {
	Depth    int
	Interval time.Duration
	Capacity int // 0 = unbounded
}

func DefaultConfig() Config {
	return Config{
		Depth:    6,
		Interval: 20 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	if c.Depth <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, c.Depth)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, c.Interval)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("jitter: capacity must not be negative: got %d", c.Capacity)
	}
	return nil
}

// Latency is the maximum arrival variation the buffer absorbs.
func (c Config) Latency() time.Duration {
	return time.Duration(c.Depth) * c.Interval
}

type yamlConfig struct {
	Depth    int    `yaml:"depth"`
	Interval string `yaml:"interval"`
	Capacity int    `yaml:"capacity"`
}

// ParseConfig decodes a YAML document such as
//
//	depth: 6
//	interval: 20ms
//
// Missing fields keep their DefaultConfig values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("jitter: parse config: %w", err)
	}

	if raw.Depth != 0 {
		cfg.Depth = raw.Depth
	}
	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return Config{}, fmt.Errorf("jitter: parse interval %q: %w", raw.Interval, err)
		}
		cfg.Interval = d
	}
	cfg.Capacity = raw.Capacity

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
