// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration shared by the runtime and
// the amrtool command.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audamr/bridge"
	"github.com/ik5/audamr/codec/amrnb"
	"github.com/ik5/audamr/hostaudio"
)

type Config struct {
	Codec    CodecConfig    `yaml:"codec"`
	Playback PlaybackConfig `yaml:"playback"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CodecConfig controls the codec bridge and the AMR encoder.
type CodecConfig struct {
	Mode    string `yaml:"mode"`     // auto, worker or inline
	Workers int    `yaml:"workers"`  // worker mode pool size
	AMRMode string `yaml:"amr_mode"` // MR475 .. MR122, or 0 .. 7
	DTX     bool   `yaml:"dtx"`
}

type PlaybackConfig struct {
	DefaultSampleRate int `yaml:"default_sample_rate"`
	// EngineSampleRate is the host output rate; decoded foreign formats
	// are resampled to it.
	EngineSampleRate int `yaml:"engine_sample_rate"`
	// MinSampleRate makes the engine refuse buffers below it.
	MinSampleRate int  `yaml:"min_sample_rate"`
	NullBackend   bool `yaml:"null_backend"`
}

type CaptureConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

type MetricsConfig struct {
	Address string `yaml:"address"` // empty disables the endpoint
}

// Default returns a configuration that validates.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			Mode:    "auto",
			Workers: 1,
			AMRMode: "MR122",
		},
		Playback: PlaybackConfig{
			DefaultSampleRate: 8000,
			EngineSampleRate:  48000,
		},
		Capture: CaptureConfig{
			Channels: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Codec.Validate(); err != nil {
		return fmt.Errorf("codec config: %w", err)
	}
	if err := c.Playback.Validate(); err != nil {
		return fmt.Errorf("playback config: %w", err)
	}
	if err := c.Capture.Validate(); err != nil {
		return fmt.Errorf("capture config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func (c *CodecConfig) Validate() error {
	if _, err := bridge.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Workers < 1 || c.Workers > 64 {
		return fmt.Errorf("workers must be between 1 and 64, got %d", c.Workers)
	}
	if _, err := amrnb.ParseMode(c.AMRMode); err != nil {
		return err
	}
	return nil
}

// BridgeMode returns the parsed bridge mode. Call Validate first.
func (c *CodecConfig) BridgeMode() bridge.Mode {
	m, _ := bridge.ParseMode(c.Mode)
	return m
}

// EncoderMode returns the parsed AMR mode. Call Validate first.
func (c *CodecConfig) EncoderMode() amrnb.Mode {
	m, err := amrnb.ParseMode(c.AMRMode)
	if err != nil {
		return amrnb.DefaultMode
	}
	return m
}

func (p *PlaybackConfig) Validate() error {
	if p.DefaultSampleRate < 1 || p.DefaultSampleRate > hostaudio.MaxSampleRate {
		return fmt.Errorf("default_sample_rate must be between 1 and %d, got %d", hostaudio.MaxSampleRate, p.DefaultSampleRate)
	}
	if p.EngineSampleRate < 8000 || p.EngineSampleRate > hostaudio.MaxSampleRate {
		return fmt.Errorf("engine_sample_rate must be between 8000 and %d, got %d", hostaudio.MaxSampleRate, p.EngineSampleRate)
	}
	if p.MinSampleRate < 0 || p.MinSampleRate > p.EngineSampleRate {
		return fmt.Errorf("min_sample_rate must be between 0 and engine_sample_rate, got %d", p.MinSampleRate)
	}
	return nil
}

// HostConfig converts the playback and capture sections for hostaudio.Open.
func (c *Config) HostConfig() hostaudio.Config {
	return hostaudio.Config{
		SampleRate:        c.Playback.EngineSampleRate,
		MinSampleRate:     c.Playback.MinSampleRate,
		CaptureSampleRate: c.Capture.SampleRate,
		CaptureChannels:   c.Capture.Channels,
		NullBackend:       c.Playback.NullBackend,
	}
}

func (c *CaptureConfig) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > hostaudio.MaxSampleRate {
		return fmt.Errorf("sample_rate must be between 0 and %d, got %d", hostaudio.MaxSampleRate, c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > 8 {
		return fmt.Errorf("channels must be between 1 and 8, got %d", c.Channels)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
	switch l.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", l.Format)
	}
	return nil
}
