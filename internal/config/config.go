// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of the denoise command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	ValidTransforms = []string{"passthrough", "rnnoise"}
	ValidPolicies   = []string{"warn", "reject", "resample"}
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"text", "json"}
)

type Config struct {
	// Transform selects the frame transform: "passthrough" or "rnnoise".
	Transform string `yaml:"transform"`

	// FrameSize is the transform frame length in samples.
	FrameSize int `yaml:"frame_size"`

	// SampleRate is the rate the transform expects, in Hz.
	SampleRate int `yaml:"sample_rate"`

	// SampleRatePolicy decides what happens to inputs at another rate:
	// "warn" processes them as-is, "reject" fails, "resample" converts.
	SampleRatePolicy string `yaml:"sample_rate_policy"`

	// RawSampleRate is the rate of headerless .raw/.pcm inputs; 0 means
	// SampleRate.
	RawSampleRate int `yaml:"raw_sample_rate"`

	// Workers bounds how many files are processed in parallel.
	Workers int `yaml:"workers"`

	// ProgressEvery logs progress every that many frames; 0 disables it.
	ProgressEvery int `yaml:"progress_every"`

	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Transform:        "passthrough",
		FrameSize:        480,
		SampleRate:       48000,
		SampleRatePolicy: "warn",
		Workers:          1,
		ProgressEvery:    100,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path on top of Default and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r on top of Default. Unknown keys are an
// error. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(ValidTransforms, c.Transform) {
		errs = append(errs, fmt.Errorf("transform %q is not one of %v", c.Transform, ValidTransforms))
	}
	if c.FrameSize <= 0 {
		errs = append(errs, fmt.Errorf("frame_size must be positive, got %d", c.FrameSize))
	}
	if c.Transform == "rnnoise" && c.FrameSize != 480 {
		errs = append(errs, fmt.Errorf("rnnoise requires frame_size 480, got %d", c.FrameSize))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate))
	}
	if c.Transform == "rnnoise" && c.SampleRate != 48000 {
		errs = append(errs, fmt.Errorf("rnnoise requires sample_rate 48000, got %d", c.SampleRate))
	}
	if !slices.Contains(ValidPolicies, c.SampleRatePolicy) {
		errs = append(errs, fmt.Errorf("sample_rate_policy %q is not one of %v", c.SampleRatePolicy, ValidPolicies))
	}
	if c.RawSampleRate < 0 {
		errs = append(errs, fmt.Errorf("raw_sample_rate must not be negative, got %d", c.RawSampleRate))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.ProgressEvery < 0 {
		errs = append(errs, fmt.Errorf("progress_every must not be negative, got %d", c.ProgressEvery))
	}
	if !slices.Contains(ValidLogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of %v", c.Logging.Level, ValidLogLevels))
	}
	if !slices.Contains(ValidLogFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format %q is not one of %v", c.Logging.Format, ValidLogFormats))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
