package qeeg

import (
	"fmt"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/dsp/window"
	"github.com/cwbudde/algo-qeeg/measure/quality"
)

// DefaultSliding is the default stride as a fraction of the window length.
const DefaultSliding = 0.75

// Config holds the windowing and gating parameters of both estimators.
type Config struct {
	core.ProcessorConfig

	// Sliding is the window stride as a fraction of the window length.
	Sliding float64
	// Hamming enables a symmetric Hamming taper on every accepted window.
	Hamming bool
	// Gate holds the artifact thresholds.
	Gate quality.Gate
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns 128 Hz sampling, 4 s windows, a 0.75 stride, a
// Hamming taper and the default gate.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Sliding:         DefaultSliding,
		Hamming:         true,
		Gate:            quality.DefaultGate(),
	}
}

// ApplyOptions applies opts on top of DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSampleRate sets the sampling rate in Hz.
func WithSampleRate(hz float64) Option {
	return func(c *Config) {
		core.WithSampleRate(hz)(&c.ProcessorConfig)
	}
}

// WithWindowSeconds sets the analysis window length in seconds.
func WithWindowSeconds(seconds float64) Option {
	return func(c *Config) {
		core.WithWindowSeconds(seconds)(&c.ProcessorConfig)
	}
}

// WithSliding sets the window stride as a fraction of the window length.
func WithSliding(fraction float64) Option {
	return func(c *Config) {
		c.Sliding = fraction
	}
}

// WithHamming enables or disables the Hamming taper.
func WithHamming(enabled bool) Option {
	return func(c *Config) {
		c.Hamming = enabled
	}
}

// WithGate replaces the artifact gate thresholds.
func WithGate(g quality.Gate) Option {
	return func(c *Config) {
		c.Gate = g
	}
}

// taper returns the window taper: Hamming when enabled, rectangular
// otherwise.
func (c Config) taper(size int) *window.Taper {
	if c.Hamming {
		return window.NewTaper(window.TypeHamming, size)
	}
	return window.NewTaper(window.TypeRectangular, size)
}

// Step returns the window stride in samples.
func (c Config) Step() int {
	return int(c.SampleRate * c.WindowSeconds * c.Sliding)
}

// Validate reports configurations that cannot produce a window sequence.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, c.SampleRate)
	}
	if c.WindowSamples() < 2 {
		return fmt.Errorf("%w: window of %d samples", ErrInvalidConfig, c.WindowSamples())
	}
	if c.Step() < 1 {
		return fmt.Errorf("%w: stride of %d samples", ErrInvalidConfig, c.Step())
	}
	return nil
}
