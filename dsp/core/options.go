package core

// ProcessorConfig defines the sampling settings shared by windowed analyses.
type ProcessorConfig struct {
	SampleRate    float64
	WindowSeconds float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults used for 128 Hz EEG headsets:
// 4 second analysis windows.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:    128,
		WindowSeconds: 4,
	}
}

// WithSampleRate sets the sampling rate in samples per second.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithWindowSeconds sets the analysis window length in seconds.
func WithWindowSeconds(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 {
			cfg.WindowSeconds = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WindowSamples returns the window length in samples, truncated toward zero.
func (c ProcessorConfig) WindowSamples() int {
	return int(c.SampleRate * c.WindowSeconds)
}

// Bins returns the number of one-sided spectrum bins kept per window.
func (c ProcessorConfig) Bins() int {
	return c.WindowSamples() / 2
}

// BinHz returns the spacing between adjacent spectrum bins.
func (c ProcessorConfig) BinHz() float64 {
	n := c.WindowSamples()
	if n <= 0 {
		return 0
	}
	return c.SampleRate / float64(n)
}
