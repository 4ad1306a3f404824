package analysis

import (
	"runtime"

	"github.com/cwbudde/algo-qeeg/measure/bands"
	"github.com/cwbudde/algo-qeeg/measure/iaf"
	"github.com/cwbudde/algo-qeeg/measure/qeeg"
	"github.com/sirupsen/logrus"
)

// DefaultMinSamples is the number of accepted windows a channel needs to
// enter the whole-head and network aggregates.
const DefaultMinSamples = 33

// DefaultIAFChannels are the occipital channels the whole-head alpha
// frequency is taken from.
var DefaultIAFChannels = []string{"O1", "O2"}

// Config controls a full analysis run.
type Config struct {
	// Estimator configures the spectral and coherence estimators. Its
	// sample rate is replaced by the recording's.
	Estimator qeeg.Config
	// BandMethod selects the band scheme.
	BandMethod bands.Method
	// MinSamples is the minimum number of accepted windows per channel.
	MinSamples int
	// IAFChannels lists the channels averaged into the whole-head IAF.
	IAFChannels []string
	// AlphaLower and AlphaUpper bound the IAF search band in Hz.
	AlphaLower float64
	AlphaUpper float64
	// Prominence is the minimum IAF peak prominence.
	Prominence float64
	// Workers bounds the number of concurrent estimator tasks. Zero or
	// less uses GOMAXPROCS.
	Workers int
	// Logger receives exclusion and failure reports.
	Logger logrus.FieldLogger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() Config {
	return Config{
		Estimator:   qeeg.DefaultConfig(),
		BandMethod:  bands.IBIW,
		MinSamples:  DefaultMinSamples,
		IAFChannels: append([]string(nil), DefaultIAFChannels...),
		AlphaLower:  iaf.DefaultAlphaLower,
		AlphaUpper:  iaf.DefaultAlphaUpper,
		Prominence:  iaf.DefaultProminence,
		Logger:      logrus.StandardLogger(),
	}
}

// ApplyOptions applies opts on top of DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEstimator applies estimator options.
func WithEstimator(opts ...qeeg.Option) Option {
	return func(c *Config) {
		for _, opt := range opts {
			opt(&c.Estimator)
		}
	}
}

// WithBandMethod sets the band scheme.
func WithBandMethod(m bands.Method) Option {
	return func(c *Config) {
		c.BandMethod = m
	}
}

// WithMinSamples sets the minimum number of accepted windows per channel.
func WithMinSamples(n int) Option {
	return func(c *Config) {
		c.MinSamples = n
	}
}

// WithIAFChannels sets the channels used for the whole-head IAF.
func WithIAFChannels(names ...string) Option {
	return func(c *Config) {
		c.IAFChannels = append([]string(nil), names...)
	}
}

// WithAlphaBand sets the IAF search band.
func WithAlphaBand(lower, upper float64) Option {
	return func(c *Config) {
		c.AlphaLower = lower
		c.AlphaUpper = upper
	}
}

// WithProminence sets the minimum IAF peak prominence.
func WithProminence(p float64) Option {
	return func(c *Config) {
		c.Prominence = p
	}
}

// WithWorkers bounds task concurrency.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

func (c Config) iafOptions() []iaf.Option {
	return []iaf.Option{
		iaf.WithAlphaBand(c.AlphaLower, c.AlphaUpper),
		iaf.WithProminence(c.Prominence),
	}
}
