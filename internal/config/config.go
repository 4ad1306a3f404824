// Package config loads the qeeg command configuration from a TOML or YAML
// file, a .env file and QEEG_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-qeeg/analysis"
	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/measure/bands"
	"github.com/cwbudde/algo-qeeg/measure/iaf"
	"github.com/cwbudde/algo-qeeg/measure/qeeg"
	"github.com/cwbudde/algo-qeeg/measure/quality"
	"github.com/cwbudde/algo-qeeg/montage"
	"github.com/cwbudde/algo-qeeg/recording"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. QEEG_WINDOW.
const EnvPrefix = "QEEG"

// DefaultName is the config file base name searched for when no path is
// given.
const DefaultName = "qeeg"

// ErrInvalid is returned for settings that no component can accept.
var ErrInvalid = fmt.Errorf("config: invalid configuration: %w", core.ErrInvalidConfiguration)

// Gate mirrors quality.Gate.
type Gate struct {
	BoundsSigma    float64 `mapstructure:"bounds_sigma"`
	BlinkThreshold float64 `mapstructure:"blink_threshold"`
	MinQuality     int     `mapstructure:"min_quality"`
	SpikeCutoff    float64 `mapstructure:"spike_cutoff"`
}

// Config is the complete command configuration.
type Config struct {
	Sampling    float64  `mapstructure:"sampling"`
	Window      float64  `mapstructure:"window"`
	Sliding     float64  `mapstructure:"sliding"`
	Hamming     bool     `mapstructure:"hamming"`
	BandMethod  string   `mapstructure:"band_method"`
	MinSamples  int      `mapstructure:"min_samples"`
	AlphaLower  float64  `mapstructure:"alpha_lower"`
	AlphaUpper  float64  `mapstructure:"alpha_upper"`
	Prominence  float64  `mapstructure:"prominence"`
	IAFChannels []string `mapstructure:"iaf_channels"`
	Workers     int      `mapstructure:"workers"`
	LogLevel    string   `mapstructure:"log_level"`
	OutputDir   string   `mapstructure:"output_dir"`
	Gate        Gate     `mapstructure:"gate"`

	// Channels and Motion describe a file written by recording.WriteEDF.
	// They are ignored when Layout lists channels.
	Channels []string `mapstructure:"channels"`
	Motion   bool     `mapstructure:"motion"`

	Layout  recording.Layout `mapstructure:"layout"`
	Montage montage.Montage  `mapstructure:"montage"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sampling", 128.0)
	v.SetDefault("window", 4.0)
	v.SetDefault("sliding", qeeg.DefaultSliding)
	v.SetDefault("hamming", true)
	v.SetDefault("band_method", bands.IBIW.String())
	v.SetDefault("min_samples", analysis.DefaultMinSamples)
	v.SetDefault("alpha_lower", iaf.DefaultAlphaLower)
	v.SetDefault("alpha_upper", iaf.DefaultAlphaUpper)
	v.SetDefault("prominence", iaf.DefaultProminence)
	v.SetDefault("iaf_channels", analysis.DefaultIAFChannels)
	v.SetDefault("workers", 0)
	v.SetDefault("log_level", logrus.InfoLevel.String())
	v.SetDefault("output_dir", ".")
	v.SetDefault("gate.bounds_sigma", quality.DefaultBoundsSigma)
	v.SetDefault("gate.blink_threshold", quality.DefaultBlinkThreshold)
	v.SetDefault("gate.min_quality", quality.DefaultMinQuality)
	v.SetDefault("gate.spike_cutoff", quality.DefaultSpikeCutoff)
	v.SetDefault("channels", []string{})
	v.SetDefault("motion", false)
}

// Load reads the configuration. A .env file in the working directory is
// applied to the environment first if present. With an empty path the file
// "qeeg" is searched for in ./config and ., and a missing file is not an
// error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultName)
		v.AddConfigPath("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.complete()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// complete fills the derived sections.
func (c *Config) complete() {
	if len(c.Layout.Channels) == 0 && len(c.Channels) > 0 {
		c.Layout = recording.StandardLayout(c.Channels, c.Sampling, c.Motion)
	}
	if c.Layout.SampleRate == 0 {
		c.Layout.SampleRate = c.Sampling
	}
	if len(c.Montage.Networks) == 0 {
		c.Montage = montage.Default()
	}
}

// Validate checks the parts of the configuration that can be checked
// without a recording.
func (c *Config) Validate() error {
	if _, err := c.Method(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Montage.Validate(); err != nil {
		return err
	}
	if c.AlphaLower >= c.AlphaUpper {
		return fmt.Errorf("%w: alpha band %v-%v", ErrInvalid, c.AlphaLower, c.AlphaUpper)
	}
	return c.estimator().Validate()
}

// Method parses BandMethod.
func (c *Config) Method() (bands.Method, error) {
	return bands.ParseMethod(c.BandMethod)
}

// Level parses LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}

func (c *Config) estimator() qeeg.Config {
	return qeeg.ApplyOptions(
		qeeg.WithSampleRate(c.Sampling),
		qeeg.WithWindowSeconds(c.Window),
		qeeg.WithSliding(c.Sliding),
		qeeg.WithHamming(c.Hamming),
		qeeg.WithGate(quality.Gate(c.Gate)),
	)
}

// AnalysisOptions converts the configuration into analysis options.
func (c *Config) AnalysisOptions(logger logrus.FieldLogger) ([]analysis.Option, error) {
	method, err := c.Method()
	if err != nil {
		return nil, err
	}

	est := c.estimator()
	return []analysis.Option{
		analysis.WithEstimator(func(q *qeeg.Config) { *q = est }),
		analysis.WithBandMethod(method),
		analysis.WithMinSamples(c.MinSamples),
		analysis.WithIAFChannels(c.IAFChannels...),
		analysis.WithAlphaBand(c.AlphaLower, c.AlphaUpper),
		analysis.WithProminence(c.Prominence),
		analysis.WithWorkers(c.Workers),
		analysis.WithLogger(logger),
	}, nil
}
