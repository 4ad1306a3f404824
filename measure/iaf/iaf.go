// Package iaf finds the individualized alpha frequency: the dominant
// spectral peak inside the alpha search band.
package iaf

import (
	"fmt"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/dsp/peaks"
	"github.com/cwbudde/algo-qeeg/measure/metric"
)

// Defaults for the alpha search.
const (
	DefaultAlphaLower = 7.0
	DefaultAlphaUpper = 15.0
	DefaultProminence = 0.2
)

// ErrLengthMismatch is returned when power and frequency axes differ in
// length.
var ErrLengthMismatch = fmt.Errorf("iaf: power and frequency lengths differ: %w", core.ErrInvalidConfiguration)

// Result is the alpha peak of one spectrum. Both fields are missing when
// the band holds no qualifying peak.
type Result struct {
	Power metric.Value
	Freq  metric.Value
}

// Found reports whether a peak was located.
func (r Result) Found() bool { return r.Freq.Valid() }

// Option configures Find.
type Option func(*config)

type config struct {
	lower, upper float64
	prominence   float64
}

// WithAlphaBand sets the inclusive search band in Hz.
func WithAlphaBand(lower, upper float64) Option {
	return func(c *config) {
		c.lower = lower
		c.upper = upper
	}
}

// WithProminence sets the minimum prominence a peak needs.
func WithProminence(p float64) Option {
	return func(c *config) {
		c.prominence = p
	}
}

// Find returns the highest peak of power whose frequency lies within the
// alpha band, inclusive at both ends. Peaks are located on the band-limited
// curve, so the band edges cannot be peaks. Equal heights keep the lowest
// frequency.
func Find(power, freq []float64, opts ...Option) (Result, error) {
	if len(power) != len(freq) {
		return Result{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(power), len(freq))
	}

	cfg := config{
		lower:      DefaultAlphaLower,
		upper:      DefaultAlphaUpper,
		prominence: DefaultProminence,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var bandPower, bandFreq []float64
	for i, f := range freq {
		if f >= cfg.lower && f <= cfg.upper {
			bandPower = append(bandPower, power[i])
			bandFreq = append(bandFreq, f)
		}
	}

	found := peaks.Find(bandPower, peaks.WithMinProminence(cfg.prominence))
	if len(found) == 0 {
		return Result{Power: metric.None(), Freq: metric.None()}, nil
	}

	best := found[0]
	for _, p := range found[1:] {
		if p.Height > best.Height {
			best = p
		}
	}

	return Result{
		Power: metric.Some(best.Height),
		Freq:  metric.Some(bandFreq[best.Index]),
	}, nil
}
