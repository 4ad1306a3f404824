package qeeg

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/dsp/spectrum"
)

// Errors returned by the estimators.
var (
	ErrNoAcceptedWindows = fmt.Errorf("qeeg: no window passed the quality gate: %w", core.ErrInsufficientData)
	ErrInvalidConfig     = fmt.Errorf("qeeg: invalid configuration: %w", core.ErrInvalidConfiguration)
	ErrLengthMismatch    = fmt.Errorf("qeeg: side channel shorter than series: %w", core.ErrInvalidConfiguration)
)

// Channel is one EEG series with its per-sample quality codes.
type Channel struct {
	Series  []float64
	Quality []int
}

// Side holds the streams shared by the channels of a recording. MotionX and
// MotionY are both nil when the headset has no motion sensor.
type Side struct {
	MotionX []float64
	MotionY []float64
	Blink   []float64
}

// Spectrum is the gated, window-averaged log power of one channel.
type Spectrum struct {
	// GoodSamples is the number of accepted windows.
	GoodSamples int
	// Power holds one natural-log power value per bin, Bins() in total.
	Power []float64
	// LongestQualitySegment is the longest run of top quality in seconds.
	LongestQualitySegment float64
}

// Coherence is the gated, window-averaged coherence of a channel pair.
type Coherence struct {
	GoodSamples int
	// Values holds one coherence value per bin above 0 Hz, Bins()-1 in
	// total.
	Values []float64
}

// Frequencies returns the frequency in Hz of each Spectrum.Power bin.
func Frequencies(cfg Config) []float64 {
	return spectrum.Frequencies(cfg.WindowSamples(), cfg.SampleRate, cfg.Bins())
}

// CoherenceFrequencies returns the frequency in Hz of each Coherence.Values
// bin.
func CoherenceFrequencies(cfg Config) []float64 {
	freq := Frequencies(cfg)
	if len(freq) == 0 {
		return nil
	}
	return freq[1:]
}

// IsNoAcceptedWindows reports whether err means that every window was
// rejected by the gate.
func IsNoAcceptedWindows(err error) bool {
	return errors.Is(err, ErrNoAcceptedWindows)
}

func checkSide(n, blink, qual int) error {
	if blink < n {
		return fmt.Errorf("%w: blink %d < %d", ErrLengthMismatch, blink, n)
	}
	if qual < n {
		return fmt.Errorf("%w: quality %d < %d", ErrLengthMismatch, qual, n)
	}
	return nil
}
