package quality

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/montanaflynn/stats"
)

// Default gate thresholds.
const (
	DefaultBoundsSigma    = 3.0
	DefaultBlinkThreshold = 0.5
	DefaultMinQuality     = 1
	DefaultSpikeCutoff    = 200.0
)

// ErrTooFewValues is returned when bounds are requested for fewer than two
// values.
var ErrTooFewValues = fmt.Errorf("quality: need at least 2 values for bounds: %w", core.ErrInsufficientData)

// Gate holds the thresholds a window must satisfy to be accepted.
type Gate struct {
	// BoundsSigma is the multiple of the sample standard deviation around
	// the mean that the whole window must stay within.
	BoundsSigma float64
	// BlinkThreshold is the largest blink score tolerated in a window.
	BlinkThreshold float64
	// MinQuality must be strictly exceeded by every quality code.
	MinQuality int
	// SpikeCutoff is the exclusive upper limit for max-min of a window.
	SpikeCutoff float64
}

// DefaultGate returns the standard thresholds.
func DefaultGate() Gate {
	return Gate{
		BoundsSigma:    DefaultBoundsSigma,
		BlinkThreshold: DefaultBlinkThreshold,
		MinQuality:     DefaultMinQuality,
		SpikeCutoff:    DefaultSpikeCutoff,
	}
}

// Bounds returns mean ∓ 3 sample standard deviations of x.
func Bounds(x []float64) (lower, upper float64, err error) {
	return BoundsSigma(x, DefaultBoundsSigma)
}

// BoundsSigma returns mean ∓ k sample standard deviations of x.
func BoundsSigma(x []float64, k float64) (lower, upper float64, err error) {
	if len(x) < 2 {
		return 0, 0, ErrTooFewValues
	}

	mean, err := stats.Mean(x)
	if err != nil {
		return 0, 0, fmt.Errorf("quality: bounds mean: %w", err)
	}
	sd, err := stats.StandardDeviationSample(x)
	if err != nil {
		return 0, 0, fmt.Errorf("quality: bounds stddev: %w", err)
	}

	return mean - k*sd, mean + k*sd, nil
}

// Bounds computes the gate's amplitude bounds for a whole series.
func (g Gate) Bounds(x []float64) (lower, upper float64, err error) {
	return BoundsSigma(x, g.BoundsSigma)
}

// BoundsOK reports whether every sample of window lies in [lower, upper].
func BoundsOK(window []float64, lower, upper float64) bool {
	if len(window) == 0 {
		return false
	}
	return slices.Min(window) >= lower && slices.Max(window) <= upper
}

// BlinkOK reports whether no blink score in the window exceeds the threshold.
func (g Gate) BlinkOK(blink []float64) bool {
	if len(blink) == 0 {
		return false
	}
	return slices.Max(blink) <= g.BlinkThreshold
}

// QualOK reports whether every quality code exceeds MinQuality.
func (g Gate) QualOK(codes []int) bool {
	if len(codes) == 0 {
		return false
	}
	return slices.Min(codes) > g.MinQuality
}

// SpikeOK reports whether the peak-to-peak amplitude stays below the cutoff.
func (g Gate) SpikeOK(window []float64) bool {
	if len(window) == 0 {
		return false
	}
	return slices.Max(window)-slices.Min(window) < g.SpikeCutoff
}
