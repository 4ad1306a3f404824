package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by spectrum estimators.
var (
	ErrInvalidSize    = fmt.Errorf("spectrum: transform size must be >= 2: %w", core.ErrInvalidConfiguration)
	ErrLengthMismatch = fmt.Errorf("spectrum: input lengths do not match: %w", core.ErrInvalidConfiguration)
)

// PowerFromParts writes re[k]² + im[k]² into dst. All three slices must
// have the same length.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// Frequencies returns the centre frequency in Hz of the first count bins of
// an n-point transform sampled at sampleRate.
func Frequencies(n int, sampleRate float64, count int) []float64 {
	if n <= 0 || count <= 0 {
		return nil
	}

	out := make([]float64, count)
	for k := range out {
		out[k] = float64(k) * sampleRate / float64(n)
	}
	return out
}
