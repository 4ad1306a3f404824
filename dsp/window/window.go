// Package window generates the cosine tapers applied to EEG analysis windows
// and Welch segments before the FFT.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a taper.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// cosine-sum coefficients a0, a1 of w(x) = a0 + a1·cos(2πx).
var coeffs = map[Type][2]float64{
	TypeHann:    {0.5, -0.5},
	TypeHamming: {0.54, -0.46},
}

// Option configures taper generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form (denominator N) instead of the
// symmetric form (denominator N-1).
//
// Welch segment tapers use the periodic form; tapers applied to a whole
// analysis window use the symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns the taper coefficients of the given length.
// A length of one yields a single unit coefficient; unknown types are
// rectangular.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	c, ok := coeffs[t]
	if !ok || length == 1 {
		for i := range out {
			out[i] = 1
		}
		return out
	}

	den := float64(length - 1)
	if cfg.periodic {
		den = float64(length)
	}
	for i := range out {
		out[i] = c[0] + c[1]*math.Cos(2*math.Pi*float64(i)/den)
	}
	return out
}

// Taper multiplies fixed-length blocks by precomputed coefficients.
type Taper struct {
	typ    Type
	coeffs []float64
}

// NewTaper precomputes a taper of the given length. A rectangular taper
// holds no coefficients and copies its input.
func NewTaper(t Type, length int, opts ...Option) *Taper {
	w := &Taper{typ: t}
	if _, ok := coeffs[t]; ok {
		w.coeffs = Generate(t, length, opts...)
	}
	return w
}

// Type returns the taper type.
func (w *Taper) Type() Type { return w.typ }

// Apply writes src multiplied by the taper into dst. dst, src and the
// taper must have the same length.
func (w *Taper) Apply(dst, src []float64) {
	if w.coeffs == nil {
		copy(dst, src)
		return
	}
	vecmath.MulBlock(dst, src, w.coeffs)
}

// ApplyInPlace multiplies buf by the taper.
func (w *Taper) ApplyInPlace(buf []float64) {
	if w.coeffs == nil {
		return
	}
	vecmath.MulBlockInPlace(buf, w.coeffs)
}
