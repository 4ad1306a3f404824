package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// FFT computes forward transforms of real windows of a fixed length.
type FFT struct {
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
}

// NewFFT creates a transform for windows of n samples. Any n >= 2 is
// supported; non power-of-two sizes use the Bluestein path of algo-fft.
func NewFFT(n int) (*FFT, error) {
	if n < 2 {
		return nil, ErrInvalidSize
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	return &FFT{
		plan: plan,
		in:   make([]complex128, n),
		out:  make([]complex128, n),
	}, nil
}

// Len returns the transform size.
func (f *FFT) Len() int { return len(f.in) }

// Transform computes the complex spectrum of x. The returned slice is owned
// by f and is overwritten by the next call.
func (f *FFT) Transform(x []float64) ([]complex128, error) {
	if len(x) != len(f.in) {
		return nil, fmt.Errorf("%w: window %d, transform %d", ErrLengthMismatch, len(x), len(f.in))
	}

	for i, v := range x {
		f.in[i] = complex(v, 0)
	}

	if err := f.plan.Forward(f.out, f.in); err != nil {
		return nil, fmt.Errorf("spectrum: forward fft: %w", err)
	}

	return f.out, nil
}

// RealPower writes the squared real part of the first len(dst) bins of the
// transform of x into dst.
//
// The imaginary part is discarded.
func (f *FFT) RealPower(dst, x []float64) error {
	if len(dst) > len(f.in) {
		return fmt.Errorf("%w: %d bins requested from %d-point transform", ErrLengthMismatch, len(dst), len(f.in))
	}

	bins, err := f.Transform(x)
	if err != nil {
		return err
	}

	for k := range dst {
		re := real(bins[k])
		dst[k] = re * re
	}

	return nil
}
