package detrend

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/internal/testutil"
)

func TestLinearRemovesExactLine(t *testing.T) {
	in := make([]float64, 1000)
	for i := range in {
		in[i] = 3.5*float64(i) - 120
	}

	out, err := Detrend(in, nil, nil)
	if err != nil {
		t.Fatalf("Detrend: %v", err)
	}

	testutil.RequireNear(t, out, make([]float64, len(in)), 1e-8)
}

func TestLinearIgnoresAddedLine(t *testing.T) {
	const n = 1024
	sine := testutil.Sine(8, 128, 10, n)

	in := make([]float64, n)
	for i := range in {
		in[i] = sine[i] + 0.01*float64(i) + 5
	}

	got, err := Linear(in)
	if err != nil {
		t.Fatalf("Linear: %v", err)
	}
	want, err := Linear(sine)
	if err != nil {
		t.Fatalf("Linear: %v", err)
	}

	testutil.RequireNear(t, got, want, 1e-9)
}

func TestLinearTwoSamples(t *testing.T) {
	out, err := Linear([]float64{4, 9})
	if err != nil {
		t.Fatalf("Linear: %v", err)
	}
	testutil.RequireNear(t, out, []float64{0, 0}, 1e-12)
}

func TestDetrendTooShort(t *testing.T) {
	for _, in := range [][]float64{nil, {1}} {
		_, err := Detrend(in, nil, nil)
		if !errors.Is(err, ErrTooShort) {
			t.Fatalf("len=%d err=%v want=%v", len(in), err, ErrTooShort)
		}
		if !errors.Is(err, core.ErrInsufficientData) {
			t.Fatalf("len=%d err=%v should wrap ErrInsufficientData", len(in), err)
		}
	}
}

func TestDetrendMotionMismatch(t *testing.T) {
	series := testutil.Noise(1, 1, 16)
	motion := testutil.Noise(2, 1, 16)

	tests := []struct {
		name   string
		mx, my []float64
	}{
		{"x only", motion, nil},
		{"y only", nil, motion},
		{"short x", motion[:8], motion},
		{"short y", motion, motion[:15]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Detrend(series, tc.mx, tc.my)
			if !errors.Is(err, ErrMotionMismatch) {
				t.Fatalf("err=%v want=%v", err, ErrMotionMismatch)
			}
			if !errors.Is(err, core.ErrInvalidConfiguration) {
				t.Fatalf("err=%v should wrap ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestDetrendRemovesMotionComponent(t *testing.T) {
	const n = 2048

	// Motion without its own linear trend, so the index fit leaves the
	// motion component untouched for the second stage.
	mx := detrended(t, testutil.Noise(10, 4, n))
	my := detrended(t, testutil.Noise(20, 2, n))

	in := make([]float64, n)
	for i := range in {
		in[i] = 1.5*mx[i] - 0.75*my[i] + 0.02*float64(i) + 7
	}

	out, err := Detrend(in, mx, my)
	if err != nil {
		t.Fatalf("Detrend: %v", err)
	}

	testutil.RequireNear(t, out, make([]float64, n), 1e-8)
}

func TestDetrendCollinearMotion(t *testing.T) {
	const n = 512

	mx := detrended(t, testutil.Noise(5, 1, n))
	my := make([]float64, n)
	for i := range mx {
		my[i] = 2 * mx[i]
	}

	in := make([]float64, n)
	for i := range in {
		in[i] = 3 * mx[i]
	}

	out, err := Detrend(in, mx, my)
	if err != nil {
		t.Fatalf("Detrend: %v", err)
	}

	testutil.RequireFinite(t, out)
	testutil.RequireNear(t, out, make([]float64, n), 1e-8)
}

func TestDetrendConstantMotion(t *testing.T) {
	series := testutil.Noise(3, 1, 64)
	flat := testutil.Constant(2, 64)

	withMotion, err := Detrend(series, flat, flat)
	if err != nil {
		t.Fatalf("Detrend: %v", err)
	}
	without, _ := Detrend(series, nil, nil)

	testutil.RequireNear(t, withMotion, without, 1e-12)
}

func TestDetrendDoesNotMutateInput(t *testing.T) {
	series := []float64{1, 4, 2, 8, 5, 7}
	mx := []float64{0, 1, 0, 1, 0, 1}
	my := []float64{1, 1, 2, 2, 3, 3}

	keep := append([]float64(nil), series...)
	keepX := append([]float64(nil), mx...)
	keepY := append([]float64(nil), my...)

	if _, err := Detrend(series, mx, my); err != nil {
		t.Fatalf("Detrend: %v", err)
	}

	testutil.RequireNear(t, series, keep, 0)
	testutil.RequireNear(t, mx, keepX, 0)
	testutil.RequireNear(t, my, keepY, 0)
}

func TestDetrendMotionWithOffset(t *testing.T) {
	const n = 4096

	// Raw accelerometer streams sit on a large offset.
	mx := detrended(t, testutil.Noise(30, 8, n))
	my := detrended(t, testutil.Noise(31, 8, n))
	for i := range mx {
		mx[i] += 1650
		my[i] += 1620
	}

	sine := testutil.Sine(10, 128, 20, n)
	in := make([]float64, n)
	for i := range in {
		in[i] = sine[i] + 0.8*mx[i] - 0.3*my[i] + 0.01*float64(i)
	}

	got, err := Detrend(in, mx, my)
	if err != nil {
		t.Fatalf("Detrend: %v", err)
	}
	testutil.RequireFinite(t, got)

	// The motion-free signal, projected off the same motion directions.
	want, err := Detrend(sine, mx, my)
	if err != nil {
		t.Fatalf("Detrend: %v", err)
	}
	testutil.RequireNear(t, got, want, 1e-7)
}

func detrended(t *testing.T, x []float64) []float64 {
	t.Helper()

	out, err := Linear(x)
	if err != nil {
		t.Fatalf("Linear: %v", err)
	}
	return out
}
