package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// DefaultSegmentLength is the Welch segment length used when none is given.
const DefaultSegmentLength = 256

// WelchConfig configures Welch cross-spectral estimation.
type WelchConfig struct {
	// SegmentLength is the number of samples per segment. It is clamped to
	// the input length. Zero selects DefaultSegmentLength.
	SegmentLength int
	// Overlap is the number of samples shared by consecutive segments.
	// Negative selects half of the segment length.
	Overlap int
	// NFFT is the zero-padded transform size. Zero selects the segment
	// length. It must not be smaller than the segment length.
	NFFT int
}

// Welch estimates magnitude-squared coherence between two equal-length
// signals by averaging periodic-Hann segment spectra.
type Welch struct {
	segment int
	step    int
	fft     *FFT
	taper   *window.Taper

	seg      []float64
	re, im   []float64
	xRe, xIm []float64
	pxx, pyy []float64
	pxyRe    []float64
	pxyIm    []float64
	scratch  []float64
}

// NewWelch prepares a Welch estimator for inputs of inputLen samples.
func NewWelch(inputLen int, cfg WelchConfig) (*Welch, error) {
	if inputLen < 2 {
		return nil, ErrInvalidSize
	}

	segment := cfg.SegmentLength
	if segment <= 0 {
		segment = DefaultSegmentLength
	}
	if segment > inputLen {
		segment = inputLen
	}

	overlap := cfg.Overlap
	if overlap < 0 {
		overlap = segment / 2
	}
	if overlap >= segment {
		return nil, fmt.Errorf("spectrum: welch overlap %d must be < segment %d: %w",
			overlap, segment, core.ErrInvalidConfiguration)
	}

	nfft := cfg.NFFT
	if nfft == 0 {
		nfft = segment
	}
	if nfft < segment {
		return nil, fmt.Errorf("spectrum: welch nfft %d must be >= segment %d: %w",
			nfft, segment, core.ErrInvalidConfiguration)
	}

	fft, err := NewFFT(nfft)
	if err != nil {
		return nil, err
	}

	bins := nfft/2 + 1

	return &Welch{
		segment: segment,
		step:    segment - overlap,
		fft:     fft,
		taper:   window.NewTaper(window.TypeHann, segment, window.WithPeriodic()),
		seg:     make([]float64, nfft),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
		xRe:     make([]float64, bins),
		xIm:     make([]float64, bins),
		pxx:     make([]float64, bins),
		pyy:     make([]float64, bins),
		pxyRe:   make([]float64, bins),
		pxyIm:   make([]float64, bins),
		scratch: make([]float64, bins),
	}, nil
}

// Bins returns the number of one-sided bins produced by Coherence.
func (w *Welch) Bins() int { return len(w.pxx) }

// Segments returns the number of segments averaged for an input of n samples.
func (w *Welch) Segments(n int) int {
	if n < w.segment {
		return 0
	}
	return (n-w.segment)/w.step + 1
}

// Coherence writes |Pxy|^2 / (Pxx*Pyy) for every one-sided bin into dst.
//
// Each segment has its mean removed before tapering. Density scaling and the
// one-sided doubling cancel in the ratio and are not applied. Bins where
// either auto spectrum is zero yield NaN.
func (w *Welch) Coherence(dst, x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(dst) != w.Bins() {
		return fmt.Errorf("%w: dst %d, bins %d", ErrLengthMismatch, len(dst), w.Bins())
	}

	segments := w.Segments(len(x))
	if segments == 0 {
		return fmt.Errorf("spectrum: welch input of %d samples is shorter than segment %d: %w",
			len(x), w.segment, core.ErrInsufficientData)
	}

	clear(w.pxx)
	clear(w.pyy)
	clear(w.pxyRe)
	clear(w.pxyIm)

	for s := 0; s < segments; s++ {
		start := s * w.step

		if err := w.transformSegment(x[start:start+w.segment], w.xRe, w.xIm); err != nil {
			return err
		}
		if err := w.transformSegment(y[start:start+w.segment], w.re, w.im); err != nil {
			return err
		}

		PowerFromParts(w.scratch, w.xRe, w.xIm)
		vecmath.AddBlockInPlace(w.pxx, w.scratch)
		PowerFromParts(w.scratch, w.re, w.im)
		vecmath.AddBlockInPlace(w.pyy, w.scratch)

		// conj(X) * Y
		for k := range w.pxyRe {
			w.pxyRe[k] += w.xRe[k]*w.re[k] + w.xIm[k]*w.im[k]
			w.pxyIm[k] += w.xRe[k]*w.im[k] - w.xIm[k]*w.re[k]
		}
	}

	for k := range dst {
		num := w.pxyRe[k]*w.pxyRe[k] + w.pxyIm[k]*w.pxyIm[k]
		den := w.pxx[k] * w.pyy[k]
		if den == 0 {
			dst[k] = math.NaN()
			continue
		}
		dst[k] = num / den
	}

	return nil
}

func (w *Welch) transformSegment(src, re, im []float64) error {
	mean := 0.0
	for _, v := range src {
		mean += v
	}
	mean /= float64(len(src))

	clear(w.seg)
	seg := w.seg[:len(src)]
	for i, v := range src {
		seg[i] = v - mean
	}
	w.taper.ApplyInPlace(seg)

	bins, err := w.fft.Transform(w.seg)
	if err != nil {
		return err
	}

	for k := range re {
		re[k] = real(bins[k])
		im[k] = imag(bins[k])
	}

	return nil
}
