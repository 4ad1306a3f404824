package qeeg

import (
	"fmt"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/dsp/detrend"
	"github.com/cwbudde/algo-qeeg/dsp/spectrum"
	"github.com/cwbudde/algo-qeeg/measure/quality"
	"github.com/cwbudde/algo-vecmath"
)

// AnalyzeCoherence computes the gated mean coherence between a and b.
//
// Both channels are detrended against the shared motion streams and get
// their own amplitude bounds. A window is accepted when both channels stay
// within their bounds and pass the quality check, and the shared blink
// stream passes the blink check. The spike cutoff is not applied.
//
// Within a window coherence is estimated with Welch's method: periodic Hann
// segments of up to 256 samples with 50% overlap, zero-padded to the window
// length so the bins match Frequencies.
func AnalyzeCoherence(a, b Channel, side Side, opts ...Option) (Coherence, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return Coherence{}, err
	}

	n := min(len(a.Series), len(b.Series))
	if err := checkSide(n, len(side.Blink), min(len(a.Quality), len(b.Quality))); err != nil {
		return Coherence{}, err
	}

	s1, err := detrend.Detrend(a.Series, side.MotionX, side.MotionY)
	if err != nil {
		return Coherence{}, fmt.Errorf("qeeg: coherence: %w", err)
	}
	s2, err := detrend.Detrend(b.Series, side.MotionX, side.MotionY)
	if err != nil {
		return Coherence{}, fmt.Errorf("qeeg: coherence: %w", err)
	}

	lower1, upper1, err := cfg.Gate.Bounds(s1)
	if err != nil {
		return Coherence{}, fmt.Errorf("qeeg: coherence: %w", err)
	}
	lower2, upper2, err := cfg.Gate.Bounds(s2)
	if err != nil {
		return Coherence{}, fmt.Errorf("qeeg: coherence: %w", err)
	}

	size := cfg.WindowSamples()
	welch, err := spectrum.NewWelch(size, spectrum.WelchConfig{
		SegmentLength: spectrum.DefaultSegmentLength,
		Overlap:       -1,
		NFFT:          size,
	})
	if err != nil {
		return Coherence{}, fmt.Errorf("qeeg: coherence: %w", err)
	}

	taper := cfg.taper(size)

	bins := cfg.Bins() - 1
	work := getScratch(size, welch.Bins())
	defer putScratch(work)

	sum := make([]float64, bins)
	msc, buf1, buf2 := work.bins, work.win1, work.win2
	good := 0

	for start := 0; start < n-size; start += cfg.Step() {
		sub1 := core.Window(s1, start, size)
		sub2 := core.Window(s2, start, size)
		if !quality.BoundsOK(sub1, lower1, upper1) ||
			!quality.BoundsOK(sub2, lower2, upper2) ||
			!cfg.Gate.BlinkOK(core.Window(side.Blink, start, size)) ||
			!cfg.Gate.QualOK(core.Window(a.Quality, start, size)) ||
			!cfg.Gate.QualOK(core.Window(b.Quality, start, size)) {
			continue
		}

		good++
		taper.Apply(buf1, sub1)
		taper.Apply(buf2, sub2)

		if err := welch.Coherence(msc, buf1, buf2); err != nil {
			return Coherence{}, fmt.Errorf("qeeg: coherence: %w", err)
		}
		vecmath.AddBlockInPlace(sum, msc[1:1+bins])
	}

	res := Coherence{GoodSamples: good}
	if good == 0 {
		return res, ErrNoAcceptedWindows
	}

	vecmath.ScaleBlockInPlace(sum, 1/float64(good))
	res.Values = sum

	return res, nil
}
