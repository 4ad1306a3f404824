package qeeg

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/dsp/detrend"
	"github.com/cwbudde/algo-qeeg/dsp/spectrum"
	"github.com/cwbudde/algo-qeeg/measure/quality"
	"github.com/cwbudde/algo-vecmath"
)

// AnalyzeSpectrum computes the gated log power spectrum of ch.
//
// A window is accepted when it lies within the channel's amplitude bounds,
// its blink scores and quality codes pass the gate, and its peak-to-peak
// amplitude stays below the spike cutoff. The last window that would end
// exactly at the end of the series is not visited.
//
// When no window is accepted the returned Spectrum carries GoodSamples 0,
// a nil Power and the longest quality segment, together with
// ErrNoAcceptedWindows.
func AnalyzeSpectrum(ch Channel, side Side, opts ...Option) (Spectrum, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return Spectrum{}, err
	}

	n := len(ch.Series)
	if err := checkSide(n, len(side.Blink), len(ch.Quality)); err != nil {
		return Spectrum{}, err
	}

	res := Spectrum{
		LongestQualitySegment: quality.LongestSegment(ch.Quality, cfg.SampleRate),
	}

	series, err := detrend.Detrend(ch.Series, side.MotionX, side.MotionY)
	if err != nil {
		return res, fmt.Errorf("qeeg: spectrum: %w", err)
	}

	lower, upper, err := cfg.Gate.Bounds(series)
	if err != nil {
		return res, fmt.Errorf("qeeg: spectrum: %w", err)
	}

	size := cfg.WindowSamples()
	fft, err := spectrum.NewFFT(size)
	if err != nil {
		return res, fmt.Errorf("qeeg: spectrum: %w", err)
	}

	taper := cfg.taper(size)

	work := getScratch(size, cfg.Bins())
	defer putScratch(work)

	sum := make([]float64, cfg.Bins())
	partial, buf := work.bins, work.win1
	good := 0

	for start := 0; start < n-size; start += cfg.Step() {
		sub := core.Window(series, start, size)
		if !quality.BoundsOK(sub, lower, upper) ||
			!cfg.Gate.BlinkOK(core.Window(side.Blink, start, size)) ||
			!cfg.Gate.QualOK(core.Window(ch.Quality, start, size)) ||
			!cfg.Gate.SpikeOK(sub) {
			continue
		}

		good++
		taper.Apply(buf, sub)

		if err := fft.RealPower(partial, buf); err != nil {
			return res, fmt.Errorf("qeeg: spectrum: %w", err)
		}
		vecmath.AddBlockInPlace(sum, partial)
	}

	res.GoodSamples = good
	if good == 0 {
		return res, ErrNoAcceptedWindows
	}

	for k, v := range sum {
		sum[k] = math.Log(v / float64(good))
	}
	res.Power = sum

	return res, nil
}
