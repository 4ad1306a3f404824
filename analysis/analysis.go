// Package analysis runs the complete qEEG pipeline over a recording: per
// channel spectra, pairwise coherence, alpha peaks, channel exclusion,
// network aggregates and the scalar summary.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-qeeg/measure/bands"
	"github.com/cwbudde/algo-qeeg/measure/iaf"
	"github.com/cwbudde/algo-qeeg/measure/metric"
	"github.com/cwbudde/algo-qeeg/measure/qeeg"
	"github.com/cwbudde/algo-qeeg/measure/quality"
	"github.com/cwbudde/algo-qeeg/measure/summary"
	"github.com/cwbudde/algo-qeeg/montage"
	"github.com/cwbudde/algo-qeeg/recording"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ChannelResult is the spectral result of one channel.
type ChannelResult struct {
	Name     string
	Spectrum qeeg.Spectrum
	// Err is the estimator error, if any. A channel without accepted
	// windows carries qeeg.ErrNoAcceptedWindows.
	Err error
}

// PairResult is the coherence of one channel pair.
type PairResult struct {
	Pair      montage.Pair
	Coherence qeeg.Coherence
}

// Name returns the connection name of the pair.
func (p PairResult) Name() string { return p.Pair.Name() }

// Result is the outcome of Run.
type Result struct {
	Subject string
	Session string

	// Freq is the frequency axis of the spectra and network spectra.
	Freq []float64
	// CoherenceFreq is the frequency axis of the coherence curves.
	CoherenceFreq []float64

	Spectra          []ChannelResult
	NetworkSpectra   []summary.Curve
	Coherence        []PairResult
	NetworkCoherence []summary.Curve

	// IAF holds the alpha peak of every channel with a spectrum.
	IAF          map[string]iaf.Result
	WholeHeadIAF metric.Value

	// Method is the band scheme actually used, after any fallback.
	Method bands.Method
	Bands  []bands.Band

	Summary    *summary.Summary
	Exclusions []Exclusion
	Failures   []Failure
}

// Excluded reports whether channel is excluded for reason.
func (r *Result) Excluded(channel string, reason Reason) bool {
	for _, e := range r.Exclusions {
		if e.Channel == channel && e.Reason == reason {
			return true
		}
	}
	return false
}

// Run analyses rec. Estimator failures and channel exclusions are recorded
// in the Result. Run returns an error only for an invalid recording,
// montage or configuration, or when ctx is done. Individualized bands that a
// high whole-head IAF would push past the top band edge fall back to FBFW.
func Run(ctx context.Context, rec *recording.Recording, m montage.Montage, cfg Config) (*Result, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if _, err := bands.Draw(cfg.BandMethod, bands.DefaultIAF); err != nil {
		return nil, err
	}

	est := cfg.Estimator
	est.SampleRate = rec.SampleRate
	if err := est.Validate(); err != nil {
		return nil, err
	}

	log := cfg.logger().WithFields(logrus.Fields{
		"subject": rec.Subject,
		"session": rec.Session,
	})

	res := &Result{
		Subject:       rec.Subject,
		Session:       rec.Session,
		Freq:          qeeg.Frequencies(est),
		CoherenceFreq: qeeg.CoherenceFrequencies(est),
		IAF:           make(map[string]iaf.Result),
	}

	if err := runSpectra(ctx, rec, est, cfg.workers(), res); err != nil {
		return nil, err
	}
	log.WithField("channels", len(res.Spectra)).Debug("spectra done")

	usable := classify(res, cfg, log)

	res.WholeHeadIAF = wholeHeadIAF(res, cfg.IAFChannels, usable)
	res.Method = cfg.BandMethod
	if !res.WholeHeadIAF.Valid() {
		ex := missingIAFChannels(cfg.IAFChannels)
		res.Exclusions = append(res.Exclusions, ex)
		log.WithFields(logrus.Fields{"channel": ex.Channel, "reason": ex.Message}).Info("no usable IAF channel")
		if res.Method.Individualized() {
			log.WithField("method", res.Method.String()).Warn("falling back to fixed bands")
			res.Method = bands.FBFW
		}
	}

	bandList, err := bands.Draw(res.Method, res.WholeHeadIAF.Or(bands.DefaultIAF))
	if errors.Is(err, bands.ErrInvalidBand) && res.Method.Individualized() {
		log.WithFields(logrus.Fields{
			"method": res.Method.String(),
			"iaf":    res.WholeHeadIAF.OrNaN(),
		}).WithError(err).Warn("individualized bands out of range, falling back to fixed bands")
		res.Method = bands.FBFW
		bandList, err = bands.Draw(res.Method, bands.DefaultIAF)
	}
	if err != nil {
		return nil, err
	}
	res.Bands = bandList

	res.NetworkSpectra = networkSpectra(res, m, usable)

	if err := runCoherence(ctx, rec, est, cfg.workers(), usable, res, log); err != nil {
		return nil, err
	}
	log.WithField("connections", len(res.Coherence)).Debug("coherence done")

	res.NetworkCoherence = networkCoherence(res, m, usable)
	res.Summary = buildSummary(rec, est, res)

	return res, nil
}

// withConfig pins the estimator configuration.
func withConfig(cfg qeeg.Config) qeeg.Option {
	return func(c *qeeg.Config) { *c = cfg }
}

func runSpectra(ctx context.Context, rec *recording.Recording, est qeeg.Config, workers int, res *Result) error {
	res.Spectra = make([]ChannelResult, len(rec.Channels))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range rec.Channels {
		ch := &rec.Channels[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sp, err := qeeg.AnalyzeSpectrum(
				qeeg.Channel{Series: ch.Series, Quality: ch.Quality},
				qeeg.Side{MotionX: rec.MotionX, MotionY: rec.MotionY, Blink: ch.Blink},
				withConfig(est),
			)
			res.Spectra[i] = ChannelResult{Name: ch.Name, Spectrum: sp, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("analysis: spectra: %w", err)
	}
	return nil
}

// classify finds the alpha peaks and records the channel exclusions. It
// returns the names of the channels that enter the network aggregates, in
// recording order.
func classify(res *Result, cfg Config, log logrus.FieldLogger) []string {
	var tooFew, noPeak, included []string
	for _, ch := range res.Spectra {
		clog := log.WithFields(logrus.Fields{"channel": ch.Name, "good_samples": ch.Spectrum.GoodSamples})
		if ch.Err != nil && !qeeg.IsNoAcceptedWindows(ch.Err) {
			res.Failures = append(res.Failures, Failure{Name: ch.Name, Err: ch.Err})
			clog.WithError(ch.Err).Warn("spectrum failed")
		}

		if len(ch.Spectrum.Power) == len(res.Freq) && len(res.Freq) > 0 {
			peak, err := iaf.Find(ch.Spectrum.Power, res.Freq, cfg.iafOptions()...)
			if err != nil {
				res.Failures = append(res.Failures, Failure{Name: ch.Name, Err: err})
				clog.WithError(err).Warn("alpha peak search failed")
			}
			res.IAF[ch.Name] = peak
		}

		if ch.Err != nil || ch.Spectrum.GoodSamples < cfg.MinSamples {
			tooFew = append(tooFew, ch.Name)
			continue
		}
		included = append(included, ch.Name)
		if !res.IAF[ch.Name].Found() {
			noPeak = append(noPeak, ch.Name)
		}
	}

	bad := badSpectra(res, included)

	for _, reason := range []struct {
		names  []string
		reason Reason
	}{
		{tooFew, ReasonTooFewSamples},
		{noPeak, ReasonNoPeak},
		{bad, ReasonBadSpectrum},
	} {
		for _, name := range reason.names {
			res.Exclusions = append(res.Exclusions, newExclusion(name, reason.reason))
			log.WithFields(logrus.Fields{"channel": name, "reason": reason.reason.String()}).Info("channel excluded")
		}
	}

	var usable []string
	for _, name := range included {
		if !slices.Contains(bad, name) {
			usable = append(usable, name)
		}
	}
	return usable
}

// badSpectra returns the included channels whose mean log power lies
// outside mean ± 3·sd of the included channels' means.
func badSpectra(res *Result, included []string) []string {
	if len(included) < 2 {
		return nil
	}
	means := make([]float64, len(included))
	for i, name := range included {
		m, err := stats.Mean(res.spectrum(name).Power)
		if err != nil {
			return nil
		}
		means[i] = m
	}
	lower, upper, err := quality.Bounds(means)
	if err != nil {
		return nil
	}

	var bad []string
	for i, m := range means {
		if m < lower || m > upper {
			bad = append(bad, included[i])
		}
	}
	return bad
}

func (r *Result) spectrum(name string) qeeg.Spectrum {
	for _, ch := range r.Spectra {
		if ch.Name == name {
			return ch.Spectrum
		}
	}
	return qeeg.Spectrum{}
}

// wholeHeadIAF averages the peak frequency of the usable IAF channels.
func wholeHeadIAF(res *Result, iafChannels, usable []string) metric.Value {
	var vals []metric.Value
	for _, name := range iafChannels {
		if !slices.Contains(usable, name) {
			continue
		}
		if peak, ok := res.IAF[name]; ok && peak.Found() {
			vals = append(vals, peak.Freq)
		}
	}
	return metric.Mean(vals...)
}

func networkSpectra(res *Result, m montage.Montage, usable []string) []summary.Curve {
	var out []summary.Curve
	for _, n := range m.Networks {
		members := n.Members(usable)
		if len(members) == 0 {
			continue
		}
		curves := make([][]float64, len(members))
		for i, name := range members {
			curves[i] = res.spectrum(name).Power
		}
		out = append(out, summary.Curve{Name: n.Name, Values: meanCurve(curves)})
	}
	return out
}

func runCoherence(ctx context.Context, rec *recording.Recording, est qeeg.Config, workers int, usable []string, res *Result, log logrus.FieldLogger) error {
	pairs := montage.Pairs(usable)
	results := make([]qeeg.Coherence, len(pairs))
	errs := make([]error, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pairs {
		a, _ := rec.Channel(p.A)
		b, _ := rec.Channel(p.B)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = qeeg.AnalyzeCoherence(
				qeeg.Channel{Series: a.Series, Quality: a.Quality},
				qeeg.Channel{Series: b.Series, Quality: b.Quality},
				qeeg.Side{MotionX: rec.MotionX, MotionY: rec.MotionY, Blink: a.Blink},
				withConfig(est),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("analysis: coherence: %w", err)
	}

	for i, p := range pairs {
		if errs[i] != nil {
			res.Failures = append(res.Failures, Failure{Name: p.Name(), Err: errs[i]})
			log.WithFields(logrus.Fields{
				"connection":   p.Name(),
				"good_samples": results[i].GoodSamples,
			}).WithError(errs[i]).Warn("coherence failed")
			continue
		}
		res.Coherence = append(res.Coherence, PairResult{Pair: p, Coherence: results[i]})
	}
	return nil
}

// networkCoherence averages, for every pair of networks, the coherence of
// the connections running from a member of one to a member of the other.
func networkCoherence(res *Result, m montage.Montage, usable []string) []summary.Curve {
	var names []string
	for _, n := range m.Networks {
		if len(n.Members(usable)) > 0 {
			names = append(names, n.Name)
		}
	}

	var out []summary.Curve
	for _, np := range montage.Pairs(names) {
		from := m.Members(np.A, usable)
		to := m.Members(np.B, usable)

		var curves [][]float64
		for _, pr := range res.Coherence {
			if crosses(pr.Pair, from, to) {
				curves = append(curves, pr.Coherence.Values)
			}
		}
		if len(curves) == 0 {
			continue
		}
		out = append(out, summary.Curve{Name: np.Name(), Values: meanCurve(curves)})
	}
	return out
}

func crosses(p montage.Pair, from, to []string) bool {
	return (slices.Contains(from, p.A) && slices.Contains(to, p.B)) ||
		(slices.Contains(from, p.B) && slices.Contains(to, p.A))
}

// meanCurve is the element-wise mean of equally long curves.
func meanCurve(curves [][]float64) []float64 {
	out := make([]float64, len(curves[0]))
	for _, c := range curves {
		for i, v := range c {
			out[i] += v
		}
	}
	scale := 1 / float64(len(curves))
	for i := range out {
		out[i] *= scale
	}
	return out
}

func buildSummary(rec *recording.Recording, est qeeg.Config, res *Result) *summary.Summary {
	s := summary.New(summary.Meta{
		Subject:  rec.Subject,
		Version:  rec.Version,
		Session:  rec.Session,
		Sampling: rec.SampleRate,
		Window:   est.WindowSeconds,
		Sliding:  est.Sliding,
		Duration: rec.Duration(),
	})
	s.FillMetaBlinks(rec.Channels[0].Blink)
	s.FillWholeHeadIAF(res.WholeHeadIAF)
	s.FillBandMethod(res.Method)

	channels := make([]summary.ChannelSpectrum, len(res.Spectra))
	for i, ch := range res.Spectra {
		channels[i] = summary.ChannelSpectrum{Name: ch.Name, Spectrum: ch.Spectrum, IAF: res.IAF[ch.Name]}
	}
	s.FillSpectraMetrics(channels, res.NetworkSpectra, res.Bands, res.Freq)

	connections := make([]summary.Curve, len(res.Coherence))
	for i, pr := range res.Coherence {
		connections[i] = summary.Curve{Name: pr.Name(), Values: pr.Coherence.Values}
	}
	s.FillCoherenceMetrics(connections, res.NetworkCoherence, res.Bands, res.CoherenceFreq)

	return s
}
