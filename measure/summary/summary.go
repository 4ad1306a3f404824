// Package summary collects the scalar results of a qEEG analysis into a flat
// key/value table and persists it as a two-line tab-separated file.
package summary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/measure/bands"
	"github.com/cwbudde/algo-qeeg/measure/iaf"
	"github.com/cwbudde/algo-qeeg/measure/metric"
	"github.com/cwbudde/algo-qeeg/measure/qeeg"
	"github.com/montanaflynn/stats"
)

// DefaultQualityLimit is the highest frequency included in the spectral
// quality score.
const DefaultQualityLimit = 40.0

// ErrMalformed is returned by ReadTSV for input that is not a two-line table
// with matching column counts.
var ErrMalformed = fmt.Errorf("summary: malformed table: %w", core.ErrInvalidConfiguration)

// Meta describes the recording and analysis parameters.
type Meta struct {
	Subject  string
	Version  string
	Session  string
	Sampling float64
	Window   float64
	Sliding  float64
	Duration float64
}

// Summary is an insertion-ordered table of metric values.
type Summary struct {
	keys []string
	vals map[string]Value
}

// New returns a Summary holding the metadata keys.
func New(meta Meta) *Summary {
	s := &Summary{vals: make(map[string]Value)}
	s.Set("Subject", Text(meta.Subject))
	s.Set("Version", Text(meta.Version))
	s.Set("Session", Text(meta.Session))
	s.Set("Sampling", Number(meta.Sampling))
	s.Set("Window", Number(meta.Window))
	s.Set("Sliding", Number(meta.Sliding))
	s.Set("Duration", Number(meta.Duration))
	return s
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position.
func (s *Summary) Set(key string, v Value) {
	if s.vals == nil {
		s.vals = make(map[string]Value)
	}
	if _, ok := s.vals[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.vals[key] = v
}

// Get returns the value stored under key.
func (s *Summary) Get(key string) (Value, bool) {
	v, ok := s.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (s *Summary) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Summary) Len() int { return len(s.keys) }

// FillMetaBlinks records the blink onset score of the blink stream.
func (s *Summary) FillMetaBlinks(blink []float64) {
	s.Set("Meta_Blinks", tally(BlinkOnsets(blink)))
}

// FillWholeHeadIAF records the whole-head alpha frequency.
func (s *Summary) FillWholeHeadIAF(v metric.Value) {
	s.Set("WholeHeadIAF", Metric(v))
}

// FillBandMethod records the band scheme used for the band means.
func (s *Summary) FillBandMethod(m bands.Method) {
	s.Set("BandMethod", Text(m.String()))
}

// tally renders an accumulated score: an integer zero when nothing was
// counted, a float otherwise.
func tally(f float64) Value {
	if f == 0 {
		return Int(0)
	}
	return Float(f)
}

// ChannelSpectrum is the spectral result of one channel.
type ChannelSpectrum struct {
	Name     string
	Spectrum qeeg.Spectrum
	IAF      iaf.Result
}

// Curve is a named curve on a frequency axis, such as a network spectrum or
// the coherence of a connection.
type Curve struct {
	Name   string
	Values []float64
}

// FillSpectraMetrics records per-channel alpha peaks, window counts,
// quality scores and band powers, then per-network band powers. freq is the
// frequency axis of the spectra.
func (s *Summary) FillSpectraMetrics(channels []ChannelSpectrum, networks []Curve, bandList []bands.Band, freq []float64) {
	for _, ch := range channels {
		s.Set(ch.Name+"_IAF", Metric(ch.IAF.Freq))
		s.Set(ch.Name+"_IAF_Power", Metric(ch.IAF.Power))
	}

	for _, ch := range channels {
		s.Set("Meta_"+ch.Name+"_Samples", Int(ch.Spectrum.GoodSamples))
		s.Set("Meta_"+ch.Name+"_LongestQualitySegment", tally(ch.Spectrum.LongestQualitySegment))
		s.Set("Meta_"+ch.Name+"_SpectralQuality", Metric(SpectralQuality(ch.Spectrum.Power, freq, DefaultQualityLimit)))
		for _, b := range bandList {
			s.Set(ch.Name+"_mean_"+b.Name+"_power", Metric(bands.MeanByBand(ch.Spectrum.Power, freq, b)))
		}
	}

	s.fillCurves(networks, bandList, freq, "power")
}

// FillCoherenceMetrics records per-connection and per-network-connection
// band coherence. freq is the frequency axis of the coherence curves.
func (s *Summary) FillCoherenceMetrics(connections, networks []Curve, bandList []bands.Band, freq []float64) {
	s.fillCurves(connections, bandList, freq, "coherence")
	s.fillCurves(networks, bandList, freq, "coherence")
}

func (s *Summary) fillCurves(curves []Curve, bandList []bands.Band, freq []float64, suffix string) {
	for _, c := range curves {
		for _, b := range bandList {
			s.Set(c.Name+"_mean_"+b.Name+"_"+suffix, Metric(bands.MeanByBand(c.Values, freq, b)))
		}
	}
}

// SpectralQuality returns the sample standard deviation of the first
// differences of power over the bins with freq <= limit. It is missing when
// fewer than three bins qualify.
func SpectralQuality(power, freq []float64, limit float64) metric.Value {
	if len(power) != len(freq) {
		return metric.None()
	}

	var diffs []float64
	prev, have := 0.0, false
	for i, f := range freq {
		if f > limit {
			continue
		}
		if have {
			diffs = append(diffs, power[i]-prev)
		}
		prev, have = power[i], true
	}

	if len(diffs) < 2 {
		return metric.None()
	}

	sd, err := stats.StandardDeviationSample(diffs)
	if err != nil {
		return metric.None()
	}
	return metric.Some(sd)
}

// BlinkOnsets sums the positive first differences of blink. For a 0/1
// indicator this is the number of blink onsets.
func BlinkOnsets(blink []float64) float64 {
	sum := 0.0
	for i := 1; i < len(blink); i++ {
		if d := blink[i] - blink[i-1]; d > 0 {
			sum += d
		}
	}
	return sum
}

// WriteTSV writes the header line, a newline and the value line. There is
// no trailing newline.
func (s *Summary) WriteTSV(w io.Writer) error {
	vals := make([]string, len(s.keys))
	for i, k := range s.keys {
		vals[i] = s.vals[k].String()
	}

	if _, err := io.WriteString(w, strings.Join(s.keys, "\t")+"\n"+strings.Join(vals, "\t")); err != nil {
		return fmt.Errorf("summary: write: %w", err)
	}
	return nil
}

// WriteFile writes the table to the named file, replacing it.
func (s *Summary) WriteFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	if err := s.WriteTSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadTSV parses a table written by WriteTSV.
func ReadTSV(r io.Reader) (*Summary, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("summary: read: %w", err)
	}

	if len(lines) != 2 {
		return nil, fmt.Errorf("%w: %d lines", ErrMalformed, len(lines))
	}

	keys := strings.Split(lines[0], "\t")
	vals := strings.Split(lines[1], "\t")
	if len(keys) != len(vals) {
		return nil, fmt.Errorf("%w: %d keys, %d values", ErrMalformed, len(keys), len(vals))
	}

	s := &Summary{vals: make(map[string]Value, len(keys))}
	for i, k := range keys {
		s.Set(k, parseValue(vals[i]))
	}
	return s, nil
}
