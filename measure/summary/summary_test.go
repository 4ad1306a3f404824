package summary

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/measure/bands"
	"github.com/cwbudde/algo-qeeg/measure/iaf"
	"github.com/cwbudde/algo-qeeg/measure/metric"
	"github.com/cwbudde/algo-qeeg/measure/qeeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeta() Meta {
	return Meta{
		Subject:  "S01",
		Version:  "1",
		Session:  "rest",
		Sampling: 128,
		Window:   4,
		Sliding:  0.75,
		Duration: 300.5,
	}
}

func TestNewWritesMeta(t *testing.T) {
	s := New(testMeta())

	assert.Equal(t, []string{"Subject", "Version", "Session", "Sampling", "Window", "Sliding", "Duration"}, s.Keys())

	var buf bytes.Buffer
	require.NoError(t, s.WriteTSV(&buf))
	assert.Equal(t,
		"Subject\tVersion\tSession\tSampling\tWindow\tSliding\tDuration\nS01\t1\trest\t128\t4\t0.75\t300.5",
		buf.String())
}

func TestSetKeepsFirstPosition(t *testing.T) {
	s := New(testMeta())
	s.Set("A", Int(1))
	s.Set("B", Int(2))
	s.Set("A", Int(3))

	keys := s.Keys()
	assert.Equal(t, []string{"A", "B"}, keys[len(keys)-2:])

	v, ok := s.Get("A")
	require.True(t, ok)
	assert.Equal(t, "3", v.String())
	assert.Equal(t, 9, s.Len())
}

func TestBlinkOnsets(t *testing.T) {
	assert.Equal(t, 2.0, BlinkOnsets([]float64{0, 1, 1, 0, 0, 1, 0}))
	assert.Equal(t, 0.0, BlinkOnsets(nil))
	assert.InDelta(t, 0.7, BlinkOnsets([]float64{0, 0.3, 0.1, 0.5}), 1e-12)

	s := New(testMeta())
	s.FillMetaBlinks([]float64{0, 1, 0, 1})
	v, _ := s.Get("Meta_Blinks")
	assert.Equal(t, "2.0", v.String())

	s.FillMetaBlinks([]float64{1, 1, 0})
	v, _ = s.Get("Meta_Blinks")
	assert.Equal(t, "0", v.String())
}

func TestSpectralQuality(t *testing.T) {
	freq := []float64{0, 10, 20, 30, 40, 50}
	power := []float64{1, 2, 4, 7, 11, 100}

	// diffs up to 40 Hz: 1 2 3 4, sample sd = sqrt(5/3)
	got := SpectralQuality(power, freq, 40)
	v, ok := got.Float()
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(5.0/3.0), v, 1e-12)

	assert.False(t, SpectralQuality(power[:2], freq[:2], 40).Valid())
	assert.False(t, SpectralQuality(nil, nil, 40).Valid())
	assert.False(t, SpectralQuality(power, freq[:3], 40).Valid())
}

func TestFillMetrics(t *testing.T) {
	freq := []float64{2, 6, 10, 14}
	bandList := []bands.Band{{Name: "Low", Lower: 0, Upper: 8}, {Name: "High", Lower: 8, Upper: 16}, {Name: "Top", Lower: 30, Upper: 40}}

	s := New(testMeta())
	s.FillMetaBlinks([]float64{0, 1})
	s.FillWholeHeadIAF(metric.Some(10.25))
	s.FillBandMethod(bands.IBFW)
	s.FillSpectraMetrics(
		[]ChannelSpectrum{
			{
				Name:     "O1",
				Spectrum: qeeg.Spectrum{GoodSamples: 40, Power: []float64{1, 2, 3, 4}, LongestQualitySegment: 12.5},
				IAF:      iaf.Result{Power: metric.Some(3), Freq: metric.Some(10)},
			},
			{
				Name:     "O2",
				Spectrum: qeeg.Spectrum{GoodSamples: 0, LongestQualitySegment: 0},
				IAF:      iaf.Result{Power: metric.None(), Freq: metric.None()},
			},
		},
		[]Curve{{Name: "Occipital", Values: []float64{2, 2, 6, 6}}},
		bandList, freq,
	)
	s.FillCoherenceMetrics(
		[]Curve{{Name: "O1_O2", Values: []float64{0.5, 0.7, 0.1, 0.3}}},
		[]Curve{{Name: "Frontal_Occipital", Values: []float64{0.2, 0.2, 0.4, 0.4}}},
		bandList[:2], freq,
	)

	want := map[string]string{
		"Meta_Blinks":                           "1.0",
		"WholeHeadIAF":                          "10.25",
		"BandMethod":                            "IBFW",
		"O1_IAF":                                "10.0",
		"O1_IAF_Power":                          "3.0",
		"O2_IAF":                                "NA",
		"O2_IAF_Power":                          "NA",
		"Meta_O1_Samples":                       "40",
		"Meta_O1_LongestQualitySegment":         "12.5",
		"Meta_O1_SpectralQuality":               "0.0",
		"O1_mean_Low_power":                     "1.5",
		"O1_mean_High_power":                    "3.5",
		"O1_mean_Top_power":                     "NA",
		"Meta_O2_Samples":                       "0",
		"Meta_O2_LongestQualitySegment":         "0",
		"Meta_O2_SpectralQuality":               "NA",
		"O2_mean_Low_power":                     "NA",
		"Occipital_mean_Low_power":              "2.0",
		"Occipital_mean_High_power":             "6.0",
		"O1_O2_mean_Low_coherence":              "0.6",
		"O1_O2_mean_High_coherence":             "0.2",
		"Frontal_Occipital_mean_High_coherence": "0.4",
	}
	for k, w := range want {
		v, ok := s.Get(k)
		require.True(t, ok, "missing key %s", k)
		assert.Equal(t, w, v.String(), "key %s", k)
	}

	keys := s.Keys()
	assert.Equal(t, "O1_IAF", keys[10])
	assert.Equal(t, "O2_IAF_Power", keys[13])
	assert.Equal(t, "Meta_O1_Samples", keys[14])
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := New(testMeta())
	s.FillWholeHeadIAF(metric.None())
	s.Set("Meta_Fz_Samples", Int(12))
	s.Set("Fz_mean_Alpha_power", Float(1e-05))
	s.Set("Odd", Float(math.NaN()))

	var buf bytes.Buffer
	require.NoError(t, s.WriteTSV(&buf))

	out := buf.String()
	assert.False(t, strings.HasSuffix(out, "\n"), "trailing newline")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "\tNA\t")

	back, err := ReadTSV(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, s.Keys(), back.Keys())

	var again bytes.Buffer
	require.NoError(t, back.WriteTSV(&again))
	assert.Equal(t, out, again.String())

	iafVal, _ := back.Get("WholeHeadIAF")
	assert.True(t, iafVal.Missing())
}

func TestReadTSVMalformed(t *testing.T) {
	for _, in := range []string{"", "a\tb", "a\tb\n1", "a\n1\n2"} {
		_, err := ReadTSV(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration, "input %q", in)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.tsv")

	s := New(testMeta())
	require.NoError(t, s.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Subject\t"))
}
