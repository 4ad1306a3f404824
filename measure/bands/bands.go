// Package bands defines the canonical EEG frequency bands and reduces
// spectra and coherence curves to per-band means.
//
// Three definition schemes are supported. IBIW scales the band edges by the
// whole-head individualized alpha frequency (IAF), IBFW shifts them by it
// and FBFW uses fixed edges.
package bands

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/cwbudde/algo-qeeg/measure/metric"
)

// DefaultIAF is the alpha frequency assumed when no individual value is
// known.
const DefaultIAF = 10.0

// UpperEdge is the upper bound of the highest band in every scheme.
const UpperEdge = 40.5

// Band names, in ascending frequency order.
const (
	Delta    = "Delta"
	Theta    = "Theta"
	Alpha    = "Alpha"
	LowBeta  = "Low_Beta"
	HighBeta = "High_Beta"
	Gamma    = "Gamma"
)

// Names lists the band names in the order Draw returns them.
var Names = []string{Delta, Theta, Alpha, LowBeta, HighBeta, Gamma}

// Errors returned by this package.
var (
	ErrUnknownMethod = fmt.Errorf("bands: unknown band method: %w", core.ErrInvalidConfiguration)
	ErrInvalidBand   = fmt.Errorf("bands: bounds must satisfy 0 <= lower < upper: %w", core.ErrInvalidConfiguration)
)

// Method selects a band definition scheme.
type Method int

const (
	// IBIW is individualized bands with individualized widths.
	IBIW Method = iota
	// IBFW is individualized bands with fixed widths.
	IBFW
	// FBFW is fixed bands with fixed widths.
	FBFW
)

var methodNames = map[Method]string{
	IBIW: "IBIW",
	IBFW: "IBFW",
	FBFW: "FBFW",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Individualized reports whether the scheme depends on the IAF.
func (m Method) Individualized() bool {
	return m == IBIW || m == IBFW
}

// ParseMethod parses a method identifier, ignoring case.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Band is the half-open interval [Lower, Upper) in Hz.
type Band struct {
	Name  string
	Lower float64
	Upper float64
}

// Validate checks 0 <= Lower < Upper.
func (b Band) Validate() error {
	if b.Lower < 0 || b.Lower >= b.Upper {
		return fmt.Errorf("%w: %s [%v, %v)", ErrInvalidBand, b.Name, b.Lower, b.Upper)
	}
	return nil
}

// Contains reports whether f lies in [Lower, Upper).
func (b Band) Contains(f float64) bool {
	return f >= b.Lower && f < b.Upper
}

// Draw returns the six bands of method for the given whole-head IAF.
//
// Individualized edges can overrun UpperEdge for a high IAF (IBIW from
// 13.5 Hz). Such a scheme fails with ErrInvalidBand instead of returning
// empty or inverted bands.
func Draw(method Method, iaf float64) ([]Band, error) {
	edges, err := edges(method, iaf)
	if err != nil {
		return nil, err
	}

	out := make([]Band, len(Names))
	for i, name := range Names {
		out[i] = Band{Name: name, Lower: edges[i], Upper: edges[i+1]}
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w (%v, IAF %v)", err, method, iaf)
		}
	}
	return out, nil
}

func edges(method Method, iaf float64) ([]float64, error) {
	switch method {
	case IBIW:
		return []float64{0, iaf * 0.4, iaf * 0.8, iaf * 1.21, iaf * 1.8, iaf * 3, UpperEdge}, nil
	case IBFW:
		return []float64{0, iaf - 6, iaf - 2, iaf + 2.5, iaf + 8, iaf + 20, UpperEdge}, nil
	case FBFW:
		return []float64{0, 4, 8, 12.5, 18, 30, UpperEdge}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}
}

// MeanByBand averages the curve values whose frequency lies in band. The
// result is missing when no frequency falls in the band or the lengths of
// curve and freq differ.
func MeanByBand(curve, freq []float64, band Band) metric.Value {
	if len(curve) != len(freq) {
		return metric.None()
	}

	sum, n := 0.0, 0
	for i, f := range freq {
		if band.Contains(f) {
			sum += curve[i]
			n++
		}
	}

	if n == 0 {
		return metric.None()
	}
	return metric.Some(sum / float64(n))
}
