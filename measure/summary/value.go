package summary

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-qeeg/measure/metric"
)

// Tokens used for non-finite and missing numbers.
const (
	TokenMissing = "NA"
	TokenNaN     = "nan"
	TokenInf     = "inf"
	TokenNegInf  = "-inf"
)

type kind uint8

const (
	kindText kind = iota
	kindInt
	kindFloat
)

// Value is one cell of a Summary: text, an integer or an optional float.
type Value struct {
	kind kind
	text string
	i    int
	f    metric.Value
}

// Text returns a string cell.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// Int returns an integer cell.
func Int(i int) Value { return Value{kind: kindInt, i: i} }

// Float returns a present float cell.
func Float(f float64) Value { return Value{kind: kindFloat, f: metric.Some(f)} }

// Metric returns a float cell that may be missing.
func Metric(m metric.Value) Value { return Value{kind: kindFloat, f: m} }

// Number returns an integer cell when f is integral and a float cell
// otherwise.
func Number(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int(f))
	}
	return Float(f)
}

// Float returns the numeric content of the cell. Text cells and missing
// floats report false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case kindInt:
		return float64(v.i), true
	case kindFloat:
		return v.f.Float()
	default:
		return 0, false
	}
}

// Missing reports whether the cell is a missing float.
func (v Value) Missing() bool {
	return v.kind == kindFloat && !v.f.Valid()
}

// String renders the cell as it appears in the TSV output.
func (v Value) String() string {
	switch v.kind {
	case kindInt:
		return strconv.Itoa(v.i)
	case kindFloat:
		f, ok := v.f.Float()
		if !ok {
			return TokenMissing
		}
		return FormatFloat(f)
	default:
		return v.text
	}
}

// FormatFloat renders f in shortest round-trip form. Integral values keep a
// trailing ".0", and exponent notation is used below 1e-4 and from 1e16 on.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return TokenNaN
	case math.IsInf(f, 1):
		return TokenInf
	case math.IsInf(f, -1):
		return TokenNegInf
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// parseValue inverts String. Cells that would not render back to the same
// text are kept as text.
func parseValue(s string) Value {
	switch s {
	case TokenMissing:
		return Metric(metric.None())
	case TokenNaN:
		return Float(math.NaN())
	case TokenInf:
		return Float(math.Inf(1))
	case TokenNegInf:
		return Float(math.Inf(-1))
	}

	if i, err := strconv.Atoi(s); err == nil && strconv.Itoa(i) == s {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && FormatFloat(f) == s {
		return Float(f)
	}
	return Text(s)
}
