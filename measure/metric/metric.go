// Package metric provides an optional scalar used for derived measurements
// that may be undefined, such as band means over empty frequency ranges.
package metric

import "math"

// Value is a float64 that may be missing. A missing Value is distinct from a
// present NaN: the former means "not computed", the latter a computed result
// that is not a number.
type Value struct {
	v     float64
	valid bool
}

// Some returns a present Value.
func Some(v float64) Value {
	return Value{v: v, valid: true}
}

// None returns a missing Value.
func None() Value {
	return Value{}
}

// Valid reports whether the value is present.
func (m Value) Valid() bool { return m.valid }

// Float returns the value and whether it is present.
func (m Value) Float() (float64, bool) { return m.v, m.valid }

// Or returns the value, or def when missing.
func (m Value) Or(def float64) float64 {
	if !m.valid {
		return def
	}
	return m.v
}

// OrNaN returns the value, or NaN when missing.
func (m Value) OrNaN() float64 { return m.Or(math.NaN()) }

// Mean averages the present values, skipping missing ones. It is missing
// when no value is present.
func Mean(vals ...Value) Value {
	sum, n := 0.0, 0
	for _, v := range vals {
		if v.valid {
			sum += v.v
			n++
		}
	}
	if n == 0 {
		return None()
	}
	return Some(sum / float64(n))
}
