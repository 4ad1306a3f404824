package summary

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-qeeg/measure/metric"
	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10.0"},
		{0.25, "0.25"},
		{1e-05, "1e-05"},
		{0.0001, "0.0001"},
		{123456789012345.6, "123456789012345.6"},
		{1e16, "1e+16"},
		{-2.5, "-2.5"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{0.1 + 0.2, "0.30000000000000004"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatFloat(tc.in), "FormatFloat(%v)", tc.in)
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "rest", Text("rest").String())
	assert.Equal(t, "33", Int(33).String())
	assert.Equal(t, "7.5", Float(7.5).String())
	assert.Equal(t, "NA", Metric(metric.None()).String())
	assert.Equal(t, "nan", Metric(metric.Some(math.NaN())).String())

	assert.Equal(t, "128", Number(128).String())
	assert.Equal(t, "0.75", Number(0.75).String())
}

func TestValueFloat(t *testing.T) {
	f, ok := Int(3).Float()
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = Text("x").Float()
	assert.False(t, ok)

	assert.True(t, Metric(metric.None()).Missing())
	assert.False(t, Float(math.NaN()).Missing())
	assert.False(t, Text("NA").Missing())
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, Int(42), parseValue("42"))
	assert.Equal(t, Float(0.5), parseValue("0.5"))
	assert.Equal(t, Float(10), parseValue("10.0"))
	assert.Equal(t, Text("007"), parseValue("007"))
	assert.Equal(t, Text("1.50"), parseValue("1.50"))
	assert.Equal(t, Text("IBIW"), parseValue("IBIW"))
	assert.True(t, parseValue("NA").Missing())

	nan, ok := parseValue("nan").Float()
	assert.True(t, ok)
	assert.True(t, math.IsNaN(nan))
}
