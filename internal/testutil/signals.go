// Package testutil generates reproducible EEG-like test signals and holds
// tolerance assertions shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine returns amplitude·sin(2π·freqHz·i/sampleRate) for i < length.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude) drawn from a
// seeded source.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Constant returns length copies of value.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Codes returns n copies of a quality code.
func Codes(code, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = code
	}
	return out
}

// AlphaEEG generates a resting-state-like trace: a 10 Hz rhythm of 20 µV
// amplitude on ±5 µV white noise.
func AlphaEEG(seed int64, sampleRate float64, length int) []float64 {
	return Rhythm(seed, 10, 20, 5, sampleRate, length)
}

// Rhythm adds a sine of the given frequency and amplitude to seeded
// uniform noise.
func Rhythm(seed int64, freqHz, amplitude, noise, sampleRate float64, length int) []float64 {
	out := Sine(freqHz, sampleRate, amplitude, length)
	for i, v := range Noise(seed, noise, length) {
		out[i] += v
	}
	return out
}
