// Package spectrum provides the FFT-based estimators behind windowed EEG
// analysis: single-window periodograms and Welch cross-spectral coherence.
//
// Transforms are computed with algo-fft plans sized to the analysis window.
// An [FFT] or [Welch] value owns its plan and scratch buffers and is not safe
// for concurrent use; create one per goroutine.
package spectrum
