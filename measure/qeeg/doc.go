// Package qeeg implements the windowed spectral and coherence estimators of
// quantitative EEG analysis.
//
// A channel is detrended, then a window of SampleRate*WindowSeconds samples
// slides across it with a stride of Sliding times the window. Windows that
// fail the artifact gate are skipped; the remaining windows are tapered,
// transformed and averaged. Spectra are reported as the natural log of the
// mean real-part periodogram, coherence as the mean Welch magnitude-squared
// coherence with the zero-frequency bin removed.
package qeeg
