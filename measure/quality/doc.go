// Package quality implements the artifact gate applied to EEG analysis
// windows: amplitude bounds, blink rejection, headset quality codes and a
// peak-to-peak spike cutoff. It also measures the longest stretch of top
// quality in a quality-code stream.
package quality
