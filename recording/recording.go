// Package recording holds multi-channel EEG recordings and loads them from
// EDF files.
package recording

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-qeeg/dsp/core"
)

// Errors returned by this package.
var (
	ErrInvalidRecording = fmt.Errorf("recording: invalid recording: %w", core.ErrInvalidConfiguration)
	ErrNoChannels       = fmt.Errorf("recording: no channels: %w", core.ErrMissingPrerequisite)
	ErrInvalidLayout    = fmt.Errorf("recording: invalid layout: %w", core.ErrInvalidConfiguration)
)

// Channel is one EEG electrode with its per-sample blink score and
// contact-quality code.
type Channel struct {
	Name    string
	Series  []float64
	Blink   []float64
	Quality []int
}

// Recording is a complete multi-channel capture of one subject and session.
// MotionX and MotionY are both nil when no motion sensor was recorded.
type Recording struct {
	Subject    string
	Session    string
	Version    string
	SampleRate float64
	Channels   []Channel
	MotionX    []float64
	MotionY    []float64
}

// Loader produces a Recording.
type Loader interface {
	Load(ctx context.Context) (*Recording, error)
}

// Samples returns the number of samples per channel.
func (r *Recording) Samples() int {
	if len(r.Channels) == 0 {
		return 0
	}
	return len(r.Channels[0].Series)
}

// Duration returns the recording length in seconds.
func (r *Recording) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(r.Samples()) / r.SampleRate
}

// Names returns the channel names in recording order.
func (r *Recording) Names() []string {
	out := make([]string, len(r.Channels))
	for i, ch := range r.Channels {
		out[i] = ch.Name
	}
	return out
}

// Channel returns the channel with the given name.
func (r *Recording) Channel(name string) (*Channel, bool) {
	for i := range r.Channels {
		if r.Channels[i].Name == name {
			return &r.Channels[i], true
		}
	}
	return nil, false
}

// HasMotion reports whether motion streams are present.
func (r *Recording) HasMotion() bool {
	return r.MotionX != nil && r.MotionY != nil
}

// Validate checks that the recording is internally consistent: a positive
// sample rate, at least one channel, unique channel names, equal stream
// lengths, and motion streams either both present or both absent.
func (r *Recording) Validate() error {
	if r.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidRecording, r.SampleRate)
	}
	if len(r.Channels) == 0 {
		return ErrNoChannels
	}

	n := r.Samples()
	seen := make(map[string]bool, len(r.Channels))
	for _, ch := range r.Channels {
		if ch.Name == "" || seen[ch.Name] {
			return fmt.Errorf("%w: channel name %q empty or repeated", ErrInvalidRecording, ch.Name)
		}
		seen[ch.Name] = true

		if len(ch.Series) != n || len(ch.Blink) != n || len(ch.Quality) != n {
			return fmt.Errorf("%w: channel %s has %d/%d/%d samples, want %d",
				ErrInvalidRecording, ch.Name, len(ch.Series), len(ch.Blink), len(ch.Quality), n)
		}
	}

	if (r.MotionX == nil) != (r.MotionY == nil) {
		return fmt.Errorf("%w: only one motion stream present", ErrInvalidRecording)
	}
	if r.HasMotion() && (len(r.MotionX) != n || len(r.MotionY) != n) {
		return fmt.Errorf("%w: motion has %d/%d samples, want %d",
			ErrInvalidRecording, len(r.MotionX), len(r.MotionY), n)
	}

	return nil
}
