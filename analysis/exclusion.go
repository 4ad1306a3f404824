package analysis

import (
	"strings"
)

// Reason classifies why a channel was left out of an aggregate.
type Reason int

const (
	// ReasonTooFewSamples marks channels with fewer accepted windows than
	// the minimum, or whose spectrum could not be estimated.
	ReasonTooFewSamples Reason = iota
	// ReasonNoPeak marks channels without an alpha peak.
	ReasonNoPeak
	// ReasonBadSpectrum marks channels whose mean log power is an outlier
	// among the channels of the recording.
	ReasonBadSpectrum
	// ReasonMissingIAFChannels marks a recording where none of the IAF
	// channels is usable, so individualized bands cannot be drawn.
	ReasonMissingIAFChannels
)

// ChannelAll is the channel name of recording-wide exclusions.
const ChannelAll = "All"

func (r Reason) String() string {
	switch r {
	case ReasonTooFewSamples:
		return "Too few samples"
	case ReasonNoPeak:
		return "NoPeak"
	case ReasonBadSpectrum:
		return "BadSpectrum"
	case ReasonMissingIAFChannels:
		return "MissingIAFChannels"
	default:
		return "Unknown"
	}
}

// ExcludedFrom names the aggregates the channel is left out of.
func (r Reason) ExcludedFrom() string {
	switch r {
	case ReasonTooFewSamples, ReasonBadSpectrum:
		return "WholeHeadIAF, Network Power and Coherence"
	case ReasonNoPeak:
		return "WholeHeadIAF"
	case ReasonMissingIAFChannels:
		return "Individualized Bands"
	default:
		return ""
	}
}

// Exclusion records one channel left out of an aggregate.
type Exclusion struct {
	Channel string
	Reason  Reason
	// Message is the human-readable reason written to reports.
	Message string
}

func newExclusion(channel string, reason Reason) Exclusion {
	return Exclusion{Channel: channel, Reason: reason, Message: reason.String()}
}

func missingIAFChannels(names []string) Exclusion {
	return Exclusion{
		Channel: ChannelAll,
		Reason:  ReasonMissingIAFChannels,
		Message: "Missing " + strings.Join(names, " AND "),
	}
}

// Failure is an estimator error for one channel or connection.
type Failure struct {
	Name string
	Err  error
}

func (f Failure) Error() string {
	return f.Name + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error { return f.Err }
