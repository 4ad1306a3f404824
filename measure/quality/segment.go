package quality

// HighQuality is the top quality code. Codes above it are treated as equal
// to it.
const HighQuality = 3

// Run is a maximal stretch of identical values.
type Run struct {
	Value  int
	Start  int
	Length int
}

// Runs run-length encodes codes.
func Runs(codes []int) []Run {
	var out []Run
	for i, c := range codes {
		if n := len(out); n > 0 && out[n-1].Value == c {
			out[n-1].Length++
			continue
		}
		out = append(out, Run{Value: c, Start: i, Length: 1})
	}
	return out
}

// LongestSegment returns the duration in seconds of the longest run of
// HighQuality codes, clamping higher codes down to HighQuality first. It
// returns 0 when no such run exists. codes is not modified.
func LongestSegment(codes []int, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	clamped := make([]int, len(codes))
	for i, c := range codes {
		clamped[i] = min(c, HighQuality)
	}

	longest := 0
	for _, r := range Runs(clamped) {
		if r.Value == HighQuality && r.Length > longest {
			longest = r.Length
		}
	}

	return float64(longest) / sampleRate
}
