// Package peaks locates local maxima in sampled curves and measures their
// topographic prominence.
package peaks

// Peak is a local maximum of a sampled curve.
type Peak struct {
	// Index is the sample position. For a flat top it is the middle sample
	// (rounded down).
	Index int
	// Height is the curve value at Index.
	Height float64
	// Prominence is the height above the higher of the two bases.
	Prominence float64
}

// Option configures Find.
type Option func(*config)

type config struct {
	minProminence float64
}

// WithMinProminence keeps only peaks whose prominence is at least p.
func WithMinProminence(p float64) Option {
	return func(c *config) {
		c.minProminence = p
	}
}

// Find returns the local maxima of x in ascending index order.
//
// A sample is a peak when its left neighbour is strictly lower and the first
// sample after its flat run is strictly lower as well. The first and last
// samples are never peaks.
func Find(x []float64, opts ...Option) []Peak {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var out []Peak

	i := 1
	last := len(x) - 1
	for i < last {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < last && x[ahead] == x[i] {
				ahead++
			}

			if x[ahead] < x[i] {
				idx := (i + ahead - 1) / 2
				p := Peak{Index: idx, Height: x[idx], Prominence: Prominence(x, idx)}
				if p.Prominence >= cfg.minProminence {
					out = append(out, p)
				}
				i = ahead
				continue
			}
		}
		i++
	}

	return out
}

// Prominence returns how far x[peak] rises above the higher of its two
// bases. Each base is the lowest sample between the peak and the nearest
// strictly higher sample (or the curve edge) on that side.
func Prominence(x []float64, peak int) float64 {
	if peak < 0 || peak >= len(x) {
		return 0
	}

	h := x[peak]

	leftMin := h
	for i := peak; i >= 0 && x[i] <= h; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
		}
	}

	rightMin := h
	for i := peak; i < len(x) && x[i] <= h; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
		}
	}

	return h - max(leftMin, rightMin)
}
