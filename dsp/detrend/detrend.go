// Package detrend removes slow drift and motion-correlated components from
// EEG channel series by ordinary least squares.
package detrend

import (
	"fmt"

	"github.com/cwbudde/algo-qeeg/dsp/core"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// Errors returned by the detrending functions.
var (
	ErrTooShort       = fmt.Errorf("detrend: need at least 2 samples: %w", core.ErrInsufficientData)
	ErrMotionMismatch = fmt.Errorf("detrend: motion channels must both be present with the series length: %w", core.ErrInvalidConfiguration)
	ErrMotionFit      = fmt.Errorf("detrend: motion regression did not converge: %w", core.ErrInsufficientData)
)

// rankTol is the singular value, relative to the largest, below which a
// direction of the motion design is treated as absent.
const rankTol = 1e-10

// Detrend returns series with its linear trend against sample index removed
// and, when motion channels are given, the least-squares fit of the residual
// on (motionX, motionY) removed as well.
//
// motionX and motionY must both be nil or both have len(series) samples.
// The input slices are not modified.
func Detrend(series, motionX, motionY []float64) ([]float64, error) {
	if (motionX == nil) != (motionY == nil) {
		return nil, ErrMotionMismatch
	}
	if motionX != nil && (len(motionX) != len(series) || len(motionY) != len(series)) {
		return nil, fmt.Errorf("%w: series %d, motion %d/%d", ErrMotionMismatch, len(series), len(motionX), len(motionY))
	}

	residual, err := Linear(series)
	if err != nil {
		return nil, err
	}

	if motionX == nil {
		return residual, nil
	}

	if err := removeMotion(residual, motionX, motionY); err != nil {
		return nil, err
	}
	return residual, nil
}

// Linear returns series minus its best-fit line against sample index.
func Linear(series []float64) ([]float64, error) {
	n := len(series)
	if n < 2 {
		return nil, ErrTooShort
	}

	// Centre the index so the regression sums stay well conditioned for long
	// recordings.
	mid := float64(n-1) / 2
	points := make(stats.Series, n)
	for i, v := range series {
		points[i] = stats.Coordinate{X: float64(i) - mid, Y: v}
	}

	fit, err := stats.LinearRegression(points)
	if err != nil {
		return nil, fmt.Errorf("detrend: linear fit: %w", err)
	}

	out := make([]float64, n)
	for i, v := range series {
		out[i] = v - fit[i].Y
	}
	return out, nil
}

// removeMotion subtracts the least-squares fit of r on an intercept and the
// two motion regressors, in place. A rank-deficient design (constant or
// collinear motion) uses the minimum-norm solution.
func removeMotion(r, mx, my []float64) error {
	n := len(r)
	design := mat.NewDense(n, 3, nil)
	for i := range r {
		design.Set(i, 0, 1)
		design.Set(i, 1, mx[i])
		design.Set(i, 2, my[i])
	}

	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDThin) {
		return ErrMotionFit
	}

	// The intercept column keeps the rank at 1 or more.
	rank := svd.Rank(rankTol)

	var beta mat.VecDense
	svd.SolveVecTo(&beta, mat.NewVecDense(n, r), rank)

	b0, bx, by := beta.AtVec(0), beta.AtVec(1), beta.AtVec(2)
	for i := range r {
		r[i] -= b0 + bx*mx[i] + by*my[i]
	}
	return nil
}
