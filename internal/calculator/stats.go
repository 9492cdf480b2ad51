package calculator

import (
	"errors"
	"math"
)

var (
	ErrEmpty            = errors.New("empty dataset")
	ErrInsufficientData = errors.New("not enough data")
	ErrZeroVariance     = errors.New("zero variance")
	ErrLengthMismatch   = errors.New("series length mismatch")
)

// Mean returns the arithmetic mean.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmpty
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), nil
}

// SampleStdDev is the standard deviation with Bessel's correction (n-1).
// It needs at least two values.
func SampleStdDev(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmpty
	}
	if len(xs) < 2 {
		return 0, ErrInsufficientData
	}
	ss, err := sumSquares(xs)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(ss / float64(len(xs)-1)), nil
}

func sumSquares(xs []float64) (float64, error) {
	mean, err := Mean(xs)
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return ss, nil
}

// Pearson computes the correlation coefficient of two equally long series.
// A constant series has no defined correlation and yields ErrZeroVariance.
func Pearson(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, ErrLengthMismatch
	}
	if len(xs) == 0 {
		return 0, ErrEmpty
	}
	if len(xs) < 2 {
		return 0, ErrInsufficientData
	}
	mx, _ := Mean(xs)
	my, _ := Mean(ys)

	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, ErrZeroVariance
	}
	r := sxy / math.Sqrt(sxx*syy)
	// Rounding can push |r| a hair past 1.
	return math.Max(-1, math.Min(1, r)), nil
}
