package insights

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrLengthMismatch   = errors.New("insights: series have different lengths")
	ErrTooFewDataPoints = errors.New("insights: at least two data points are required")
)

// Pearson returns the Pearson correlation coefficient of x and y.
// Callers guarantee equal lengths of at least two; violating that is a
// programming error reported as ErrLengthMismatch or ErrTooFewDataPoints.
// A constant series yields 0.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrTooFewDataPoints, n)
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, nil
	}

	r := cov / math.Sqrt(varX*varY)
	return clamp(r, -1, 1), nil
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the sample standard deviation (n-1 denominator).
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := Mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(n-1))
}

// PercentageDiff returns how much a differs from b, in percent of b.
func PercentageDiff(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
