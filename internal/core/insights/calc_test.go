package insights

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
		want float64
	}{
		{"Perfect positive", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"Perfect negative", []float64{1, 2, 3}, []float64{3, 2, 1}, -1},
		{"Partial positive", []float64{1, 2, 3, 4, 5}, []float64{2, 4, 5, 4, 5}, 0.7746},
		{"Constant X returns zero", []float64{4, 4, 4, 4}, []float64{1, 5, 2, 8}, 0},
		{"Constant Y returns zero", []float64{1, 5, 2, 8}, []float64{3, 3, 3, 3}, 0},
		{"Two points", []float64{0, 1}, []float64{10, 20}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pearson(tt.x, tt.y)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestPearson_ContractViolations(t *testing.T) {
	t.Run("Fail: Length mismatch", func(t *testing.T) {
		_, err := Pearson([]float64{1, 2, 3}, []float64{1, 2})
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("Fail: Single point", func(t *testing.T) {
		_, err := Pearson([]float64{1}, []float64{2})
		assert.ErrorIs(t, err, ErrTooFewDataPoints)
	})

	t.Run("Fail: Empty", func(t *testing.T) {
		_, err := Pearson(nil, nil)
		assert.ErrorIs(t, err, ErrTooFewDataPoints)
	})
}

func TestPearson_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := 2 + rng.Intn(58)
		x := make([]float64, n)
		y := make([]float64, n)
		for j := 0; j < n; j++ {
			x[j] = rng.NormFloat64()*15 + 60
			y[j] = rng.NormFloat64()*3 + 5
		}

		rxy, err := Pearson(x, y)
		require.NoError(t, err)
		ryx, err := Pearson(y, x)
		require.NoError(t, err)
		rxx, err := Pearson(x, x)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, rxy, -1.0)
		assert.LessOrEqual(t, rxy, 1.0)
		assert.InDelta(t, rxy, ryx, 1e-12, "Pearson must be symmetric")
		assert.InDelta(t, 1.0, rxx, 1e-9, "A series correlates perfectly with itself")
	}
}

func TestMeanAndStdDev(t *testing.T) {
	t.Run("Mean", func(t *testing.T) {
		assert.Equal(t, 0.0, Mean(nil))
		assert.Equal(t, 5.0, Mean([]float64{5}))
		assert.Equal(t, 5.0, Mean([]float64{2, 4, 4, 4, 5, 5, 7, 9}))
	})

	t.Run("Sample StdDev", func(t *testing.T) {
		assert.Equal(t, 0.0, StdDev(nil))
		assert.Equal(t, 0.0, StdDev([]float64{42}), "n < 2 has no spread")
		assert.InDelta(t, 2.138, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
	})
}

func TestPercentageDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"Increase", 55, 50, 10},
		{"Decrease", 45, 50, -10},
		{"Equal", 50, 50, 0},
		{"Zero baseline returns zero", 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PercentageDiff(tt.a, tt.b), 1e-9)
		})
	}
}
