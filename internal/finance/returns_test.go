package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturns_ConstantGrowth(t *testing.T) {
	for _, r := range []float64{0.01, -0.02, 0.1, 0} {
		prices := make([]float64, 30)
		for i := range prices {
			prices[i] = 50 * math.Pow(1+r, float64(i))
		}
		got, err := Returns(series("X", prices...))
		require.NoError(t, err)
		require.Len(t, got.Points, 29)
		for i, p := range got.Points {
			assert.InDelta(t, r, p.Value, 1e-12, "r=%v index %d", r, i)
		}
	}
}

func TestReturns_TwoPeriodsOfTenPercent(t *testing.T) {
	got, err := Returns(series("X", 100, 110, 121))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.10, 0.10}, values(got.Points), 1e-12)
	assert.Equal(t, day0.AddDate(0, 0, 1), got.Points[0].Date)
	assert.Equal(t, day0.AddDate(0, 0, 2), got.Points[1].Date)
	assert.Equal(t, "X", got.Symbol)
}

func TestReturns_SinglePoint(t *testing.T) {
	_, err := Returns(series("X", 100))
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Returns(series("X"))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestReturns_InvalidPrices(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
	}{
		{"zero", []float64{100, 0, 101}},
		{"negative", []float64{100, 101, -3}},
		{"first zero", []float64{0, 100}},
		{"nan", []float64{100, math.NaN()}},
		{"inf", []float64{100, math.Inf(1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Returns(series("X", tc.prices...))
			assert.ErrorIs(t, err, ErrInvalidPrice)
		})
	}
}
