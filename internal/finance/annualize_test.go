package finance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualize_Inverse(t *testing.T) {
	for _, g := range []float64{0.5, 1, 1.8, 3.2} {
		annual, err := Annualize(g, 5)
		require.NoError(t, err)
		assert.InDelta(t, (math.Pow(g, 0.2)-1)*100, annual, 1e-12)
		assert.InDelta(t, g, math.Pow(1+annual/100, 5), 1e-9)
	}
}

func TestAnnualize_TenPercentScenario(t *testing.T) {
	rets, err := Returns(series("X", 100, 110, 121))
	require.NoError(t, err)
	cum, err := Compound(rets)
	require.NoError(t, err)
	annual, err := Annualize(cum.Last(), 2)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, annual, 1e-9)
}

func TestAnnualize_InvalidSpan(t *testing.T) {
	_, err := Annualize(1.2, 0)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Annualize(1.2, -1)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Annualize(0, 1)
	assert.ErrorIs(t, err, ErrDegenerateReturn)
}

func TestElapsedYears(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 1.0, ElapsedYears(start, start.Add(time.Duration(365.25*24)*time.Hour)), 1e-9)
	assert.InDelta(t, 25.0, ElapsedYears(start, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), 0.01)
	assert.Equal(t, 0.0, ElapsedYears(start, start))
}
