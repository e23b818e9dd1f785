package finance

import (
	"fmt"
	"math"
	"time"
)

// daysPerYear averages leap years into the calendar span.
const daysPerYear = 365.25

// ElapsedYears measures the calendar span between two dates in years.
func ElapsedYears(first, last time.Time) float64 {
	return last.Sub(first).Hours() / 24 / daysPerYear
}

// Annualize returns the constant annual percentage return that produces growth
// over years: (growth^(1/years) - 1) * 100.
func Annualize(growth, years float64) (float64, error) {
	if years <= 0 || math.IsNaN(years) {
		return 0, fmt.Errorf("%w: elapsed span must be positive, got %v years", ErrInsufficientData, years)
	}
	if growth <= 0 || math.IsNaN(growth) {
		return 0, fmt.Errorf("%w: growth factor must be positive, got %v", ErrDegenerateReturn, growth)
	}
	annual := (math.Pow(growth, 1/years) - 1) * 100
	if math.IsInf(annual, 0) {
		return 0, fmt.Errorf("%w: annual return overflows for growth %v over %v years", ErrDegenerateReturn, growth, years)
	}
	return annual, nil
}
