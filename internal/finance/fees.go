package finance

import (
	"fmt"
	"math"
)

// DailyFee converts an annual expense ratio (in percent) into the constant
// per-period drag that compounds back to it over periodsPerYear periods:
// (1 + pct/100)^(1/periodsPerYear) - 1.
func DailyFee(annualExpensePercent float64, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("%w: periods per year must be positive, got %d", ErrConfiguration, periodsPerYear)
	}
	if annualExpensePercent < 0 || math.IsNaN(annualExpensePercent) {
		return 0, fmt.Errorf("%w: expense ratio must be non-negative, got %v", ErrConfiguration, annualExpensePercent)
	}
	annualRate := annualExpensePercent / 100
	return math.Pow(1+annualRate, 1/float64(periodsPerYear)) - 1, nil
}

// ApplyDailyFee subtracts the daily fee equivalent of annualExpensePercent from
// every return. Length and dates are preserved; the input is not modified.
//
// Subtracting a compounded fee from simple returns is an approximation; it is
// the documented method and intentionally left as is.
func ApplyDailyFee(returns ReturnSeries, annualExpensePercent float64, periodsPerYear int) (ReturnSeries, error) {
	fee, err := DailyFee(annualExpensePercent, periodsPerYear)
	if err != nil {
		return ReturnSeries{}, fmt.Errorf("%s: %w", returns.Symbol, err)
	}
	out := make([]ReturnPoint, len(returns.Points))
	for i, r := range returns.Points {
		out[i] = ReturnPoint{Date: r.Date, Value: r.Value - fee}
	}
	return ReturnSeries{Symbol: returns.Symbol, Points: out}, nil
}
