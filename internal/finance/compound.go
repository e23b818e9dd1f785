package finance

import "fmt"

// Compound turns returns into a running product of (1 + r). A period where
// 1 + r <= 0 would wipe out (or invert) the position and is rejected.
func Compound(returns ReturnSeries) (CumulativeSeries, error) {
	if len(returns.Points) == 0 {
		return CumulativeSeries{}, fmt.Errorf("%w: %s has no returns to compound", ErrInsufficientData, returns.Symbol)
	}
	out := make([]ReturnPoint, len(returns.Points))
	growth := 1.0
	for i, r := range returns.Points {
		factor := 1 + r.Value
		if factor <= 0 {
			return CumulativeSeries{}, fmt.Errorf("%w: %s on %s (index %d): return %v", ErrDegenerateReturn, returns.Symbol, r.Date.Format("2006-01-02"), i, r.Value)
		}
		growth *= factor
		out[i] = ReturnPoint{Date: r.Date, Value: growth}
	}
	return CumulativeSeries{Symbol: returns.Symbol, Points: out}, nil
}
