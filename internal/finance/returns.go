package finance

import (
	"fmt"
	"math"
)

// Returns converts a price series into simple period-over-period returns:
// r[i] = p[i+1]/p[i] - 1. The result is one entry shorter than the input.
func Returns(prices PriceSeries) (ReturnSeries, error) {
	if len(prices.Points) < 2 {
		return ReturnSeries{}, fmt.Errorf("%w: %s has %d price points, need at least 2", ErrInsufficientData, prices.Symbol, len(prices.Points))
	}
	for i, p := range prices.Points {
		if p.AdjClose <= 0 || math.IsNaN(p.AdjClose) || math.IsInf(p.AdjClose, 0) {
			return ReturnSeries{}, fmt.Errorf("%w: %s on %s (index %d): %v", ErrInvalidPrice, prices.Symbol, p.Date.Format("2006-01-02"), i, p.AdjClose)
		}
	}

	out := make([]ReturnPoint, len(prices.Points)-1)
	for i := 1; i < len(prices.Points); i++ {
		out[i-1] = ReturnPoint{
			Date:  prices.Points[i].Date,
			Value: prices.Points[i].AdjClose/prices.Points[i-1].AdjClose - 1,
		}
	}
	return ReturnSeries{Symbol: prices.Symbol, Points: out}, nil
}
