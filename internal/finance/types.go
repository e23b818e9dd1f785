package finance

import "time"

// DefaultPeriodsPerYear is the conventional count of trading days in a year.
const DefaultPeriodsPerYear = 252

// PricePoint is one adjusted close observation.
type PricePoint struct {
	Date     time.Time
	AdjClose float64
}

// PriceSeries is the ordered price history of one symbol. Dates are strictly increasing.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// ReturnPoint is a dated scalar: a simple return, a fee-adjusted return or a growth factor.
type ReturnPoint struct {
	Date  time.Time
	Value float64
}

// ReturnSeries holds period-over-period simple returns. Entry i is dated at the
// later of the two prices it was computed from.
type ReturnSeries struct {
	Symbol string
	Points []ReturnPoint
}

// CumulativeSeries holds running growth factors relative to a unit investment
// made at the first price of the window.
type CumulativeSeries struct {
	Symbol string
	Points []ReturnPoint
}

// Last returns the final growth factor, or 0 if the series is empty.
func (c CumulativeSeries) Last() float64 {
	if len(c.Points) == 0 {
		return 0
	}
	return c.Points[len(c.Points)-1].Value
}

// Dates returns the date axis of a price series.
func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}
