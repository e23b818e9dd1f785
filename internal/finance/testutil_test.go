package finance

import "time"

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// series builds a daily series starting at day0.
func series(symbol string, prices ...float64) PriceSeries {
	pts := make([]PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = PricePoint{Date: day0.AddDate(0, 0, i), AdjClose: p}
	}
	return PriceSeries{Symbol: symbol, Points: pts}
}

func returnSeries(symbol string, values ...float64) ReturnSeries {
	pts := make([]ReturnPoint, len(values))
	for i, v := range values {
		pts[i] = ReturnPoint{Date: day0.AddDate(0, 0, i+1), Value: v}
	}
	return ReturnSeries{Symbol: symbol, Points: pts}
}

func values(pts []ReturnPoint) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}
