package finance

import (
	"sort"
	"time"
)

// dropMissing removes null observations, keeping timestamp and value arrays aligned.
// Non-positive values are kept so the return calculator can reject them.
func dropMissing(ts []int64, cl []*float64) ([]int64, []float64) {
	if len(ts) != len(cl) {
		n := len(ts)
		if len(cl) < n {
			n = len(cl)
		}
		ts = ts[:n]
		cl = cl[:n]
	}
	outTs := make([]int64, 0, len(ts))
	outCl := make([]float64, 0, len(cl))
	for i := 0; i < len(ts); i++ {
		if cl[i] == nil {
			continue
		}
		outTs = append(outTs, ts[i])
		outCl = append(outCl, *cl[i])
	}
	return outTs, outCl
}

// toDailyPoints maps bar timestamps to their trading date in loc and returns
// one point per date, sorted. When a date repeats the last bar wins (Yahoo
// re-emits the live session as an extra bar).
func toDailyPoints(ts []int64, cl []float64, loc *time.Location) []PricePoint {
	byDate := make(map[time.Time]float64, len(ts))
	for i, t := range ts {
		byDate[marketDate(t, loc)] = cl[i]
	}
	out := make([]PricePoint, 0, len(byDate))
	for d, v := range byDate {
		out = append(out, PricePoint{Date: d, AdjClose: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
