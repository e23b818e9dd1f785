package compare

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeCompare/internal/finance"
	"feeCompare/internal/funds"
)

var (
	start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
)

// stubProvider serves fixed series and records the symbol sets it was asked for.
type stubProvider struct {
	series   map[string]finance.PriceSeries
	err      error
	requests [][]string
}

func (s *stubProvider) Fetch(_ context.Context, symbols []string, _, _ time.Time) (map[string]finance.PriceSeries, error) {
	s.requests = append(s.requests, symbols)
	if s.err != nil {
		return nil, s.err
	}
	out := map[string]finance.PriceSeries{}
	for _, sym := range symbols {
		if ps, ok := s.series[sym]; ok {
			out[sym] = ps
		}
	}
	return out, nil
}

// twoPoint is a series spanning exactly two years, growing by growth.
func twoPoint(sym string, growth float64) finance.PriceSeries {
	from := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	return finance.PriceSeries{Symbol: sym, Points: []finance.PricePoint{
		{Date: from, AdjClose: 100},
		{Date: from.Add(time.Duration(2 * 365.25 * 24 * float64(time.Hour))), AdjClose: 100 * growth},
	}}
}

func registry(t *testing.T) *funds.Registry {
	t.Helper()
	r, err := funds.New(
		[]funds.Fund{{Symbol: "IDX", ExpenseRatio: decimal.Zero}},
		[]funds.Fund{{Symbol: "ACT", ExpenseRatio: decimal.RequireFromString("1")}},
	)
	require.NoError(t, err)
	return r
}

func TestCompare(t *testing.T) {
	p := &stubProvider{series: map[string]finance.PriceSeries{
		"IDX": twoPoint("IDX", 1.21),
		"ACT": twoPoint("ACT", 1.21),
	}}
	a := NewAnalyzer(p, 1, zerolog.Nop())

	c, err := a.Compare(context.Background(), registry(t), start, end)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"IDX"}, {"ACT"}}, p.requests)
	assert.Equal(t, 1, c.PeriodsPerYear)

	idx := c.Index.Funds[0]
	assert.Equal(t, "Index Funds", c.Index.Label)
	assert.InDelta(t, 1.21, idx.FinalGrowth, 1e-12)
	assert.InDelta(t, 2.0, idx.ElapsedYears, 1e-9)
	assert.InDelta(t, 10.0, idx.AnnualReturn, 1e-6)
	assert.Len(t, idx.Cumulative.Points, 1)

	// One period per year: the 1% fee is taken once from the single 21% return.
	act := c.Active.Funds[0]
	assert.InDelta(t, 1.20, act.FinalGrowth, 1e-12)
	assert.InDelta(t, (math.Sqrt(1.20)-1)*100, act.AnnualReturn, 1e-6)
	assert.True(t, c.Active.AverageExpense.Equal(decimal.RequireFromString("1")))

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, funds.IndexGroup, groups[0].Name)
}

func TestCompare_FeeDrag(t *testing.T) {
	flat := func(sym string) finance.PriceSeries {
		pts := make([]finance.PricePoint, 253)
		for i := range pts {
			pts[i] = finance.PricePoint{Date: start.AddDate(0, 0, i), AdjClose: 50}
		}
		return finance.PriceSeries{Symbol: sym, Points: pts}
	}
	p := &stubProvider{series: map[string]finance.PriceSeries{"IDX": flat("IDX"), "ACT": flat("ACT")}}
	c, err := NewAnalyzer(p, finance.DefaultPeriodsPerYear, zerolog.Nop()).Compare(context.Background(), registry(t), start, end)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, c.Index.Funds[0].FinalGrowth, 1e-12)
	assert.Less(t, c.Active.Funds[0].FinalGrowth, 1.0)
	assert.Less(t, c.Active.Funds[0].AnnualReturn, c.Index.Funds[0].AnnualReturn)
}

func TestCompare_Aborts(t *testing.T) {
	boom := errors.New("upstream down")
	tests := []struct {
		name    string
		p       *stubProvider
		want    error
		message string
	}{
		{"provider error", &stubProvider{err: boom}, boom, "index group"},
		{"missing series", &stubProvider{series: map[string]finance.PriceSeries{"IDX": twoPoint("IDX", 1.1)}}, finance.ErrDataUnavailable, "active group"},
		{"invalid price", &stubProvider{series: map[string]finance.PriceSeries{
			"IDX": twoPoint("IDX", 1.1),
			"ACT": twoPoint("ACT", 0),
		}}, finance.ErrInvalidPrice, "ACT"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewAnalyzer(tc.p, 252, zerolog.Nop()).Compare(context.Background(), registry(t), start, end)
			assert.Nil(t, c)
			require.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestCompare_EmptyWindow(t *testing.T) {
	p := &stubProvider{}
	_, err := NewAnalyzer(p, 252, zerolog.Nop()).Compare(context.Background(), registry(t), end, start)
	assert.ErrorIs(t, err, finance.ErrConfiguration)
	assert.Empty(t, p.requests)
}
