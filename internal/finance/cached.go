package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"feeCompare/internal/storage"
)

// CachedSource serves series from the SQLite price cache when a fetch covering
// the requested days is younger than TTL, and refreshes it from Inner otherwise.
type CachedSource struct {
	Inner  Source
	Store  *storage.Store
	TTL    time.Duration
	Logger zerolog.Logger
	now    func() time.Time
}

func NewCachedSource(inner Source, store *storage.Store, ttl time.Duration, log zerolog.Logger) *CachedSource {
	return &CachedSource{Inner: inner, Store: store, TTL: ttl, Logger: log, now: time.Now}
}

func (c *CachedSource) Series(ctx context.Context, symbol string, start, end time.Time) (PriceSeries, error) {
	startDay, endDay := dayKey(start), dayKey(end)

	cov, ok, err := c.Store.CoverageOf(symbol)
	if err != nil {
		return PriceSeries{}, fmt.Errorf("cache lookup %s: %w", symbol, err)
	}
	age := c.now().Sub(time.Unix(cov.FetchedAt, 0))
	if ok && cov.Start <= startDay && cov.End >= endDay && age < c.TTL {
		pts, err := c.Store.LoadPrices(symbol, startDay, endDay)
		if err != nil {
			return PriceSeries{}, fmt.Errorf("cache load %s: %w", symbol, err)
		}
		c.Logger.Debug().Str("symbol", symbol).Int("points", len(pts)).Dur("age", age).Msg("cache hit")
		return fromCached(symbol, pts), nil
	}

	s, err := c.Inner.Series(ctx, symbol, start, end)
	if err != nil {
		return PriceSeries{}, err
	}
	rows := make([]storage.PricePoint, len(s.Points))
	for i, p := range s.Points {
		rows[i] = storage.PricePoint{Day: dayKey(p.Date), AdjClose: p.AdjClose}
	}
	err = c.Store.ReplacePrices(symbol, storage.Coverage{Start: startDay, End: endDay, FetchedAt: c.now().Unix()}, rows)
	if err != nil {
		c.Logger.Warn().Err(err).Str("symbol", symbol).Msg("cache write failed")
	}
	return s, nil
}

// dayKey truncates t to its calendar day, as unix seconds of UTC midnight.
func dayKey(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

func fromCached(symbol string, pts []storage.PricePoint) PriceSeries {
	out := make([]PricePoint, len(pts))
	for i, p := range pts {
		out[i] = PricePoint{Date: time.Unix(p.Day, 0).UTC(), AdjClose: p.AdjClose}
	}
	return PriceSeries{Symbol: symbol, Points: out}
}
