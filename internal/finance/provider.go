package finance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Provider returns adjusted close series for a set of symbols, all aligned on
// one common, strictly increasing date axis.
type Provider interface {
	Fetch(ctx context.Context, symbols []string, start, end time.Time) (map[string]PriceSeries, error)
}

// Source returns the raw (unaligned) history of a single symbol.
type Source interface {
	Series(ctx context.Context, symbol string, start, end time.Time) (PriceSeries, error)
}

// AligningProvider fetches each symbol from a Source, one after another, and
// intersects their date axes.
type AligningProvider struct {
	Source Source
	// Pause between symbols, to stay under upstream rate limits.
	Pause  time.Duration
	Logger zerolog.Logger
}

// NewAligningProvider wraps src.
func NewAligningProvider(src Source, pause time.Duration, log zerolog.Logger) *AligningProvider {
	return &AligningProvider{Source: src, Pause: pause, Logger: log}
}

func (p *AligningProvider) Fetch(ctx context.Context, symbols []string, start, end time.Time) (map[string]PriceSeries, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols requested", ErrConfiguration)
	}
	raw := make(map[string]PriceSeries, len(symbols))
	for i, sym := range symbols {
		if i > 0 && p.Pause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.Pause):
			}
		}
		s, err := p.Source.Series(ctx, sym, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", sym, err)
		}
		if len(s.Points) == 0 {
			return nil, fmt.Errorf("%w: no data for %s between %s and %s", ErrDataUnavailable, sym, start.Format("2006-01-02"), end.Format("2006-01-02"))
		}
		p.Logger.Debug().Str("symbol", sym).Int("points", len(s.Points)).Msg("fetched series")
		raw[sym] = s
	}
	aligned, err := Align(raw)
	if err != nil {
		return nil, err
	}
	for sym, s := range aligned {
		if dropped := len(raw[sym].Points) - len(s.Points); dropped > 0 {
			p.Logger.Debug().Str("symbol", sym).Int("dropped", dropped).Msg("dates outside common axis")
		}
	}
	return aligned, nil
}

// Align keeps only the dates present in every series. Fewer than two common
// dates leaves nothing to compute a return from.
func Align(series map[string]PriceSeries) (map[string]PriceSeries, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no series to align", ErrDataUnavailable)
	}

	count := map[time.Time]int{}
	for _, s := range series {
		for _, p := range s.Points {
			count[p.Date]++
		}
	}
	common := make([]time.Time, 0, len(count))
	for d, c := range count {
		if c == len(series) {
			common = append(common, d)
		}
	}
	if len(common) < 2 {
		return nil, fmt.Errorf("%w: only %d overlapping dates across %d symbols", ErrInsufficientData, len(common), len(series))
	}
	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })

	out := make(map[string]PriceSeries, len(series))
	for sym, s := range series {
		byDate := make(map[time.Time]float64, len(s.Points))
		for _, p := range s.Points {
			byDate[p.Date] = p.AdjClose
		}
		pts := make([]PricePoint, len(common))
		for i, d := range common {
			pts[i] = PricePoint{Date: d, AdjClose: byDate[d]}
		}
		out[sym] = PriceSeries{Symbol: sym, Points: pts}
	}
	return out, nil
}

// CheckAligned verifies the provider contract: every requested symbol is
// present and all series share one strictly increasing date axis.
func CheckAligned(series map[string]PriceSeries, symbols []string) error {
	var axis []time.Time
	for i, sym := range symbols {
		s, ok := series[sym]
		if !ok {
			return fmt.Errorf("%w: provider returned no series for %s", ErrDataUnavailable, sym)
		}
		for j := 1; j < len(s.Points); j++ {
			if !s.Points[j].Date.After(s.Points[j-1].Date) {
				return fmt.Errorf("%w: %s dates not strictly increasing at index %d", ErrDataUnavailable, sym, j)
			}
		}
		if i == 0 {
			axis = s.Dates()
			continue
		}
		if len(s.Points) != len(axis) {
			return fmt.Errorf("%w: %s has %d dates, %s has %d", ErrDataUnavailable, sym, len(s.Points), symbols[0], len(axis))
		}
		for j, p := range s.Points {
			if !p.Date.Equal(axis[j]) {
				return fmt.Errorf("%w: %s misaligned with %s at index %d (%s vs %s)", ErrDataUnavailable, sym, symbols[0], j, p.Date.Format("2006-01-02"), axis[j].Format("2006-01-02"))
			}
		}
	}
	return nil
}
