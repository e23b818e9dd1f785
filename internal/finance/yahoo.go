package finance

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// yahooChartResp mirrors the Yahoo v8 chart response (trimmed to needed fields).
// Prices are pointers because Yahoo reports missing sessions as null.
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

var (
	defaultYahooHosts = []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"}
	defaultBackoffs   = []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}
)

// YahooSource fetches daily adjusted closes from the Yahoo Finance chart API.
type YahooSource struct {
	Client *http.Client
	// Hosts are tried in order on every attempt.
	Hosts    []string
	Backoffs []time.Duration
	// RequestTimeout bounds a single HTTP round trip.
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// NewYahooSource returns a source using the public Yahoo hosts.
func NewYahooSource(requestTimeout time.Duration, log zerolog.Logger) *YahooSource {
	return &YahooSource{
		Client:         &http.Client{},
		Hosts:          defaultYahooHosts,
		Backoffs:       defaultBackoffs,
		RequestTimeout: requestTimeout,
		Logger:         log,
	}
}

// Series returns the daily adjusted close history of symbol between start and end.
func (y *YahooSource) Series(ctx context.Context, symbol string, start, end time.Time) (PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	yc, err := y.fetchChart(ctx, symbol, start, end)
	if err != nil {
		return PriceSeries{}, err
	}
	if len(yc.Chart.Result) == 0 {
		if yc.Chart.Error != nil {
			return PriceSeries{}, fmt.Errorf("%w: %s: %s", ErrDataUnavailable, symbol, yc.Chart.Error.Description)
		}
		return PriceSeries{}, fmt.Errorf("%w: yahoo returned no result for %s", ErrDataUnavailable, symbol)
	}
	res := yc.Chart.Result[0]

	values := res.Indicators.Quote
	var closes []*float64
	if len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) > 0 {
		closes = res.Indicators.AdjClose[0].AdjClose
	} else if len(values) > 0 {
		y.Logger.Warn().Str("symbol", symbol).Msg("no adjclose in response, using close")
		closes = values[0].Close
	}
	if len(res.Timestamp) == 0 || len(closes) == 0 {
		return PriceSeries{}, fmt.Errorf("%w: empty bars for %s", ErrDataUnavailable, symbol)
	}

	loc := exchangeLocation(res.Meta.ExchangeTimezoneName)
	ts, cl := dropMissing(res.Timestamp, closes)
	return PriceSeries{Symbol: symbol, Points: toDailyPoints(ts, cl, loc)}, nil
}
