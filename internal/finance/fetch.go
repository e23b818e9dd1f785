package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// permanentError marks a response that retrying will not fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// fetchChart fetches the daily chart for symbol, rotating hosts and backing off
// between rounds. Exhausting every attempt surfaces ErrDataUnavailable.
func (y *YahooSource) fetchChart(ctx context.Context, symbol string, start, end time.Time) (*yahooChartResp, error) {
	var lastErr error
	for attempt := 0; attempt < len(y.Backoffs)+1; attempt++ {
		for _, host := range y.Hosts {
			yc, err := y.getChart(ctx, host, symbol, start, end)
			if err == nil {
				return yc, nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var perm *permanentError
			if errors.As(err, &perm) {
				return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, symbol, perm.err)
			}
			y.Logger.Debug().Err(err).Str("symbol", symbol).Str("host", host).Int("attempt", attempt).Msg("yahoo request failed")
			lastErr = err
		}
		if attempt < len(y.Backoffs) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(y.Backoffs[attempt]):
			}
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrDataUnavailable, symbol, len(y.Backoffs)+1, lastErr)
}

func (y *YahooSource) getChart(ctx context.Context, host, symbol string, start, end time.Time) (*yahooChartResp, error) {
	if y.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.RequestTimeout)
		defer cancel()
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div,splits&includeAdjustedClose=true",
		strings.TrimRight(host, "/"), url.PathEscape(symbol), start.Unix(), end.Unix())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &permanentError{err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/history", symbol))

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", host)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, &permanentError{fmt.Errorf("yahoo %s returned 404: %s", host, preview(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}
	var yc yahooChartResp
	if err := json.Unmarshal(body, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
	}
	return &yc, nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
