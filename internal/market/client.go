// Package market fetches the SPY intraday close used as the Market Index
// feature. Lookups never fail: any problem yields the fallback value.
package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"salary-backend/internal/shared/metrics"
	"salary-backend/internal/shared/telemetry"
)

const (
	// Fallback stands in for the index whenever a live value is unavailable.
	Fallback = 400.0

	DefaultURL     = "https://www.alphavantage.co/query"
	DefaultTimeout = 10 * time.Second

	seriesKey = "Time Series (5min)"
	closeKey  = `4\. close`
	maxBody   = 4 << 20
)

// Source yields the current index and whether it is live.
type Source interface {
	Lookup(ctx context.Context) (float64, bool)
}

// Client performs the quote lookup against an Alpha Vantage compatible endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client. Empty baseURL or non-positive timeout use defaults.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup returns the most recent 5 minute close and true, or (Fallback, false).
func (c *Client) Lookup(ctx context.Context) (float64, bool) {
	value, err := c.fetch(ctx)
	if err != nil {
		metrics.IncMarketFallback()
		telemetry.Warn("market.fallback", map[string]any{"err": err.Error(), "value": Fallback})
		return Fallback, false
	}
	return value, true
}

func (c *Client) fetch(ctx context.Context) (v float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("market lookup panic: %v", rec)
		}
	}()
	if c == nil {
		return 0, fmt.Errorf("market client not configured")
	}
	if c.apiKey == "" {
		return 0, fmt.Errorf("ALPHA_VANTAGE_API_KEY is empty")
	}

	q := url.Values{}
	q.Set("function", "TIME_SERIES_INTRADAY")
	q.Set("symbol", "SPY")
	q.Set("interval", "5min")
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("market request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("market status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, fmt.Errorf("market read: %w", err)
	}
	return latestClose(body)
}

// latestClose picks the newest timestamp in the intraday series.
func latestClose(body []byte) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("market response is not valid json")
	}
	var series gjson.Result
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		if key.String() == seriesKey {
			series = value
			return false
		}
		return true
	})
	if !series.IsObject() {
		return 0, fmt.Errorf("market response missing %q", seriesKey)
	}

	var latest string
	var bar gjson.Result
	series.ForEach(func(key, value gjson.Result) bool {
		if ts := key.String(); ts > latest {
			latest = ts
			bar = value
		}
		return true
	})
	if latest == "" {
		return 0, fmt.Errorf("market series is empty")
	}

	closeVal := bar.Get(closeKey)
	if !closeVal.Exists() {
		return 0, fmt.Errorf("market bar %s missing close", latest)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(closeVal.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("market close %q: %w", closeVal.String(), err)
	}
	return value, nil
}

var _ Source = (*Client)(nil)

// Resolve picks the Market Index a caller should use. Callers that opted out
// of market data get 0 regardless of the lookup; otherwise a failed lookup
// yields Fallback.
func Resolve(value float64, ok, use bool) float64 {
	if !use {
		return 0
	}
	if !ok {
		return Fallback
	}
	return value
}
