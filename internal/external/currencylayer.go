package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/SaieshPriolkar/coinvision/internal/httputil"
)

const currencyLayerBaseURL = "https://api.currencylayer.com"

type CurrencyLayerClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

type CurrencyLayerOptions struct {
	// BaseURL overrides the currencylayer endpoint (tests).
	BaseURL string
}

func NewCurrencyLayerClient(apiKey string, opts CurrencyLayerOptions) *CurrencyLayerClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = currencyLayerBaseURL
	}
	return &CurrencyLayerClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
	}
}

type ConversionResult struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
	Result float64 `json:"result"`
}

type clError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

// Convert fetches the live quote for from→to and applies it to amount.
func (c *CurrencyLayerClient) Convert(ctx context.Context, from, to string, amount float64) (*ConversionResult, error) {
	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("source", from)
	q.Set("currencies", to)
	q.Set("format", "1")
	reqURL := c.baseURL + "/live?" + q.Encode()

	var raw struct {
		Success bool               `json:"success"`
		Quotes  map[string]float64 `json:"quotes"`
		Error   clError            `json:"error"`
	}
	err := httputil.DoJSON(ctx, c.httpClient, c.retry, &raw, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("currencylayer live: %w", err)
	}
	if !raw.Success {
		return nil, fmt.Errorf("currencylayer live (code %d): %s: %w", raw.Error.Code, raw.Error.Info, ErrProvider)
	}

	rate, ok := raw.Quotes[from+to]
	if !ok {
		return nil, fmt.Errorf("currencylayer live: quote %s%s missing: %w", from, to, ErrProvider)
	}

	return &ConversionResult{
		From:   from,
		To:     to,
		Amount: amount,
		Rate:   rate,
		Result: amount * rate,
	}, nil
}

type RatePoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// Timeframe fetches daily from→to rates for [start, end] and reshapes the
// provider's date-keyed quote map into a date-ascending slice. The map
// carries no order, so the dates are sorted explicitly.
func (c *CurrencyLayerClient) Timeframe(ctx context.Context, from, to, start, end string) ([]RatePoint, error) {
	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("start_date", start)
	q.Set("end_date", end)
	q.Set("source", from)
	q.Set("currencies", to)
	reqURL := c.baseURL + "/timeframe?" + q.Encode()

	var raw struct {
		Success bool                          `json:"success"`
		Quotes  map[string]map[string]float64 `json:"quotes"`
		Error   clError                       `json:"error"`
	}
	err := httputil.DoJSON(ctx, c.httpClient, c.retry, &raw, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("currencylayer timeframe: %w", err)
	}
	if !raw.Success {
		return nil, fmt.Errorf("currencylayer timeframe (code %d): %s: %w", raw.Error.Code, raw.Error.Info, ErrProvider)
	}

	pairKey := from + to
	points := make([]RatePoint, 0, len(raw.Quotes))
	for date, quotes := range raw.Quotes {
		rate, ok := quotes[pairKey]
		if !ok {
			continue
		}
		points = append(points, RatePoint{Date: date, Rate: rate})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}
