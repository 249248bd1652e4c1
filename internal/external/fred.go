package external

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SaieshPriolkar/coinvision/internal/httputil"
	"github.com/SaieshPriolkar/coinvision/internal/models"
)

const fredBaseURL = "https://api.stlouisfed.org/fred"

type FREDClient struct {
	apiKey     string
	baseURL    string
	lenient    bool
	httpClient *http.Client
	retry      httputil.RetryConfig
}

type FREDOptions struct {
	// BaseURL overrides the FRED endpoint (tests).
	BaseURL string
	// Lenient maps a failed series fetch to an empty series in FetchAll
	// instead of failing the whole batch.
	Lenient bool
}

func NewFREDClient(apiKey string, opts FREDOptions) *FREDClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fredBaseURL
	}
	return &FREDClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		lenient:    opts.Lenient,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

// FetchSeries pulls the full observation list for one series id and parses
// it into numeric points. FRED encodes missing values as "."; those and any
// other non-numeric entries are dropped, not kept as nulls.
func (c *FREDClient) FetchSeries(ctx context.Context, id string) ([]models.Observation, error) {
	q := url.Values{}
	q.Set("series_id", id)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	reqURL := c.baseURL + "/series/observations?" + q.Encode()

	var raw struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	err := httputil.DoJSON(ctx, c.httpClient, c.retry, &raw, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, &FetchError{SeriesID: id, Err: err}
	}

	obs := make([]models.Observation, 0, len(raw.Observations))
	for _, o := range raw.Observations {
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		obs = append(obs, models.Observation{Date: o.Date, Value: v})
	}
	return obs, nil
}

// FetchAll fetches every id concurrently and joins on completion of all of
// them. In the default strict mode any single failure fails the batch; in
// lenient mode a failed series becomes an empty slice and the rest of the
// dashboard survives.
func (c *FREDClient) FetchAll(ctx context.Context, ids []string) (models.SeriesData, error) {
	results := make([][]models.Observation, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			obs, err := c.FetchSeries(gctx, id)
			if err != nil {
				if c.lenient {
					fmt.Printf("[FRED] %v - serving empty series\n", err)
					return nil
				}
				return err
			}
			results[i] = obs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := make(models.SeriesData, len(ids))
	for i, id := range ids {
		if results[i] == nil {
			results[i] = []models.Observation{}
		}
		data[id] = results[i]
	}
	return data, nil
}
