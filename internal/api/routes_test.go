package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SaieshPriolkar/coinvision/internal/catalog"
	"github.com/SaieshPriolkar/coinvision/internal/external"
	"github.com/SaieshPriolkar/coinvision/internal/models"
)

// --- fakes ---

type fakeFetcher struct {
	series map[string][]models.Observation
	err    error
}

func (f *fakeFetcher) FetchSeries(ctx context.Context, id string) ([]models.Observation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.series[id], nil
}

func (f *fakeFetcher) FetchAll(ctx context.Context, ids []string) (models.SeriesData, error) {
	if f.err != nil {
		return nil, f.err
	}
	data := make(models.SeriesData, len(ids))
	for _, id := range ids {
		obs := f.series[id]
		if obs == nil {
			obs = []models.Observation{}
		}
		data[id] = obs
	}
	return data, nil
}

type fakeRates struct {
	convertRes *external.ConversionResult
	convertErr error
	points     []external.RatePoint
	tfErr      error
}

func (f *fakeRates) Convert(ctx context.Context, from, to string, amount float64) (*external.ConversionResult, error) {
	return f.convertRes, f.convertErr
}

func (f *fakeRates) Timeframe(ctx context.Context, from, to, start, end string) ([]external.RatePoint, error) {
	return f.points, f.tfErr
}

type fakeGenerator struct {
	questions []models.QuizQuestion
	imageURL  string
	err       error
}

func (f *fakeGenerator) GenerateQuiz(ctx context.Context, topic string) ([]models.QuizQuestion, error) {
	return f.questions, f.err
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return f.imageURL, f.err
}

func (f *fakeGenerator) Model() string { return "fake-model" }

func monthlySeries(n int) []models.Observation {
	obs := make([]models.Observation, n)
	for i := 0; i < n; i++ {
		obs[i] = models.Observation{
			Date:  fmt.Sprintf("%04d-%02d-01", 1975+i/12, i%12+1),
			Value: 40 + float64(i)*0.05,
		}
	}
	return obs
}

func testServer(fred SeriesFetcher, rates RateClient, gen ContentGenerator) *Server {
	return &Server{
		catalog:   catalog.Default(),
		fred:      fred,
		rates:     rates,
		generator: gen,
	}
}

// --- convert ---

func TestHandleConvert(t *testing.T) {
	s := testServer(nil, &fakeRates{
		convertRes: &external.ConversionResult{From: "USD", To: "EUR", Amount: 150, Rate: 0.92, Result: 138},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/convert",
		strings.NewReader(`{"from":"USD","to":"EUR","amount":150}`))
	rr := httptest.NewRecorder()
	s.handleConvert(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var res external.ConversionResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Result != 138 {
		t.Fatalf("result: got %f", res.Result)
	}
}

func TestHandleConvert_BadCurrency(t *testing.T) {
	s := testServer(nil, &fakeRates{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/convert",
		strings.NewReader(`{"from":"usd","to":"EUR","amount":1}`))
	rr := httptest.NewRecorder()
	s.handleConvert(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleConvert_ProviderRefusal(t *testing.T) {
	s := testServer(nil, &fakeRates{
		convertErr: fmt.Errorf("currencylayer live: access restricted: %w", external.ErrProvider),
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/convert",
		strings.NewReader(`{"from":"USD","to":"EUR","amount":1}`))
	rr := httptest.NewRecorder()
	s.handleConvert(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for provider refusal, got %d", rr.Code)
	}
	// Root cause stays in the logs, not the response body.
	if strings.Contains(rr.Body.String(), "access restricted") {
		t.Fatal("provider detail leaked to client")
	}
}

func TestHandleConvert_NotConfigured(t *testing.T) {
	s := testServer(nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/convert",
		strings.NewReader(`{"from":"USD","to":"EUR","amount":1}`))
	rr := httptest.NewRecorder()
	s.handleConvert(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

// --- history ---

func TestHandleHistory(t *testing.T) {
	s := testServer(nil, &fakeRates{
		points: []external.RatePoint{
			{Date: "2024-01-01", Rate: 0.91},
			{Date: "2024-01-02", Rate: 0.92},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/history",
		strings.NewReader(`{"from":"USD","to":"EUR","start":"2024-01-01","end":"2024-01-31"}`))
	rr := httptest.NewRecorder()
	s.handleHistory(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var res historyJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Rates) != 2 || res.Rates[0].Date != "2024-01-01" {
		t.Fatalf("rates wrong: %+v", res.Rates)
	}
}

func TestHandleHistory_BadDates(t *testing.T) {
	s := testServer(nil, &fakeRates{}, nil)
	for _, body := range []string{
		`{"from":"USD","to":"EUR","start":"01-01-2024","end":"2024-01-31"}`,
		`{"from":"USD","to":"EUR","start":"2024-02-01","end":"2024-01-31"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/v1/history", strings.NewReader(body))
		rr := httptest.NewRecorder()
		s.handleHistory(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rr.Code)
		}
	}
}

// --- historical value ---

func TestHandleHistoricalValue(t *testing.T) {
	obs := monthlySeries(600)
	s := testServer(&fakeFetcher{series: map[string][]models.Observation{"DEXINUS": obs}}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/historical-value",
		strings.NewReader(`{"token":"INR-200","compare":"USD","yearsAgo":20}`))
	rr := httptest.NewRecorder()
	s.handleHistoricalValue(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var res historicalValueJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Series.ID != "DEXINUS" {
		t.Fatalf("series: got %s", res.Series.ID)
	}
	if res.Forward {
		t.Fatal("INR is not the source side of USD to INR")
	}
	want := 200 * obs[600-240].Value
	if math.Abs(res.Value-want) > 1e-9 {
		t.Fatalf("value: got %f, want %f", res.Value, want)
	}
	if len(res.Chart) != 600 {
		t.Fatalf("chart window: got %d points", len(res.Chart))
	}
}

func TestHandleHistoricalValue_InvalidToken(t *testing.T) {
	s := testServer(&fakeFetcher{}, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/historical-value",
		strings.NewReader(`{"token":"inr200","compare":"USD"}`))
	rr := httptest.NewRecorder()
	s.handleHistoricalValue(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleHistoricalValue_PairNotFound(t *testing.T) {
	s := testServer(&fakeFetcher{}, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/historical-value",
		strings.NewReader(`{"token":"XXX-5","compare":"USD"}`))
	rr := httptest.NewRecorder()
	s.handleHistoricalValue(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHandleHistoricalValue_EmptySeries(t *testing.T) {
	s := testServer(&fakeFetcher{series: map[string][]models.Observation{}}, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/historical-value",
		strings.NewReader(`{"token":"INR-200","compare":"USD"}`))
	rr := httptest.NewRecorder()
	s.handleHistoricalValue(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty series, got %d", rr.Code)
	}
}

// --- inflation ---

func TestHandleInflationProjection(t *testing.T) {
	cpi := []models.Observation{
		{Date: "2024-01-01", Value: 2.9},
		{Date: "2024-02-01", Value: 3.2},
	}
	s := testServer(&fakeFetcher{series: map[string][]models.Observation{catalog.InflationSeriesID: cpi}}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/inflation/projection?initial=1000&rate=0.05&years=5", nil)
	rr := httptest.NewRecorder()
	s.handleInflationProjection(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var res projectionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(res.InflationRate-0.032) > 1e-12 {
		t.Fatalf("inflation rate: got %f", res.InflationRate)
	}
	if len(res.Projection.Trajectory) != 5 {
		t.Fatalf("trajectory: got %d points", len(res.Projection.Trajectory))
	}
}

func TestHandleInflationProjection_EmptyCPIDefaultsToZero(t *testing.T) {
	s := testServer(&fakeFetcher{series: map[string][]models.Observation{}}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/inflation/projection?initial=1000&rate=0.05&years=3", nil)
	rr := httptest.NewRecorder()
	s.handleInflationProjection(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with zero-inflation default, got %d", rr.Code)
	}
	var res projectionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.InflationRate != 0 {
		t.Fatalf("inflation rate: got %f, want 0", res.InflationRate)
	}
	// With zero inflation, real equals nominal.
	if res.Projection.RealFinal != res.Projection.NominalFinal {
		t.Fatalf("real %f != nominal %f", res.Projection.RealFinal, res.Projection.NominalFinal)
	}
}

func TestHandleInflationProjection_BadParams(t *testing.T) {
	s := testServer(&fakeFetcher{}, nil, nil)
	for _, q := range []string{
		"initial=0&rate=0.05&years=5",
		"initial=1000&rate=abc&years=5",
		"initial=1000&rate=0.05&years=0",
	} {
		req := httptest.NewRequest(http.MethodGet, "/v1/inflation/projection?"+q, nil)
		rr := httptest.NewRecorder()
		s.handleInflationProjection(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("query %s: expected 400, got %d", q, rr.Code)
		}
	}
}

func TestHandleInflationAdjusted(t *testing.T) {
	cpi := []models.Observation{
		{Date: "2020-01-01", Value: 100},
		{Date: "2022-01-01", Value: 120},
	}
	s := testServer(&fakeFetcher{series: map[string][]models.Observation{catalog.InflationSeriesID: cpi}}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/inflation/adjusted?amount=600", nil)
	rr := httptest.NewRecorder()
	s.handleInflationAdjusted(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var res adjustedJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Points) != 2 {
		t.Fatalf("points: got %d", len(res.Points))
	}
	if math.Abs(res.Points[0].Value-500) > 1e-9 {
		t.Fatalf("oldest point: got %f, want 500", res.Points[0].Value)
	}
}

// --- dashboard / series ---

func TestHandleDashboard(t *testing.T) {
	fred := &fakeFetcher{series: map[string][]models.Observation{
		"DEXINUS": monthlySeries(12),
	}}
	s := testServer(fred, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	rr := httptest.NewRecorder()
	s.handleDashboard(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var res dashboardJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Every catalog series id appears, fetched or empty.
	for _, id := range catalog.IDs(s.catalog) {
		if _, ok := res.SeriesData[id]; !ok {
			t.Fatalf("series %s missing from dashboard", id)
		}
	}
}

func TestHandleDashboard_BatchFailure(t *testing.T) {
	s := testServer(&fakeFetcher{err: &external.FetchError{SeriesID: "DEXUSEU", Err: fmt.Errorf("boom")}}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	rr := httptest.NewRecorder()
	s.handleDashboard(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "failed to load data") {
		t.Fatalf("expected generic message, got %s", rr.Body.String())
	}
}

func TestHandleSeries_NotConfigured(t *testing.T) {
	s := testServer(nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/series/CPIAUCSL", nil)
	req.SetPathValue("id", "CPIAUCSL")
	rr := httptest.NewRecorder()
	s.handleSeries(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

// --- quiz / image ---

func TestHandleGenerateQuiz(t *testing.T) {
	questions := []models.QuizQuestion{
		{Question: "Q?", Options: []string{"A", "B", "C", "D"}, Answer: "A"},
	}
	s := testServer(nil, nil, &fakeGenerator{questions: questions})

	req := httptest.NewRequest(http.MethodPost, "/v1/quiz", strings.NewReader(`{"topic":"world currencies"}`))
	rr := httptest.NewRecorder()
	s.handleGenerateQuiz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var res []models.QuizQuestion
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res) != 1 || res[0].Answer != "A" {
		t.Fatalf("quiz wrong: %+v", res)
	}
}

func TestHandleGenerateQuiz_NotConfigured(t *testing.T) {
	s := testServer(nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/quiz", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	s.handleGenerateQuiz(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestHandleGenerateImage(t *testing.T) {
	s := testServer(nil, nil, &fakeGenerator{imageURL: "data:image/png;base64,AAAA"})

	req := httptest.NewRequest(http.MethodPost, "/v1/image", strings.NewReader(`{"prompt":"a rupee note"}`))
	rr := httptest.NewRecorder()
	s.handleGenerateImage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var res imageJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(res.ImageURL, "data:image/png") {
		t.Fatalf("imageUrl: got %q", res.ImageURL)
	}
}

func TestHandleGenerateImage_MissingPrompt(t *testing.T) {
	s := testServer(nil, nil, &fakeGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/v1/image", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	s.handleGenerateImage(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
