package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SaieshPriolkar/coinvision/internal/catalog"
	"github.com/SaieshPriolkar/coinvision/internal/models"
	"github.com/SaieshPriolkar/coinvision/internal/series"
)

const (
	defaultYearsAgo = 20
	maxYearsAgo     = 80
	chartYears      = 50
)

type historicalValueRequest struct {
	Token    string `json:"token"`    // e.g. "INR-200"
	Compare  string `json:"compare"`  // e.g. "USD"
	YearsAgo int    `json:"yearsAgo"` // defaults to 20
}

type historicalValueJSON struct {
	Token   string                  `json:"token"`
	Compare string                  `json:"compare"`
	Series  models.SeriesDescriptor `json:"series"`
	Forward bool                    `json:"forward"`
	Value   float64                 `json:"value"`
	Year    int                     `json:"year"`
	Chart   []models.Observation    `json:"chart"`
}

// handleHistoricalValue resolves a CUR-amount token against the currency
// catalog and answers what that amount was worth yearsAgo years back, plus
// the trailing 50-year chart window for the matched series.
func (s *Server) handleHistoricalValue(w http.ResponseWriter, r *http.Request) {
	if s.fred == nil {
		writeError(w, http.StatusServiceUnavailable, "series provider not configured")
		return
	}

	var req historicalValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Compare == "" {
		req.Compare = "USD"
	}
	if !validateCurrency(req.Compare) {
		writeError(w, http.StatusBadRequest, "compare must be a 3-letter uppercase currency code")
		return
	}
	if req.YearsAgo == 0 {
		req.YearsAgo = defaultYearsAgo
	}
	if req.YearsAgo < 1 || req.YearsAgo > maxYearsAgo {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("yearsAgo must be between 1 and %d", maxYearsAgo))
		return
	}

	match, err := series.Resolve(req.Token, req.Compare, catalog.Group(s.catalog, catalog.CurrencyGroup))
	if err != nil {
		switch {
		case errors.Is(err, series.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, series.ErrNotFound):
			writeError(w, http.StatusNotFound, "currency pair not found")
		default:
			writeError(w, http.StatusInternalServerError, "resolve failed")
		}
		return
	}

	obs, err := s.fred.FetchSeries(r.Context(), match.Descriptor.ID)
	if err != nil {
		fmt.Printf("[API] Error fetching series %s: %v\n", match.Descriptor.ID, err)
		writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	value, err := series.HistoricalValue(obs, match.Amount, req.YearsAgo, match.Forward)
	if err != nil {
		if errors.Is(err, series.ErrInsufficientData) {
			writeError(w, http.StatusUnprocessableEntity, "not enough historical data")
			return
		}
		writeError(w, http.StatusInternalServerError, "calculation failed")
		return
	}

	writeJSON(w, http.StatusOK, historicalValueJSON{
		Token:   req.Token,
		Compare: req.Compare,
		Series:  match.Descriptor,
		Forward: match.Forward,
		Value:   value,
		Year:    time.Now().Year() - req.YearsAgo,
		Chart:   series.ChartWindow(obs, chartYears),
	})
}

type projectionJSON struct {
	Initial       float64           `json:"initial"`
	NominalRate   float64           `json:"nominalRate"`
	Years         int               `json:"years"`
	InflationRate float64           `json:"inflationRate"`
	Projection    series.Projection `json:"projection"`
}

// handleInflationProjection compounds an amount at a nominal rate and
// deflates it by the latest CPI reading. An empty CPI series projects at
// zero inflation rather than failing.
func (s *Server) handleInflationProjection(w http.ResponseWriter, r *http.Request) {
	if s.fred == nil {
		writeError(w, http.StatusServiceUnavailable, "series provider not configured")
		return
	}

	q := r.URL.Query()
	initial, err := strconv.ParseFloat(q.Get("initial"), 64)
	if err != nil || initial <= 0 {
		writeError(w, http.StatusBadRequest, "initial must be a positive number")
		return
	}
	rate, err := strconv.ParseFloat(q.Get("rate"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "rate must be a decimal (0.05 = 5%)")
		return
	}
	years, err := strconv.Atoi(q.Get("years"))
	if err != nil || years < 1 || years > 100 {
		writeError(w, http.StatusBadRequest, "years must be between 1 and 100")
		return
	}

	cpi, err := s.fred.FetchSeries(r.Context(), catalog.InflationSeriesID)
	if err != nil {
		fmt.Printf("[API] Error fetching CPI series: %v\n", err)
		writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	inflationRate := series.LatestInflationRate(cpi)
	writeJSON(w, http.StatusOK, projectionJSON{
		Initial:       initial,
		NominalRate:   rate,
		Years:         years,
		InflationRate: inflationRate,
		Projection:    series.RealValue(initial, rate, years, inflationRate),
	})
}

type adjustedJSON struct {
	Amount   float64              `json:"amount"`
	SeriesID string               `json:"seriesId"`
	Points   []models.Observation `json:"points"`
}

// handleInflationAdjusted rescales the CPI series into the purchasing
// power of a fixed amount over time.
func (s *Server) handleInflationAdjusted(w http.ResponseWriter, r *http.Request) {
	if s.fred == nil {
		writeError(w, http.StatusServiceUnavailable, "series provider not configured")
		return
	}

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	cpi, err := s.fred.FetchSeries(r.Context(), catalog.InflationSeriesID)
	if err != nil {
		fmt.Printf("[API] Error fetching CPI series: %v\n", err)
		writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	points := series.AdjustedSeries(amount, cpi)
	if points == nil {
		writeError(w, http.StatusUnprocessableEntity, "not enough historical data")
		return
	}

	writeJSON(w, http.StatusOK, adjustedJSON{
		Amount:   amount,
		SeriesID: catalog.InflationSeriesID,
		Points:   points,
	})
}
