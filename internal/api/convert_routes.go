package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/SaieshPriolkar/coinvision/internal/external"
	"github.com/SaieshPriolkar/coinvision/internal/models"
)

type convertRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if s.rates == nil {
		writeError(w, http.StatusServiceUnavailable, "exchange-rate provider not configured")
		return
	}

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !validateCurrency(req.From) || !validateCurrency(req.To) {
		writeError(w, http.StatusBadRequest, "from and to must be 3-letter uppercase currency codes")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	res, err := s.rates.Convert(r.Context(), req.From, req.To, req.Amount)
	if err != nil {
		fmt.Printf("[API] Convert %s→%s failed: %v\n", req.From, req.To, err)
		if errors.Is(err, external.ErrProvider) {
			writeError(w, http.StatusBadRequest, "failed to load data")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	// The audit log is best-effort; a write failure never blocks the answer.
	if s.convRepo != nil && s.pool != nil {
		if _, err := s.convRepo.Record(r.Context(), res.From, res.To, res.Amount, res.Rate, res.Result); err != nil {
			fmt.Printf("[API] Failed to record conversion: %v\n", err)
		}
	}

	writeJSON(w, http.StatusOK, res)
}

type historyRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type historyJSON struct {
	From  string               `json:"from"`
	To    string               `json:"to"`
	Rates []external.RatePoint `json:"rates"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.rates == nil {
		writeError(w, http.StatusServiceUnavailable, "exchange-rate provider not configured")
		return
	}

	var req historyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !validateCurrency(req.From) || !validateCurrency(req.To) {
		writeError(w, http.StatusBadRequest, "from and to must be 3-letter uppercase currency codes")
		return
	}
	if !validateDate(req.Start) || !validateDate(req.End) {
		writeError(w, http.StatusBadRequest, "start and end must be YYYY-MM-DD dates")
		return
	}
	if req.End < req.Start {
		writeError(w, http.StatusBadRequest, "end date before start date")
		return
	}

	points, err := s.rates.Timeframe(r.Context(), req.From, req.To, req.Start, req.End)
	if err != nil {
		fmt.Printf("[API] History %s→%s failed: %v\n", req.From, req.To, err)
		if errors.Is(err, external.ErrProvider) {
			writeError(w, http.StatusBadRequest, "failed to load data")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	writeJSON(w, http.StatusOK, historyJSON{From: req.From, To: req.To, Rates: points})
}

func (s *Server) handleRecentConversions(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20)
	conversions, err := s.convRepo.GetRecent(r.Context(), limit)
	if err != nil {
		fmt.Printf("[API] Error fetching recent conversions: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch conversions")
		return
	}
	if conversions == nil {
		conversions = []models.Conversion{}
	}
	writeJSON(w, http.StatusOK, conversions)
}
