package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Database      string `json:"database"`
	SeriesData    string `json:"seriesData"`
	ExchangeRates string `json:"exchangeRates"`
	Generative    string `json:"generative"`
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if s.pool == nil {
		dbStatus = "not configured"
	} else if err := s.pool.Ping(r.Context()); err != nil {
		dbStatus = "disconnected"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: healthServices{
			Database:      dbStatus,
			SeriesData:    configured(s.fred != nil),
			ExchangeRates: configured(s.rates != nil),
			Generative:    configured(s.generator != nil),
		},
	})
}
