package api

import (
	"fmt"
	"net/http"

	"github.com/SaieshPriolkar/coinvision/internal/catalog"
	"github.com/SaieshPriolkar/coinvision/internal/models"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

type seriesJSON struct {
	ID           string                   `json:"id"`
	Descriptor   *models.SeriesDescriptor `json:"descriptor,omitempty"`
	Observations []models.Observation     `json:"observations"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if s.fred == nil {
		writeError(w, http.StatusServiceUnavailable, "series provider not configured")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing series id")
		return
	}

	obs, err := s.fred.FetchSeries(r.Context(), id)
	if err != nil {
		fmt.Printf("[API] Error fetching series %s: %v\n", id, err)
		writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	writeJSON(w, http.StatusOK, seriesJSON{
		ID:           id,
		Descriptor:   catalog.Find(s.catalog, id),
		Observations: obs,
	})
}

type dashboardJSON struct {
	Catalog    []models.MarketGroup `json:"catalog"`
	SeriesData models.SeriesData    `json:"seriesData"`
}

// handleDashboard fetches every catalog series in one concurrent batch.
// One failed series fails the whole response unless the fetcher runs in
// lenient mode.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.fred == nil {
		writeError(w, http.StatusServiceUnavailable, "series provider not configured")
		return
	}

	data, err := s.fred.FetchAll(r.Context(), catalog.IDs(s.catalog))
	if err != nil {
		fmt.Printf("[API] Dashboard batch failed: %v\n", err)
		if s.notify != nil {
			s.notify.Send(fmt.Sprintf("dashboard batch failed: %v", err))
		}
		writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	writeJSON(w, http.StatusOK, dashboardJSON{
		Catalog:    s.catalog,
		SeriesData: data,
	})
}
