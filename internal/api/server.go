package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/SaieshPriolkar/coinvision/internal/external"
	"github.com/SaieshPriolkar/coinvision/internal/models"
	"github.com/SaieshPriolkar/coinvision/internal/notifications"
	"github.com/SaieshPriolkar/coinvision/internal/repository"
)

const maxQueryLimit = 100

var (
	dateRegexp     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	currencyRegexp = regexp.MustCompile(`^[A-Z]{3}$`)
)

// SeriesFetcher is the economic-series provider consumed by the handlers.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, id string) ([]models.Observation, error)
	FetchAll(ctx context.Context, ids []string) (models.SeriesData, error)
}

// RateClient is the exchange-rate provider.
type RateClient interface {
	Convert(ctx context.Context, from, to string, amount float64) (*external.ConversionResult, error)
	Timeframe(ctx context.Context, from, to, start, end string) ([]external.RatePoint, error)
}

// ContentGenerator is the generative quiz/image provider.
type ContentGenerator interface {
	GenerateQuiz(ctx context.Context, topic string) ([]models.QuizQuestion, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	Model() string
}

type Server struct {
	pool       *pgxpool.Pool
	catalog    []models.MarketGroup
	fred       SeriesFetcher
	rates      RateClient
	generator  ContentGenerator
	quizRepo   *repository.QuizRepo
	convRepo   *repository.ConversionRepo
	notify     *notifications.Sender
	httpServer *http.Server
	apiKey     string
}

func NewServer(pool *pgxpool.Pool, cat []models.MarketGroup, fred SeriesFetcher, rates RateClient,
	generator ContentGenerator, notify *notifications.Sender, port int, apiKey, corsOrigin string) *Server {

	s := &Server{
		pool:      pool,
		catalog:   cat,
		fred:      fred,
		rates:     rates,
		generator: generator,
		quizRepo:  repository.NewQuizRepo(pool),
		convRepo:  repository.NewConversionRepo(pool),
		notify:    notify,
		apiKey:    apiKey,
	}

	mux := http.NewServeMux()

	// Catalog and series routes
	mux.HandleFunc("GET /v1/catalog", s.handleCatalog)
	mux.HandleFunc("GET /v1/series/{id}", s.handleSeries)
	mux.HandleFunc("GET /v1/dashboard", s.handleDashboard)

	// Conversion routes
	mux.HandleFunc("POST /v1/convert", s.handleConvert)
	mux.HandleFunc("POST /v1/history", s.handleHistory)
	mux.HandleFunc("GET /v1/conversions/recent", s.handleRecentConversions)

	// Calculator routes
	mux.HandleFunc("POST /v1/historical-value", s.handleHistoricalValue)
	mux.HandleFunc("GET /v1/inflation/projection", s.handleInflationProjection)
	mux.HandleFunc("GET /v1/inflation/adjusted", s.handleInflationAdjusted)

	// Generative routes
	mux.HandleFunc("POST /v1/quiz", s.handleGenerateQuiz)
	mux.HandleFunc("GET /v1/quiz/recent", s.handleRecentQuizzes)
	mux.HandleFunc("POST /v1/image", s.handleGenerateImage)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := s.authMiddleware(corsMiddleware(mux, corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func validateCurrency(code string) bool {
	return currencyRegexp.MatchString(code)
}

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
