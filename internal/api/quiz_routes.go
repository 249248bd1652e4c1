package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SaieshPriolkar/coinvision/internal/models"
	"github.com/SaieshPriolkar/coinvision/internal/quiz"
)

type quizRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "generative provider not configured")
		return
	}

	// Body is optional; an empty or absent topic falls back to the default.
	var req quizRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	topic := req.Topic
	if topic == "" {
		topic = quiz.DefaultTopic
	}

	questions, err := s.generator.GenerateQuiz(r.Context(), topic)
	if err != nil {
		fmt.Printf("[QUIZ] Generation failed: %v\n", err)
		writeError(w, http.StatusBadGateway, "failed to generate quiz")
		return
	}

	// History is best-effort; a write failure never blocks the quiz.
	if s.quizRepo != nil && s.pool != nil {
		if _, err := s.quizRepo.Record(r.Context(), topic, s.generator.Model(), questions); err != nil {
			fmt.Printf("[QUIZ] Failed to record quiz: %v\n", err)
		}
	}

	writeJSON(w, http.StatusOK, questions)
}

func (s *Server) handleRecentQuizzes(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 10)
	quizzes, err := s.quizRepo.GetRecent(r.Context(), limit)
	if err != nil {
		fmt.Printf("[QUIZ] Error fetching recent quizzes: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch quizzes")
		return
	}
	if quizzes == nil {
		quizzes = []models.QuizRecord{}
	}
	writeJSON(w, http.StatusOK, quizzes)
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageJSON struct {
	ImageURL string `json:"imageUrl"`
}

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "generative provider not configured")
		return
	}

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	url, err := s.generator.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		fmt.Printf("[QUIZ] Image generation failed: %v\n", err)
		writeError(w, http.StatusBadGateway, "failed to generate image")
		return
	}

	writeJSON(w, http.StatusOK, imageJSON{ImageURL: url})
}
