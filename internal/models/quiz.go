package models

import "time"

// QuizQuestion is one multiple-choice question produced by the generator.
// Answer is always one of the four Options.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// QuizRecord is a persisted generated quiz.
type QuizRecord struct {
	ID        int64          `json:"id"`
	Topic     string         `json:"topic"`
	Model     string         `json:"model"`
	Questions []QuizQuestion `json:"questions"`
	CreatedAt time.Time      `json:"createdAt"`
}
