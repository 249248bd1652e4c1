package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/SaieshPriolkar/coinvision/internal/models"
)

type QuizRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRepo(pool *pgxpool.Pool) *QuizRepo {
	return &QuizRepo{pool: pool}
}

func (r *QuizRepo) Record(ctx context.Context, topic, model string, questions []models.QuizQuestion) (*models.QuizRecord, error) {
	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("marshal questions: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO quiz_history (topic, model, questions)
		 VALUES ($1, $2, $3) RETURNING id, topic, model, questions, created_at`,
		topic, model, payload,
	)
	return scanQuiz(row)
}

func (r *QuizRepo) GetRecent(ctx context.Context, limit int) ([]models.QuizRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, topic, model, questions, created_at
		 FROM quiz_history ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.QuizRecord
	for rows.Next() {
		var q models.QuizRecord
		var payload []byte
		if err := rows.Scan(&q.ID, &q.Topic, &q.Model, &payload, &q.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &q.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions for quiz %d: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func scanQuiz(row scannable) (*models.QuizRecord, error) {
	var q models.QuizRecord
	var payload []byte
	if err := row.Scan(&q.ID, &q.Topic, &q.Model, &payload, &q.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &q.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions for quiz %d: %w", q.ID, err)
	}
	return &q, nil
}
