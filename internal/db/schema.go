package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	id            BIGSERIAL PRIMARY KEY,
	from_currency TEXT NOT NULL,
	to_currency   TEXT NOT NULL,
	amount        DOUBLE PRECISION NOT NULL,
	rate          DOUBLE PRECISION NOT NULL,
	result        DOUBLE PRECISION NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS quiz_history (
	id         BIGSERIAL PRIMARY KEY,
	topic      TEXT NOT NULL,
	model      TEXT NOT NULL,
	questions  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_quiz_history_created_at ON quiz_history (created_at DESC);
`

// EnsureSchema creates the history tables if they don't exist yet.
func EnsureSchema(p *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := p.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
