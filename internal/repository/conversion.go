package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/SaieshPriolkar/coinvision/internal/models"
)

type ConversionRepo struct {
	pool *pgxpool.Pool
}

func NewConversionRepo(pool *pgxpool.Pool) *ConversionRepo {
	return &ConversionRepo{pool: pool}
}

func (r *ConversionRepo) Record(ctx context.Context, from, to string, amount, rate, result float64) (*models.Conversion, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO conversions (from_currency, to_currency, amount, rate, result)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, from_currency, to_currency, amount, rate, result, created_at`,
		from, to, amount, rate, result,
	)
	return scanConversion(row)
}

func (r *ConversionRepo) GetRecent(ctx context.Context, limit int) ([]models.Conversion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, from_currency, to_currency, amount, rate, result, created_at
		 FROM conversions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Conversion
	for rows.Next() {
		var c models.Conversion
		if err := rows.Scan(&c.ID, &c.From, &c.To, &c.Amount, &c.Rate, &c.Result, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanConversion(row scannable) (*models.Conversion, error) {
	var c models.Conversion
	if err := row.Scan(&c.ID, &c.From, &c.To, &c.Amount, &c.Rate, &c.Result, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
