package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

type ConversionRepository struct {
	pool PgxPool
}

func NewConversionRepository(pool PgxPool) *ConversionRepository {
	return &ConversionRepository{pool: pool}
}

func (r *ConversionRepository) GetByDealID(ctx context.Context, dealID uuid.UUID) (*domain.Conversion, error) {
	query := `
		SELECT id, deal_id, platform, conversion_id, value, uploaded_at, created_at
		FROM conversions
		WHERE deal_id = $1
	`

	var c domain.Conversion
	err := r.pool.QueryRow(ctx, query, dealID).Scan(
		&c.ID, &c.DealID, &c.Platform, &c.ConversionID,
		&c.Value, &c.UploadedAt, &c.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversion by deal: %w", err)
	}

	return &c, nil
}

func (r *ConversionRepository) Create(ctx context.Context, c *domain.Conversion) error {
	query := `
		INSERT INTO conversions (id, deal_id, platform, conversion_id, value, uploaded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.DealID, c.Platform, c.ConversionID, c.Value, c.UploadedAt,
	).Scan(&c.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return &domain.AppError{
				Code:       "CONVERSION_EXISTS",
				Message:    "A conversion for this deal was already recorded",
				StatusCode: 409,
			}
		}
		return fmt.Errorf("create conversion: %w", err)
	}

	return nil
}
