package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

type DealRepository struct {
	pool PgxPool
}

func NewDealRepository(pool PgxPool) *DealRepository {
	return &DealRepository{pool: pool}
}

const dealColumns = `id, pipeline_id, phase_id, contact_name, email, phone, company,
		value, notes, tags, temperature, source_webhook_id, created_at, updated_at`

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	query := `
		INSERT INTO deals (id, pipeline_id, phase_id, contact_name, email, phone, company,
			value, notes, tags, temperature, source_webhook_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	if deal.Temperature == "" {
		deal.Temperature = domain.TemperatureWarm
	}

	tagsJSON, err := json.Marshal(stringsOrEmpty(deal.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	err = r.pool.QueryRow(ctx, query,
		deal.ID, deal.PipelineID, deal.PhaseID, deal.ContactName, deal.Email,
		deal.Phone, deal.Company, deal.Value, deal.Notes, tagsJSON,
		deal.Temperature, deal.SourceWebhookID,
	).Scan(&deal.CreatedAt, &deal.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create deal: %w", err)
	}

	return nil
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	deal, err := scanDeal(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deal by id: %w", err)
	}

	return deal, nil
}

// FindRecentLead looks for a deal created by the same inbound webhook for
// the same lead identity (matching email or phone) since the given cutoff.
// Empty identity fields never match.
func (r *DealRepository) FindRecentLead(ctx context.Context, inboundWebhookID uuid.UUID, email, phone string, since time.Time) (*domain.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE source_webhook_id = $1
		  AND created_at >= $2
		  AND (($3 != '' AND email = $3) OR ($4 != '' AND phone = $4))
		ORDER BY created_at DESC
		LIMIT 1
	`

	deal, err := scanDeal(r.pool.QueryRow(ctx, query, inboundWebhookID, since, email, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recent lead: %w", err)
	}

	return deal, nil
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var d domain.Deal
	var tagsJSON []byte

	err := row.Scan(
		&d.ID, &d.PipelineID, &d.PhaseID, &d.ContactName, &d.Email, &d.Phone,
		&d.Company, &d.Value, &d.Notes, &tagsJSON, &d.Temperature,
		&d.SourceWebhookID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &d.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}

	return &d, nil
}
