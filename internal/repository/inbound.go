package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

type InboundWebhookRepository struct {
	pool PgxPool
}

func NewInboundWebhookRepository(pool PgxPool) *InboundWebhookRepository {
	return &InboundWebhookRepository{pool: pool}
}

const inboundColumns = `id, name, pipeline_id, phase_id, secret_token, hmac_secret,
		field_mappings, default_tags, default_temperature, is_active, allowed_ips,
		requests_today, last_request_at, created_at, updated_at`

func (r *InboundWebhookRepository) Create(ctx context.Context, iw *domain.InboundWebhook) error {
	query := `
		INSERT INTO inbound_webhooks (id, name, pipeline_id, phase_id, secret_token, hmac_secret,
			field_mappings, default_tags, default_temperature, is_active, allowed_ips, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if iw.ID == uuid.Nil {
		iw.ID = uuid.New()
	}
	if iw.DefaultTemperature == "" {
		iw.DefaultTemperature = domain.TemperatureWarm
	}

	mappingsJSON, err := json.Marshal(mappingsOrEmpty(iw.FieldMappings))
	if err != nil {
		return fmt.Errorf("marshal field mappings: %w", err)
	}
	tagsJSON, err := json.Marshal(stringsOrEmpty(iw.DefaultTags))
	if err != nil {
		return fmt.Errorf("marshal default tags: %w", err)
	}
	ipsJSON, err := json.Marshal(stringsOrEmpty(iw.AllowedIPs))
	if err != nil {
		return fmt.Errorf("marshal allowed ips: %w", err)
	}

	err = r.pool.QueryRow(ctx, query,
		iw.ID, iw.Name, iw.PipelineID, iw.PhaseID, iw.SecretToken, iw.HMACSecret,
		mappingsJSON, tagsJSON, iw.DefaultTemperature, iw.IsActive, ipsJSON,
	).Scan(&iw.CreatedAt, &iw.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return &domain.AppError{
				Code:       "TOKEN_CONFLICT",
				Message:    "An inbound webhook with this token already exists",
				StatusCode: 409,
			}
		}
		return fmt.Errorf("create inbound webhook: %w", err)
	}

	return nil
}

func (r *InboundWebhookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InboundWebhook, error) {
	query := `SELECT ` + inboundColumns + ` FROM inbound_webhooks WHERE id = $1`

	iw, err := scanInboundWebhook(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWebhookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get inbound webhook by id: %w", err)
	}

	return iw, nil
}

func (r *InboundWebhookRepository) GetByToken(ctx context.Context, token string) (*domain.InboundWebhook, error) {
	query := `SELECT ` + inboundColumns + ` FROM inbound_webhooks WHERE secret_token = $1`

	iw, err := scanInboundWebhook(r.pool.QueryRow(ctx, query, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("get inbound webhook by token: %w", err)
	}

	return iw, nil
}

func (r *InboundWebhookRepository) List(ctx context.Context) ([]*domain.InboundWebhook, error) {
	query := `SELECT ` + inboundColumns + ` FROM inbound_webhooks ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inbound webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []*domain.InboundWebhook
	for rows.Next() {
		iw, err := scanInboundWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inbound webhook: %w", err)
		}
		webhooks = append(webhooks, iw)
	}

	return webhooks, rows.Err()
}

func (r *InboundWebhookRepository) Update(ctx context.Context, iw *domain.InboundWebhook) error {
	query := `
		UPDATE inbound_webhooks
		SET name = $2, pipeline_id = $3, phase_id = $4, hmac_secret = $5,
			field_mappings = $6, default_tags = $7, default_temperature = $8,
			is_active = $9, allowed_ips = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	mappingsJSON, err := json.Marshal(mappingsOrEmpty(iw.FieldMappings))
	if err != nil {
		return fmt.Errorf("marshal field mappings: %w", err)
	}
	tagsJSON, err := json.Marshal(stringsOrEmpty(iw.DefaultTags))
	if err != nil {
		return fmt.Errorf("marshal default tags: %w", err)
	}
	ipsJSON, err := json.Marshal(stringsOrEmpty(iw.AllowedIPs))
	if err != nil {
		return fmt.Errorf("marshal allowed ips: %w", err)
	}

	err = r.pool.QueryRow(ctx, query,
		iw.ID, iw.Name, iw.PipelineID, iw.PhaseID, iw.HMACSecret,
		mappingsJSON, tagsJSON, iw.DefaultTemperature, iw.IsActive, ipsJSON,
	).Scan(&iw.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrWebhookNotFound
	}
	if err != nil {
		return fmt.Errorf("update inbound webhook: %w", err)
	}

	return nil
}

func (r *InboundWebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM inbound_webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inbound webhook: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWebhookNotFound
	}

	return nil
}

// RecordRequest bumps the daily counter and the last-request timestamp in
// one update. The counter restarts when the previous request fell on an
// earlier day, so no external reset job is needed.
func (r *InboundWebhookRepository) RecordRequest(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE inbound_webhooks
		SET requests_today = CASE
				WHEN last_request_at IS NULL OR last_request_at::date < NOW()::date THEN 1
				ELSE requests_today + 1
			END,
			last_request_at = NOW()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("record inbound request: %w", err)
	}

	return nil
}

func scanInboundWebhook(row pgx.Row) (*domain.InboundWebhook, error) {
	var iw domain.InboundWebhook
	var mappingsJSON, tagsJSON, ipsJSON []byte

	err := row.Scan(
		&iw.ID, &iw.Name, &iw.PipelineID, &iw.PhaseID, &iw.SecretToken,
		&iw.HMACSecret, &mappingsJSON, &tagsJSON, &iw.DefaultTemperature,
		&iw.IsActive, &ipsJSON, &iw.RequestsToday, &iw.LastRequestAt,
		&iw.CreatedAt, &iw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(mappingsJSON, &iw.FieldMappings); err != nil {
		return nil, fmt.Errorf("unmarshal field mappings: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &iw.DefaultTags); err != nil {
		return nil, fmt.Errorf("unmarshal default tags: %w", err)
	}
	if err := json.Unmarshal(ipsJSON, &iw.AllowedIPs); err != nil {
		return nil, fmt.Errorf("unmarshal allowed ips: %w", err)
	}

	return &iw, nil
}

func mappingsOrEmpty(m []domain.FieldMapping) []domain.FieldMapping {
	if m == nil {
		return []domain.FieldMapping{}
	}
	return m
}
