package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

type InboundWebhookLogRepository struct {
	pool PgxPool
}

func NewInboundWebhookLogRepository(pool PgxPool) *InboundWebhookLogRepository {
	return &InboundWebhookLogRepository{pool: pool}
}

func (r *InboundWebhookLogRepository) Create(ctx context.Context, log *domain.InboundWebhookLog) error {
	query := `
		INSERT INTO inbound_webhook_logs (id, inbound_webhook_id, source_ip, raw_payload,
			mapped_payload, deal_id, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		log.ID, log.InboundWebhookID, log.SourceIP, log.RawPayload,
		nullableJSON(log.MappedPayload), log.DealID, log.Status, log.ErrorMessage,
	).Scan(&log.CreatedAt)

	if err != nil {
		return fmt.Errorf("create inbound log: %w", err)
	}

	return nil
}

func (r *InboundWebhookLogRepository) List(ctx context.Context, filter domain.InboundLogFilter) ([]*domain.InboundWebhookLog, error) {
	query := `
		SELECT id, inbound_webhook_id, source_ip, raw_payload, mapped_payload,
			deal_id, status, error_message, created_at
		FROM inbound_webhook_logs
		WHERE 1=1`
	args := []interface{}{}

	if filter.InboundWebhookID != nil {
		args = append(args, *filter.InboundWebhookID)
		query += fmt.Sprintf(" AND inbound_webhook_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inbound logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.InboundWebhookLog
	for rows.Next() {
		var l domain.InboundWebhookLog
		err := rows.Scan(
			&l.ID, &l.InboundWebhookID, &l.SourceIP, &l.RawPayload,
			&l.MappedPayload, &l.DealID, &l.Status, &l.ErrorMessage, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan inbound log: %w", err)
		}
		logs = append(logs, &l)
	}

	return logs, rows.Err()
}

// nullableJSON maps an empty byte slice to NULL so jsonb columns never see
// invalid empty input
func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
