package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// WebhookLogRepository is the append-only ledger of outbound delivery
// attempts. Terminal rows are never updated: every state-changing query is
// guarded by a non-terminal status predicate, and a claimed 'retrying' row
// doubles as the durable task for the next attempt.
type WebhookLogRepository struct {
	pool PgxPool
}

func NewWebhookLogRepository(pool PgxPool) *WebhookLogRepository {
	return &WebhookLogRepository{pool: pool}
}

const webhookLogColumns = `id, webhook_id, event_id, event_type, payload, attempt, status,
		response_status, response_body, latency_ms, error_message, next_retry_at, created_at`

func (r *WebhookLogRepository) Create(ctx context.Context, log *domain.WebhookLog) error {
	query := `
		INSERT INTO webhook_logs (id, webhook_id, event_id, event_type, payload, attempt, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.Attempt == 0 {
		log.Attempt = 1
	}
	if log.Status == "" {
		log.Status = domain.DeliveryPending
	}

	err := r.pool.QueryRow(ctx, query,
		log.ID, log.WebhookID, log.EventID, log.EventType,
		log.Payload, log.Attempt, log.Status,
	).Scan(&log.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDeliveryInFlight.WithError(err)
		}
		return fmt.Errorf("create webhook log: %w", err)
	}

	return nil
}

func (r *WebhookLogRepository) MarkSuccess(ctx context.Context, id uuid.UUID, responseStatus int, responseBody string, latencyMs int64) error {
	query := `
		UPDATE webhook_logs
		SET status = 'success',
			response_status = $2,
			response_body = $3,
			latency_ms = $4,
			next_retry_at = NULL
		WHERE id = $1 AND status IN ('pending', 'retrying')
	`

	result, err := r.pool.Exec(ctx, query, id, responseStatus, responseBody, latencyMs)
	if err != nil {
		return fmt.Errorf("mark log success: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark log success: log %s not in a mutable state", id)
	}

	return nil
}

func (r *WebhookLogRepository) MarkFailed(ctx context.Context, id uuid.UUID, responseStatus *int, responseBody, errorMsg string, latencyMs int64) error {
	query := `
		UPDATE webhook_logs
		SET status = 'failed',
			response_status = $2,
			response_body = $3,
			error_message = $4,
			latency_ms = $5,
			next_retry_at = NULL
		WHERE id = $1 AND status IN ('pending', 'retrying')
	`

	result, err := r.pool.Exec(ctx, query, id, responseStatus, responseBody, errorMsg, latencyMs)
	if err != nil {
		return fmt.Errorf("mark log failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark log failed: log %s not in a mutable state", id)
	}

	return nil
}

func (r *WebhookLogRepository) MarkRetrying(ctx context.Context, id uuid.UUID, responseStatus *int, responseBody, errorMsg string, latencyMs int64, nextRetryAt time.Time) error {
	query := `
		UPDATE webhook_logs
		SET status = 'retrying',
			response_status = $2,
			response_body = $3,
			error_message = $4,
			latency_ms = $5,
			next_retry_at = $6
		WHERE id = $1 AND status IN ('pending', 'retrying')
	`

	result, err := r.pool.Exec(ctx, query, id, responseStatus, responseBody, errorMsg, latencyMs, nextRetryAt)
	if err != nil {
		return fmt.Errorf("mark log retrying: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark log retrying: log %s not in a mutable state", id)
	}

	return nil
}

// HasInFlight reports whether a delivery lineage for this (webhook, event)
// pair is still pending or awaiting a retry.
func (r *WebhookLogRepository) HasInFlight(ctx context.Context, webhookID, eventID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM webhook_logs
			WHERE webhook_id = $1 AND event_id = $2 AND status IN ('pending', 'retrying')
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, webhookID, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check in-flight delivery: %w", err)
	}

	return exists, nil
}

// ClaimDue atomically claims due retry rows by finalizing them as failed;
// each returned row is the predecessor of the attempt the caller performs
// next. SKIP LOCKED lets concurrent workers share the backlog.
func (r *WebhookLogRepository) ClaimDue(ctx context.Context, limit int) ([]*domain.WebhookLog, error) {
	query := `
		UPDATE webhook_logs
		SET status = 'failed'
		WHERE id IN (
			SELECT id FROM webhook_logs
			WHERE status = 'retrying' AND next_retry_at <= NOW()
			ORDER BY next_retry_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT $1
		)
		RETURNING ` + webhookLogColumns

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("claim due retries: %w", err)
	}
	defer rows.Close()

	return collectWebhookLogs(rows)
}

func (r *WebhookLogRepository) List(ctx context.Context, filter domain.WebhookLogFilter) ([]*domain.WebhookLog, error) {
	query := `SELECT ` + webhookLogColumns + ` FROM webhook_logs WHERE 1=1`
	args := []interface{}{}

	if filter.WebhookID != nil {
		args = append(args, *filter.WebhookID)
		query += fmt.Sprintf(" AND webhook_id = $%d", len(args))
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
		return nil, fmt.Errorf("list webhook logs: %w", err)
	}
	defer rows.Close()

	return collectWebhookLogs(rows)
}

func scanWebhookLog(row pgx.Row) (*domain.WebhookLog, error) {
	var l domain.WebhookLog
	err := row.Scan(
		&l.ID, &l.WebhookID, &l.EventID, &l.EventType, &l.Payload,
		&l.Attempt, &l.Status, &l.ResponseStatus, &l.ResponseBody,
		&l.LatencyMs, &l.ErrorMessage, &l.NextRetryAt, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectWebhookLogs(rows pgx.Rows) ([]*domain.WebhookLog, error) {
	var logs []*domain.WebhookLog
	for rows.Next() {
		l, err := scanWebhookLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
