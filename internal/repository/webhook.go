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

type WebhookRepository struct {
	pool PgxPool
}

func NewWebhookRepository(pool PgxPool) *WebhookRepository {
	return &WebhookRepository{pool: pool}
}

const webhookColumns = `id, name, url, method, headers, events, secret_key, is_active,
		allowed_ips, retry_enabled, max_retries, consecutive_failures,
		last_triggered_at, last_success_at, last_error, created_at, updated_at`

func (r *WebhookRepository) Create(ctx context.Context, w *domain.Webhook) error {
	query := `
		INSERT INTO webhooks (id, name, url, method, headers, events, secret_key, is_active,
			allowed_ips, retry_enabled, max_retries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Method == "" {
		w.Method = domain.MethodPost
	}

	headersJSON, err := json.Marshal(headersOrEmpty(w.Headers))
	if err != nil {
		return fmt.Errorf("marshal headers: %w", err)
	}
	eventsJSON, err := json.Marshal(w.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	ipsJSON, err := json.Marshal(stringsOrEmpty(w.AllowedIPs))
	if err != nil {
		return fmt.Errorf("marshal allowed ips: %w", err)
	}

	err = r.pool.QueryRow(ctx, query,
		w.ID, w.Name, w.URL, w.Method, headersJSON, eventsJSON, w.SecretKey,
		w.IsActive, ipsJSON, w.RetryEnabled, w.MaxRetries,
	).Scan(&w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create webhook: %w", err)
	}

	return nil
}

func (r *WebhookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE id = $1`

	w, err := scanWebhook(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWebhookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get webhook by id: %w", err)
	}

	return w, nil
}

func (r *WebhookRepository) List(ctx context.Context) ([]*domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	return collectWebhooks(rows)
}

func (r *WebhookRepository) ListActiveByEvent(ctx context.Context, et domain.EventType) ([]*domain.Webhook, error) {
	query := `
		SELECT ` + webhookColumns + `
		FROM webhooks
		WHERE is_active = true AND events @> $1::jsonb
	`

	eventJSON, _ := json.Marshal([]domain.EventType{et})

	rows, err := r.pool.Query(ctx, query, eventJSON)
	if err != nil {
		return nil, fmt.Errorf("list webhooks by event: %w", err)
	}
	defer rows.Close()

	return collectWebhooks(rows)
}

func (r *WebhookRepository) Update(ctx context.Context, w *domain.Webhook) error {
	query := `
		UPDATE webhooks
		SET name = $2, url = $3, method = $4, headers = $5, events = $6,
			secret_key = $7, is_active = $8, allowed_ips = $9,
			retry_enabled = $10, max_retries = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	headersJSON, err := json.Marshal(headersOrEmpty(w.Headers))
	if err != nil {
		return fmt.Errorf("marshal headers: %w", err)
	}
	eventsJSON, err := json.Marshal(w.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	ipsJSON, err := json.Marshal(stringsOrEmpty(w.AllowedIPs))
	if err != nil {
		return fmt.Errorf("marshal allowed ips: %w", err)
	}

	err = r.pool.QueryRow(ctx, query,
		w.ID, w.Name, w.URL, w.Method, headersJSON, eventsJSON,
		w.SecretKey, w.IsActive, ipsJSON, w.RetryEnabled, w.MaxRetries,
	).Scan(&w.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrWebhookNotFound
	}
	if err != nil {
		return fmt.Errorf("update webhook: %w", err)
	}

	return nil
}

func (r *WebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWebhookNotFound
	}

	return nil
}

// SetActive flips the active flag. Reactivating also clears the failure
// streak so the webhook starts from a clean slate.
func (r *WebhookRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE webhooks
		SET is_active = $2,
			consecutive_failures = CASE WHEN $2 THEN 0 ELSE consecutive_failures END,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set webhook active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWebhookNotFound
	}

	return nil
}

// RecordSuccess resets the failure streak and stamps the success timestamps
// in a single update so concurrent deliveries cannot lose writes.
func (r *WebhookRepository) RecordSuccess(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE webhooks
		SET consecutive_failures = 0,
			last_error = '',
			last_triggered_at = NOW(),
			last_success_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("record webhook success: %w", err)
	}

	return nil
}

// RecordAttemptError stamps the error of a non-final delivery attempt
// without touching the failure streak. Only exhausted lineages feed the
// streak through RecordFailure.
func (r *WebhookRepository) RecordAttemptError(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE webhooks
		SET last_error = $2,
			last_triggered_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, lastError)
	if err != nil {
		return fmt.Errorf("record webhook attempt error: %w", err)
	}

	return nil
}

// RecordFailure increments the failure streak and deactivates the webhook
// when the ceiling is reached, all in one conditional update. It returns
// the new streak and whether the webhook is still active.
func (r *WebhookRepository) RecordFailure(ctx context.Context, id uuid.UUID, lastError string, ceiling int) (int, bool, error) {
	query := `
		UPDATE webhooks
		SET consecutive_failures = consecutive_failures + 1,
			is_active = CASE WHEN consecutive_failures + 1 >= $3 THEN false ELSE is_active END,
			last_error = $2,
			last_triggered_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
		RETURNING consecutive_failures, is_active
	`

	var failures int
	var active bool
	err := r.pool.QueryRow(ctx, query, id, lastError, ceiling).Scan(&failures, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, domain.ErrWebhookNotFound
	}
	if err != nil {
		return 0, false, fmt.Errorf("record webhook failure: %w", err)
	}

	return failures, active, nil
}

func scanWebhook(row pgx.Row) (*domain.Webhook, error) {
	var w domain.Webhook
	var headersJSON, eventsJSON, ipsJSON []byte

	err := row.Scan(
		&w.ID, &w.Name, &w.URL, &w.Method, &headersJSON, &eventsJSON,
		&w.SecretKey, &w.IsActive, &ipsJSON, &w.RetryEnabled, &w.MaxRetries,
		&w.ConsecutiveFailures, &w.LastTriggeredAt, &w.LastSuccessAt,
		&w.LastError, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(headersJSON, &w.Headers); err != nil {
		return nil, fmt.Errorf("unmarshal headers: %w", err)
	}
	if err := json.Unmarshal(eventsJSON, &w.Events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	if err := json.Unmarshal(ipsJSON, &w.AllowedIPs); err != nil {
		return nil, fmt.Errorf("unmarshal allowed ips: %w", err)
	}

	return &w, nil
}

func collectWebhooks(rows pgx.Rows) ([]*domain.Webhook, error) {
	var webhooks []*domain.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		webhooks = append(webhooks, w)
	}
	return webhooks, rows.Err()
}

func headersOrEmpty(h map[string]string) map[string]string {
	if h == nil {
		return map[string]string{}
	}
	return h
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
