package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/repository"
)

// DeliveryStats summarizes outbound delivery outcomes for one webhook
// over a period.
type DeliveryStats struct {
	WebhookID      uuid.UUID  `json:"webhook_id"`
	Total          int64      `json:"total"`
	Succeeded      int64      `json:"succeeded"`
	Failed         int64      `json:"failed"`
	InFlight       int64      `json:"in_flight"`
	AvgLatencyMs   *float64   `json:"avg_latency_ms,omitempty"`
	LastDeliveryAt *time.Time `json:"last_delivery_at,omitempty"`
}

// InboundStats summarizes ingestion outcomes for one inbound webhook
// over a period.
type InboundStats struct {
	InboundWebhookID uuid.UUID  `json:"inbound_webhook_id"`
	Total            int64      `json:"total"`
	Succeeded        int64      `json:"succeeded"`
	Failed           int64      `json:"failed"`
	Rejected         int64      `json:"rejected"`
	LastRequestAt    *time.Time `json:"last_request_at,omitempty"`
}

// Repository computes stats straight from the log tables. The volumes a
// small business produces do not need pre-aggregation.
type Repository struct {
	pool repository.PgxPool
}

func NewRepository(pool repository.PgxPool) *Repository {
	return &Repository{pool: pool}
}

// GetDeliveryStats aggregates outbound delivery logs per webhook since
// the given time.
func (r *Repository) GetDeliveryStats(ctx context.Context, since time.Time) ([]*DeliveryStats, error) {
	query := `
		SELECT webhook_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'success'),
		       COUNT(*) FILTER (WHERE status = 'failed'),
		       COUNT(*) FILTER (WHERE status IN ('pending', 'retrying')),
		       AVG(latency_ms),
		       MAX(created_at)
		FROM webhook_logs
		WHERE created_at >= $1
		GROUP BY webhook_id
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query delivery stats: %w", err)
	}
	defer rows.Close()

	var stats []*DeliveryStats
	for rows.Next() {
		var s DeliveryStats
		err := rows.Scan(
			&s.WebhookID, &s.Total, &s.Succeeded, &s.Failed,
			&s.InFlight, &s.AvgLatencyMs, &s.LastDeliveryAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan delivery stats: %w", err)
		}
		stats = append(stats, &s)
	}

	return stats, rows.Err()
}

// GetDeliveryStatsFor aggregates delivery logs for one webhook. A
// webhook without logs yields zeroed stats, not an error.
func (r *Repository) GetDeliveryStatsFor(ctx context.Context, webhookID uuid.UUID, since time.Time) (*DeliveryStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'success'),
		       COUNT(*) FILTER (WHERE status = 'failed'),
		       COUNT(*) FILTER (WHERE status IN ('pending', 'retrying')),
		       AVG(latency_ms),
		       MAX(created_at)
		FROM webhook_logs
		WHERE webhook_id = $1 AND created_at >= $2
	`

	s := DeliveryStats{WebhookID: webhookID}
	err := r.pool.QueryRow(ctx, query, webhookID, since).Scan(
		&s.Total, &s.Succeeded, &s.Failed, &s.InFlight,
		&s.AvgLatencyMs, &s.LastDeliveryAt,
	)
	if err != nil {
		return nil, fmt.Errorf("query delivery stats: %w", err)
	}

	return &s, nil
}

// GetInboundStats aggregates inbound request logs per inbound webhook
// since the given time.
func (r *Repository) GetInboundStats(ctx context.Context, since time.Time) ([]*InboundStats, error) {
	query := `
		SELECT inbound_webhook_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'success'),
		       COUNT(*) FILTER (WHERE status = 'failed'),
		       COUNT(*) FILTER (WHERE status = 'rejected'),
		       MAX(created_at)
		FROM inbound_webhook_logs
		WHERE created_at >= $1
		GROUP BY inbound_webhook_id
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query inbound stats: %w", err)
	}
	defer rows.Close()

	var stats []*InboundStats
	for rows.Next() {
		var s InboundStats
		err := rows.Scan(
			&s.InboundWebhookID, &s.Total, &s.Succeeded,
			&s.Failed, &s.Rejected, &s.LastRequestAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan inbound stats: %w", err)
		}
		stats = append(stats, &s)
	}

	return stats, rows.Err()
}
