package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use.
// pgxmock satisfies it too, which keeps the unit tests off a real database.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// WebhookRepositoryInterface defines operations for outbound subscriptions
type WebhookRepositoryInterface interface {
	Create(ctx context.Context, w *domain.Webhook) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Webhook, error)
	List(ctx context.Context) ([]*domain.Webhook, error)
	ListActiveByEvent(ctx context.Context, et domain.EventType) ([]*domain.Webhook, error)
	Update(ctx context.Context, w *domain.Webhook) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	RecordSuccess(ctx context.Context, id uuid.UUID) error
	RecordAttemptError(ctx context.Context, id uuid.UUID, lastError string) error
	RecordFailure(ctx context.Context, id uuid.UUID, lastError string, ceiling int) (failures int, stillActive bool, err error)
}

// WebhookLogRepositoryInterface defines operations for the outbound delivery log
type WebhookLogRepositoryInterface interface {
	Create(ctx context.Context, log *domain.WebhookLog) error
	MarkSuccess(ctx context.Context, id uuid.UUID, responseStatus int, responseBody string, latencyMs int64) error
	MarkFailed(ctx context.Context, id uuid.UUID, responseStatus *int, responseBody, errorMsg string, latencyMs int64) error
	MarkRetrying(ctx context.Context, id uuid.UUID, responseStatus *int, responseBody, errorMsg string, latencyMs int64, nextRetryAt time.Time) error
	HasInFlight(ctx context.Context, webhookID, eventID uuid.UUID) (bool, error)
	ClaimDue(ctx context.Context, limit int) ([]*domain.WebhookLog, error)
	List(ctx context.Context, filter domain.WebhookLogFilter) ([]*domain.WebhookLog, error)
}

// InboundWebhookRepositoryInterface defines operations for inbound endpoints
type InboundWebhookRepositoryInterface interface {
	Create(ctx context.Context, iw *domain.InboundWebhook) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.InboundWebhook, error)
	GetByToken(ctx context.Context, token string) (*domain.InboundWebhook, error)
	List(ctx context.Context) ([]*domain.InboundWebhook, error)
	Update(ctx context.Context, iw *domain.InboundWebhook) error
	Delete(ctx context.Context, id uuid.UUID) error
	RecordRequest(ctx context.Context, id uuid.UUID) error
}

// InboundWebhookLogRepositoryInterface defines operations for the inbound request log
type InboundWebhookLogRepositoryInterface interface {
	Create(ctx context.Context, log *domain.InboundWebhookLog) error
	List(ctx context.Context, filter domain.InboundLogFilter) ([]*domain.InboundWebhookLog, error)
}

// DealRepositoryInterface defines operations for deal records
type DealRepositoryInterface interface {
	Create(ctx context.Context, deal *domain.Deal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error)
	FindRecentLead(ctx context.Context, inboundWebhookID uuid.UUID, email, phone string, since time.Time) (*domain.Deal, error)
}

// ConversionRepositoryInterface defines operations for offline-conversion records
type ConversionRepositoryInterface interface {
	GetByDealID(ctx context.Context, dealID uuid.UUID) (*domain.Conversion, error)
	Create(ctx context.Context, c *domain.Conversion) error
}
