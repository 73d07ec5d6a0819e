package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/diegomanaglia/simply-crm/internal/api/middleware"
	"github.com/diegomanaglia/simply-crm/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testApp wires the production error handler so AppError status codes
// are exercised the same way they are in the real server.
func testApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})
}

type MockWebhookRepository struct {
	mock.Mock
}

func (m *MockWebhookRepository) Create(ctx context.Context, w *domain.Webhook) error {
	args := m.Called(ctx, w)
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockWebhookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Webhook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Webhook), args.Error(1)
}

func (m *MockWebhookRepository) List(ctx context.Context) ([]*domain.Webhook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Webhook), args.Error(1)
}

func (m *MockWebhookRepository) ListActiveByEvent(ctx context.Context, et domain.EventType) ([]*domain.Webhook, error) {
	args := m.Called(ctx, et)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Webhook), args.Error(1)
}

func (m *MockWebhookRepository) Update(ctx context.Context, w *domain.Webhook) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWebhookRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockWebhookRepository) RecordSuccess(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWebhookRepository) RecordAttemptError(ctx context.Context, id uuid.UUID, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

func (m *MockWebhookRepository) RecordFailure(ctx context.Context, id uuid.UUID, lastError string, ceiling int) (int, bool, error) {
	args := m.Called(ctx, id, lastError, ceiling)
	return args.Int(0), args.Bool(1), args.Error(2)
}

type MockInboundWebhookRepository struct {
	mock.Mock
}

func (m *MockInboundWebhookRepository) Create(ctx context.Context, iw *domain.InboundWebhook) error {
	args := m.Called(ctx, iw)
	if iw.ID == uuid.Nil {
		iw.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockInboundWebhookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InboundWebhook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InboundWebhook), args.Error(1)
}

func (m *MockInboundWebhookRepository) GetByToken(ctx context.Context, token string) (*domain.InboundWebhook, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InboundWebhook), args.Error(1)
}

func (m *MockInboundWebhookRepository) List(ctx context.Context) ([]*domain.InboundWebhook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InboundWebhook), args.Error(1)
}

func (m *MockInboundWebhookRepository) Update(ctx context.Context, iw *domain.InboundWebhook) error {
	args := m.Called(ctx, iw)
	return args.Error(0)
}

func (m *MockInboundWebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInboundWebhookRepository) RecordRequest(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockWebhookLogRepository struct {
	mock.Mock
}

func (m *MockWebhookLogRepository) Create(ctx context.Context, log *domain.WebhookLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockWebhookLogRepository) MarkSuccess(ctx context.Context, id uuid.UUID, responseStatus int, responseBody string, latencyMs int64) error {
	args := m.Called(ctx, id, responseStatus, responseBody, latencyMs)
	return args.Error(0)
}

func (m *MockWebhookLogRepository) MarkFailed(ctx context.Context, id uuid.UUID, responseStatus *int, responseBody, errorMsg string, latencyMs int64) error {
	args := m.Called(ctx, id, responseStatus, responseBody, errorMsg, latencyMs)
	return args.Error(0)
}

func (m *MockWebhookLogRepository) MarkRetrying(ctx context.Context, id uuid.UUID, responseStatus *int, responseBody, errorMsg string, latencyMs int64, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, responseStatus, responseBody, errorMsg, latencyMs, nextRetryAt)
	return args.Error(0)
}

func (m *MockWebhookLogRepository) HasInFlight(ctx context.Context, webhookID, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, webhookID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookLogRepository) ClaimDue(ctx context.Context, limit int) ([]*domain.WebhookLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WebhookLog), args.Error(1)
}

func (m *MockWebhookLogRepository) List(ctx context.Context, filter domain.WebhookLogFilter) ([]*domain.WebhookLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WebhookLog), args.Error(1)
}

type MockInboundWebhookLogRepository struct {
	mock.Mock
}

func (m *MockInboundWebhookLogRepository) Create(ctx context.Context, log *domain.InboundWebhookLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockInboundWebhookLogRepository) List(ctx context.Context, filter domain.InboundLogFilter) ([]*domain.InboundWebhookLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InboundWebhookLog), args.Error(1)
}

type MockIngestor struct {
	mock.Mock
}

func (m *MockIngestor) Ingest(ctx context.Context, token, sourceIP string, rawBody []byte, signature string) (*domain.Deal, error) {
	args := m.Called(ctx, token, sourceIP, rawBody, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

type MockConversionRecorder struct {
	mock.Mock
}

func (m *MockConversionRecorder) Record(ctx context.Context, dealID uuid.UUID) (*domain.Conversion, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}
