package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

func logsTestApp(deliveryLogs *MockWebhookLogRepository, inboundLogs *MockInboundWebhookLogRepository) *fiber.App {
	h := NewLogsHandler(deliveryLogs, inboundLogs, testLogger())
	app := testApp()
	app.Get("/v1/logs/deliveries", h.ListDeliveries)
	app.Get("/v1/logs/inbound", h.ListInbound)
	return app
}

func TestLogsHandler_ListDeliveriesParsesFilter(t *testing.T) {
	webhookID := uuid.New()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	deliveryLogs := new(MockWebhookLogRepository)
	deliveryLogs.On("List", mock.Anything, mock.MatchedBy(func(f domain.WebhookLogFilter) bool {
		return f.WebhookID != nil && *f.WebhookID == webhookID &&
			f.Status != nil && *f.Status == domain.DeliveryFailed &&
			f.From != nil && f.From.Equal(from) &&
			f.Limit == 10 && f.Offset == 20
	})).Return([]*domain.WebhookLog{}, nil)

	app := logsTestApp(deliveryLogs, new(MockInboundWebhookLogRepository))

	url := "/v1/logs/deliveries?webhook_id=" + webhookID.String() +
		"&status=failed&from=2026-08-01T00:00:00Z&limit=10&offset=20"
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	deliveryLogs.AssertExpectations(t)
}

func TestLogsHandler_ListDeliveriesDefaultsPage(t *testing.T) {
	deliveryLogs := new(MockWebhookLogRepository)
	deliveryLogs.On("List", mock.Anything, mock.MatchedBy(func(f domain.WebhookLogFilter) bool {
		return f.Limit == defaultLogPageSize && f.Offset == 0 && f.WebhookID == nil
	})).Return([]*domain.WebhookLog{}, nil)

	app := logsTestApp(deliveryLogs, new(MockInboundWebhookLogRepository))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/logs/deliveries?limit=9999", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	deliveryLogs.AssertExpectations(t)
}

func TestLogsHandler_ListDeliveriesRejectsBadFilter(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"bad webhook_id", "/v1/logs/deliveries?webhook_id=nope"},
		{"bad status", "/v1/logs/deliveries?status=exploded"},
		{"bad from", "/v1/logs/deliveries?from=yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := logsTestApp(new(MockWebhookLogRepository), new(MockInboundWebhookLogRepository))

			resp, err := app.Test(httptest.NewRequest("GET", tt.url, nil))
			require.NoError(t, err)
			assert.Equal(t, 422, resp.StatusCode)
		})
	}
}

func TestLogsHandler_ListInbound(t *testing.T) {
	inboundID := uuid.New()

	inboundLogs := new(MockInboundWebhookLogRepository)
	inboundLogs.On("List", mock.Anything, mock.MatchedBy(func(f domain.InboundLogFilter) bool {
		return f.InboundWebhookID != nil && *f.InboundWebhookID == inboundID &&
			f.Status != nil && *f.Status == domain.InboundRejected
	})).Return([]*domain.InboundWebhookLog{
		{ID: uuid.New(), InboundWebhookID: inboundID, Status: domain.InboundRejected},
	}, nil)

	app := logsTestApp(new(MockWebhookLogRepository), inboundLogs)

	url := "/v1/logs/inbound?inbound_webhook_id=" + inboundID.String() + "&status=rejected"
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	inboundLogs.AssertExpectations(t)
}
