package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diegomanaglia/simply-crm/internal/dispatch"
	"github.com/diegomanaglia/simply-crm/internal/domain"
)

func webhooksTestApp(repo *MockWebhookRepository, logs *MockWebhookLogRepository) *fiberAppWithHandler {
	dispatcher := dispatch.NewDispatcher(repo, logs, dispatch.DispatcherConfig{
		Timeout:     2 * time.Second,
		FailCeiling: 10,
		Backoff:     dispatch.NewBackoff(time.Second, time.Minute),
	}, testLogger())

	h := NewWebhooksHandler(repo, dispatcher, testLogger())
	app := testApp()
	app.Get("/v1/webhooks", h.List)
	app.Post("/v1/webhooks", h.Create)
	app.Get("/v1/webhooks/:id", h.Get)
	app.Put("/v1/webhooks/:id", h.Update)
	app.Delete("/v1/webhooks/:id", h.Delete)
	app.Post("/v1/webhooks/:id/activate", h.Activate)
	app.Post("/v1/webhooks/:id/deactivate", h.Deactivate)
	app.Post("/v1/webhooks/:id/test", h.Test)
	return &fiberAppWithHandler{app: app, dispatcher: dispatcher}
}

type fiberAppWithHandler struct {
	app        *fiber.App
	dispatcher *dispatch.Dispatcher
}

func TestWebhooksHandler_CreateReturnsSecretOnce(t *testing.T) {
	repo := new(MockWebhookRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(w *domain.Webhook) bool {
		return w.Name == "CRM sync" &&
			w.Method == domain.MethodPost &&
			w.IsActive &&
			w.RetryEnabled &&
			w.MaxRetries == 3 &&
			len(w.SecretKey) == 64
	})).Return(nil)

	env := webhooksTestApp(repo, new(MockWebhookLogRepository))

	body := `{"name":"CRM sync","url":"https://example.com/hook","events":["deal_won"]}`
	req := httptest.NewRequest("POST", "/v1/webhooks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var result struct {
		Webhook domain.Webhook `json:"webhook"`
		Secret  string         `json:"secret"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Len(t, result.Secret, 64)
	assert.NotEqual(t, uuid.Nil, result.Webhook.ID)
	repo.AssertExpectations(t)
}

func TestWebhooksHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"url":"https://example.com","events":["deal_won"]}`},
		{"missing url", `{"name":"x","events":["deal_won"]}`},
		{"no events", `{"name":"x","url":"https://example.com","events":[]}`},
		{"unknown event", `{"name":"x","url":"https://example.com","events":["deal_cloned"]}`},
		{"bad method", `{"name":"x","url":"https://example.com","events":["deal_won"],"method":"DELETE"}`},
		{"max_retries out of range", `{"name":"x","url":"https://example.com","events":["deal_won"],"max_retries":11}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := webhooksTestApp(new(MockWebhookRepository), new(MockWebhookLogRepository))

			req := httptest.NewRequest("POST", "/v1/webhooks", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := env.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, 422, resp.StatusCode)
		})
	}
}

func TestWebhooksHandler_UpdateMergesFields(t *testing.T) {
	id := uuid.New()
	existing := &domain.Webhook{
		ID:           id,
		Name:         "Old name",
		URL:          "https://old.example.com",
		Method:       domain.MethodPost,
		Events:       []domain.EventType{domain.EventDealWon},
		IsActive:     true,
		RetryEnabled: true,
		MaxRetries:   3,
	}

	repo := new(MockWebhookRepository)
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(w *domain.Webhook) bool {
		return w.Name == "New name" &&
			w.URL == "https://old.example.com" &&
			len(w.Events) == 2
	})).Return(nil)

	env := webhooksTestApp(repo, new(MockWebhookLogRepository))

	body := `{"name":"New name","events":["deal_won","deal_lost"]}`
	req := httptest.NewRequest("PUT", "/v1/webhooks/"+id.String(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestWebhooksHandler_GetNotFound(t *testing.T) {
	id := uuid.New()
	repo := new(MockWebhookRepository)
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrWebhookNotFound)

	env := webhooksTestApp(repo, new(MockWebhookLogRepository))

	resp, err := env.app.Test(httptest.NewRequest("GET", "/v1/webhooks/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestWebhooksHandler_GetBadID(t *testing.T) {
	env := webhooksTestApp(new(MockWebhookRepository), new(MockWebhookLogRepository))

	resp, err := env.app.Test(httptest.NewRequest("GET", "/v1/webhooks/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestWebhooksHandler_ActivateDeactivate(t *testing.T) {
	id := uuid.New()
	repo := new(MockWebhookRepository)
	repo.On("SetActive", mock.Anything, id, true).Return(nil).Once()
	repo.On("SetActive", mock.Anything, id, false).Return(nil).Once()

	env := webhooksTestApp(repo, new(MockWebhookLogRepository))

	resp, err := env.app.Test(httptest.NewRequest("POST", "/v1/webhooks/"+id.String()+"/activate", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = env.app.Test(httptest.NewRequest("POST", "/v1/webhooks/"+id.String()+"/deactivate", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestWebhooksHandler_Delete(t *testing.T) {
	id := uuid.New()
	repo := new(MockWebhookRepository)
	repo.On("Delete", mock.Anything, id).Return(nil)

	env := webhooksTestApp(repo, new(MockWebhookLogRepository))

	resp, err := env.app.Test(httptest.NewRequest("DELETE", "/v1/webhooks/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestWebhooksHandler_TestFiresDelivery(t *testing.T) {
	received := make(chan struct{}, 1)
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
		w.WriteHeader(200)
	}))
	defer target.Close()

	id := uuid.New()
	webhook := &domain.Webhook{
		ID:        id,
		Name:      "Target",
		URL:       target.URL,
		Method:    domain.MethodPost,
		Events:    []domain.EventType{domain.EventDealCreated},
		SecretKey: "secret",
		IsActive:  true,
	}

	repo := new(MockWebhookRepository)
	repo.On("GetByID", mock.Anything, id).Return(webhook, nil)
	repo.On("RecordSuccess", mock.Anything, id).Return(nil)

	logs := new(MockWebhookLogRepository)
	logs.On("HasInFlight", mock.Anything, id, mock.Anything).Return(false, nil)
	logs.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		log := args.Get(1).(*domain.WebhookLog)
		if log.ID == uuid.Nil {
			log.ID = uuid.New()
		}
		if log.Attempt == 0 {
			log.Attempt = 1
		}
	}).Return(nil)
	logs.On("MarkSuccess", mock.Anything, mock.Anything, 200, mock.Anything, mock.Anything).Return(nil)

	env := webhooksTestApp(repo, logs)

	req := httptest.NewRequest("POST", "/v1/webhooks/"+id.String()+"/test", strings.NewReader(`{"event":"deal_won"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)

	var result struct {
		EventID uuid.UUID `json:"event_id"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.NotEqual(t, uuid.Nil, result.EventID)

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("test delivery never reached the target")
	}
}
