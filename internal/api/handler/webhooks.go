package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/dispatch"
	"github.com/diegomanaglia/simply-crm/internal/domain"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

type WebhooksHandler struct {
	webhooks   repository.WebhookRepositoryInterface
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

func NewWebhooksHandler(webhooks repository.WebhookRepositoryInterface, dispatcher *dispatch.Dispatcher, logger *slog.Logger) *WebhooksHandler {
	return &WebhooksHandler{
		webhooks:   webhooks,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type CreateWebhookRequest struct {
	Name         string            `json:"name"`
	URL          string            `json:"url"`
	Method       string            `json:"method"`
	Headers      map[string]string `json:"headers"`
	Events       []string          `json:"events"`
	AllowedIPs   []string          `json:"allowed_ips"`
	RetryEnabled *bool             `json:"retry_enabled"`
	MaxRetries   *int              `json:"max_retries"`
}

type UpdateWebhookRequest struct {
	Name         *string            `json:"name"`
	URL          *string            `json:"url"`
	Method       *string            `json:"method"`
	Headers      *map[string]string `json:"headers"`
	Events       *[]string          `json:"events"`
	AllowedIPs   *[]string          `json:"allowed_ips"`
	RetryEnabled *bool              `json:"retry_enabled"`
	MaxRetries   *int               `json:"max_retries"`
}

func (h *WebhooksHandler) List(c *fiber.Ctx) error {
	webhooks, err := h.webhooks.List(c.Context())
	if err != nil {
		h.logger.Error("failed to list webhooks", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"webhooks": webhooks,
	})
}

func (h *WebhooksHandler) Create(c *fiber.Ctx) error {
	var req CreateWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	if err := validateWebhookBasics(req.Name, req.URL, req.Events); err != nil {
		return err
	}

	method := domain.MethodPost
	if req.Method != "" {
		m, err := parseMethod(req.Method)
		if err != nil {
			return err
		}
		method = m
	}

	events := make([]domain.EventType, 0, len(req.Events))
	for _, e := range req.Events {
		events = append(events, domain.EventType(e))
	}

	secret, err := generateSecret(32)
	if err != nil {
		h.logger.Error("failed to generate secret", "error", err)
		return err
	}

	w := &domain.Webhook{
		Name:         req.Name,
		URL:          req.URL,
		Method:       method,
		Headers:      req.Headers,
		Events:       events,
		SecretKey:    secret,
		IsActive:     true,
		AllowedIPs:   req.AllowedIPs,
		RetryEnabled: true,
		MaxRetries:   3,
	}
	if req.RetryEnabled != nil {
		w.RetryEnabled = *req.RetryEnabled
	}
	if req.MaxRetries != nil {
		if *req.MaxRetries < 0 || *req.MaxRetries > 10 {
			return domain.ErrValidationFailed.WithMessage("max_retries must be between 0 and 10")
		}
		w.MaxRetries = *req.MaxRetries
	}

	if err := h.webhooks.Create(c.Context(), w); err != nil {
		h.logger.Error("failed to create webhook", "error", err)
		return err
	}

	h.logger.Info("webhook created",
		"webhook_id", w.ID,
		"name", w.Name,
	)

	// The secret is shown only once, at creation.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"webhook": w,
		"secret":  secret,
	})
}

func (h *WebhooksHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrWebhookNotFound
	}

	w, err := h.webhooks.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"webhook": w,
	})
}

func (h *WebhooksHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrWebhookNotFound
	}

	var req UpdateWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	w, err := h.webhooks.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.URL != nil {
		w.URL = *req.URL
	}
	if req.Method != nil {
		m, err := parseMethod(*req.Method)
		if err != nil {
			return err
		}
		w.Method = m
	}
	if req.Headers != nil {
		w.Headers = *req.Headers
	}
	if req.Events != nil {
		events := make([]domain.EventType, 0, len(*req.Events))
		for _, e := range *req.Events {
			if !domain.IsValidEventType(e) {
				return domain.ErrValidationFailed.WithMessage("unknown event type: " + e)
			}
			events = append(events, domain.EventType(e))
		}
		w.Events = events
	}
	if req.AllowedIPs != nil {
		w.AllowedIPs = *req.AllowedIPs
	}
	if req.RetryEnabled != nil {
		w.RetryEnabled = *req.RetryEnabled
	}
	if req.MaxRetries != nil {
		if *req.MaxRetries < 0 || *req.MaxRetries > 10 {
			return domain.ErrValidationFailed.WithMessage("max_retries must be between 0 and 10")
		}
		w.MaxRetries = *req.MaxRetries
	}

	if err := validateWebhookBasics(w.Name, w.URL, eventStrings(w.Events)); err != nil {
		return err
	}

	if err := h.webhooks.Update(c.Context(), w); err != nil {
		h.logger.Error("failed to update webhook", "webhook_id", id, "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"webhook": w,
	})
}

func (h *WebhooksHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrWebhookNotFound
	}

	if err := h.webhooks.Delete(c.Context(), id); err != nil {
		return err
	}

	h.logger.Info("webhook deleted", "webhook_id", id)

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// Activate re-enables delivery and resets the consecutive failure count
func (h *WebhooksHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *WebhooksHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *WebhooksHandler) setActive(c *fiber.Ctx, active bool) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrWebhookNotFound
	}

	if err := h.webhooks.SetActive(c.Context(), id, active); err != nil {
		return err
	}

	h.logger.Info("webhook active flag changed", "webhook_id", id, "active", active)

	return c.JSON(fiber.Map{
		"id":        id,
		"is_active": active,
	})
}

type TestWebhookRequest struct {
	Event string `json:"event"`
}

// Test fires a synthetic delivery at the webhook so operators can verify
// endpoint and secret without waiting for a real CRM event.
func (h *WebhooksHandler) Test(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrWebhookNotFound
	}

	var req TestWebhookRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return domain.ErrInvalidPayload
	}

	eventType := domain.EventDealCreated
	if req.Event != "" {
		if !domain.IsValidEventType(req.Event) {
			return domain.ErrValidationFailed.WithMessage("unknown event type: " + req.Event)
		}
		eventType = domain.EventType(req.Event)
	}

	w, err := h.webhooks.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	event := domain.NewEvent(eventType, sampleDeal())

	// The request context dies with the response; the delivery outlives it.
	if err := h.dispatcher.Fire(context.Background(), w, event); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"event_id": event.ID,
	})
}

func sampleDeal() domain.Deal {
	now := time.Now().UTC()
	return domain.Deal{
		ID:          uuid.New(),
		ContactName: "Test Contact",
		Email:       "test@example.com",
		Phone:       "+5511999999999",
		Company:     "Test Company",
		Value:       100,
		Notes:       "Test delivery payload",
		Temperature: domain.TemperatureWarm,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func validateWebhookBasics(name, url string, events []string) error {
	if name == "" {
		return domain.ErrValidationFailed.WithMessage("name is required")
	}
	if url == "" {
		return domain.ErrValidationFailed.WithMessage("url is required")
	}
	if len(events) == 0 {
		return domain.ErrValidationFailed.WithMessage("at least one event is required")
	}
	for _, e := range events {
		if !domain.IsValidEventType(e) {
			return domain.ErrValidationFailed.WithMessage("unknown event type: " + e)
		}
	}
	return nil
}

func parseMethod(s string) (domain.HTTPMethod, error) {
	switch domain.HTTPMethod(s) {
	case domain.MethodPost, domain.MethodPut:
		return domain.HTTPMethod(s), nil
	}
	return "", domain.ErrValidationFailed.WithMessage("method must be POST or PUT")
}

func eventStrings(events []domain.EventType) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, string(e))
	}
	return out
}

func generateSecret(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
