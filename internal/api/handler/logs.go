package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/domain"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

const (
	defaultLogPageSize = 50
	maxLogPageSize     = 200
)

type LogsHandler struct {
	deliveryLogs repository.WebhookLogRepositoryInterface
	inboundLogs  repository.InboundWebhookLogRepositoryInterface
	logger       *slog.Logger
}

func NewLogsHandler(
	deliveryLogs repository.WebhookLogRepositoryInterface,
	inboundLogs repository.InboundWebhookLogRepositoryInterface,
	logger *slog.Logger,
) *LogsHandler {
	return &LogsHandler{
		deliveryLogs: deliveryLogs,
		inboundLogs:  inboundLogs,
		logger:       logger,
	}
}

// ListDeliveries handles GET /v1/logs/deliveries with webhook_id, status,
// from, to, limit and offset query filters.
func (h *LogsHandler) ListDeliveries(c *fiber.Ctx) error {
	filter := domain.WebhookLogFilter{}

	if s := c.Query("webhook_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return domain.ErrValidationFailed.WithMessage("invalid webhook_id")
		}
		filter.WebhookID = &id
	}
	if s := c.Query("status"); s != "" {
		status := domain.DeliveryStatus(s)
		switch status {
		case domain.DeliveryPending, domain.DeliverySuccess, domain.DeliveryFailed, domain.DeliveryRetrying:
		default:
			return domain.ErrValidationFailed.WithMessage("invalid status")
		}
		filter.Status = &status
	}
	from, to, err := parseTimeRange(c)
	if err != nil {
		return err
	}
	filter.From = from
	filter.To = to
	filter.Limit, filter.Offset = parsePage(c)

	logs, err := h.deliveryLogs.List(c.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list delivery logs", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"logs": logs,
	})
}

// ListInbound handles GET /v1/logs/inbound with inbound_webhook_id,
// status, from, to, limit and offset query filters.
func (h *LogsHandler) ListInbound(c *fiber.Ctx) error {
	filter := domain.InboundLogFilter{}

	if s := c.Query("inbound_webhook_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return domain.ErrValidationFailed.WithMessage("invalid inbound_webhook_id")
		}
		filter.InboundWebhookID = &id
	}
	if s := c.Query("status"); s != "" {
		status := domain.InboundStatus(s)
		switch status {
		case domain.InboundSuccess, domain.InboundFailed, domain.InboundRejected:
		default:
			return domain.ErrValidationFailed.WithMessage("invalid status")
		}
		filter.Status = &status
	}
	from, to, err := parseTimeRange(c)
	if err != nil {
		return err
	}
	filter.From = from
	filter.To = to
	filter.Limit, filter.Offset = parsePage(c)

	logs, err := h.inboundLogs.List(c.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list inbound logs", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"logs": logs,
	})
}

func parseTimeRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, domain.ErrValidationFailed.WithMessage("from must be RFC3339")
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, domain.ErrValidationFailed.WithMessage("to must be RFC3339")
		}
		to = &t
	}
	return from, to, nil
}

func parsePage(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLogPageSize)
	if limit < 1 || limit > maxLogPageSize {
		limit = defaultLogPageSize
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
