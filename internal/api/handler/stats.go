package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/domain"
	"github.com/diegomanaglia/simply-crm/internal/metrics"
)

const defaultStatsWindow = 24 * time.Hour

type StatsHandler struct {
	metrics *metrics.Repository
	logger  *slog.Logger
}

func NewStatsHandler(m *metrics.Repository, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		metrics: m,
		logger:  logger,
	}
}

// Deliveries handles GET /v1/stats/deliveries. An optional webhook_id
// narrows the report to one webhook; window (e.g. "72h") widens it.
func (h *StatsHandler) Deliveries(c *fiber.Ctx) error {
	since, err := parseSince(c)
	if err != nil {
		return err
	}

	if s := c.Query("webhook_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return domain.ErrValidationFailed.WithMessage("invalid webhook_id")
		}
		stats, err := h.metrics.GetDeliveryStatsFor(c.Context(), id, since)
		if err != nil {
			h.logger.Error("failed to load delivery stats", "webhook_id", id, "error", err)
			return err
		}
		return c.JSON(fiber.Map{
			"since": since,
			"stats": []*metrics.DeliveryStats{stats},
		})
	}

	stats, err := h.metrics.GetDeliveryStats(c.Context(), since)
	if err != nil {
		h.logger.Error("failed to load delivery stats", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"since": since,
		"stats": stats,
	})
}

// Inbound handles GET /v1/stats/inbound
func (h *StatsHandler) Inbound(c *fiber.Ctx) error {
	since, err := parseSince(c)
	if err != nil {
		return err
	}

	stats, err := h.metrics.GetInboundStats(c.Context(), since)
	if err != nil {
		h.logger.Error("failed to load inbound stats", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"since": since,
		"stats": stats,
	})
}

func parseSince(c *fiber.Ctx) (time.Time, error) {
	window := defaultStatsWindow
	if s := c.Query("window"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return time.Time{}, domain.ErrValidationFailed.WithMessage("window must be a positive duration")
		}
		window = d
	}
	return time.Now().UTC().Add(-window), nil
}
