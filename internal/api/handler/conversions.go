package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// ConversionRecorder uploads a won deal as an offline conversion, at most
// once per deal
type ConversionRecorder interface {
	Record(ctx context.Context, dealID uuid.UUID) (*domain.Conversion, error)
}

type ConversionsHandler struct {
	conversions ConversionRecorder
	logger      *slog.Logger
}

func NewConversionsHandler(conversions ConversionRecorder, logger *slog.Logger) *ConversionsHandler {
	return &ConversionsHandler{
		conversions: conversions,
		logger:      logger,
	}
}

type RecordConversionRequest struct {
	DealID uuid.UUID `json:"deal_id"`
}

func (h *ConversionsHandler) Record(c *fiber.Ctx) error {
	var req RecordConversionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidPayload
	}
	if req.DealID == uuid.Nil {
		return domain.ErrValidationFailed.WithMessage("deal_id is required")
	}

	conv, err := h.conversions.Record(c.Context(), req.DealID)
	if err != nil {
		h.logger.Error("failed to record conversion", "deal_id", req.DealID, "error", err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"conversion": conv,
	})
}
