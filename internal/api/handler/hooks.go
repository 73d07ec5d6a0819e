package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// Ingestor processes one authenticated inbound request into a deal
type Ingestor interface {
	Ingest(ctx context.Context, token, sourceIP string, rawBody []byte, signature string) (*domain.Deal, error)
}

type HooksHandler struct {
	ingest Ingestor
	logger *slog.Logger
}

func NewHooksHandler(ingest Ingestor, logger *slog.Logger) *HooksHandler {
	return &HooksHandler{
		ingest: ingest,
		logger: logger,
	}
}

type IngestResponse struct {
	Success bool       `json:"success"`
	DealID  *uuid.UUID `json:"deal_id,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Receive handles POST /hooks/:token. Payload and mapping failures are
// answered 200 with success=false so well-behaved senders do not retry
// what will never succeed; auth and rate failures keep their status codes.
func (h *HooksHandler) Receive(c *fiber.Ctx) error {
	token := c.Params("token")
	signature := c.Get("X-Signature")
	if signature == "" {
		signature = c.Get("X-Hub-Signature-256")
	}

	deal, err := h.ingest.Ingest(c.Context(), token, c.IP(), c.Body(), signature)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case "INVALID_PAYLOAD", "MAPPING_FAILED", "VALIDATION_FAILED", "INTERNAL_ERROR":
				return c.JSON(IngestResponse{
					Success: false,
					Error:   appErr.Message,
				})
			}
		}
		return err
	}

	return c.JSON(IngestResponse{
		Success: true,
		DealID:  &deal.ID,
	})
}
