package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/domain"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

type InboundWebhooksHandler struct {
	inbound repository.InboundWebhookRepositoryInterface
	logger  *slog.Logger
}

func NewInboundWebhooksHandler(inbound repository.InboundWebhookRepositoryInterface, logger *slog.Logger) *InboundWebhooksHandler {
	return &InboundWebhooksHandler{
		inbound: inbound,
		logger:  logger,
	}
}

type CreateInboundWebhookRequest struct {
	Name               string                `json:"name"`
	PipelineID         uuid.UUID             `json:"pipeline_id"`
	PhaseID            uuid.UUID             `json:"phase_id"`
	HMACSecret         string                `json:"hmac_secret"`
	FieldMappings      []domain.FieldMapping `json:"field_mappings"`
	DefaultTags        []string              `json:"default_tags"`
	DefaultTemperature string                `json:"default_temperature"`
	AllowedIPs         []string              `json:"allowed_ips"`
}

type UpdateInboundWebhookRequest struct {
	Name               *string                `json:"name"`
	PipelineID         *uuid.UUID             `json:"pipeline_id"`
	PhaseID            *uuid.UUID             `json:"phase_id"`
	HMACSecret         *string                `json:"hmac_secret"`
	FieldMappings      *[]domain.FieldMapping `json:"field_mappings"`
	DefaultTags        *[]string              `json:"default_tags"`
	DefaultTemperature *string                `json:"default_temperature"`
	AllowedIPs         *[]string              `json:"allowed_ips"`
	IsActive           *bool                  `json:"is_active"`
}

func (h *InboundWebhooksHandler) List(c *fiber.Ctx) error {
	hooks, err := h.inbound.List(c.Context())
	if err != nil {
		h.logger.Error("failed to list inbound webhooks", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"inbound_webhooks": hooks,
	})
}

func (h *InboundWebhooksHandler) Create(c *fiber.Ctx) error {
	var req CreateInboundWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	if req.Name == "" {
		return domain.ErrValidationFailed.WithMessage("name is required")
	}
	if req.PipelineID == uuid.Nil || req.PhaseID == uuid.Nil {
		return domain.ErrValidationFailed.WithMessage("pipeline_id and phase_id are required")
	}
	if err := validateFieldMappings(req.FieldMappings); err != nil {
		return err
	}

	temperature, err := parseTemperature(req.DefaultTemperature)
	if err != nil {
		return err
	}

	token, err := generateSecret(24)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err)
		return err
	}

	iw := &domain.InboundWebhook{
		Name:               req.Name,
		PipelineID:         req.PipelineID,
		PhaseID:            req.PhaseID,
		SecretToken:        token,
		HMACSecret:         req.HMACSecret,
		FieldMappings:      req.FieldMappings,
		DefaultTags:        req.DefaultTags,
		DefaultTemperature: temperature,
		IsActive:           true,
		AllowedIPs:         req.AllowedIPs,
	}

	if err := h.inbound.Create(c.Context(), iw); err != nil {
		h.logger.Error("failed to create inbound webhook", "error", err)
		return err
	}

	h.logger.Info("inbound webhook created",
		"inbound_webhook_id", iw.ID,
		"name", iw.Name,
	)

	// The token is the endpoint address; it is shown only once.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"inbound_webhook": iw,
		"token":           token,
	})
}

func (h *InboundWebhooksHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrWebhookNotFound
	}

	iw, err := h.inbound.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"inbound_webhook": iw,
	})
}

func (h *InboundWebhooksHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrWebhookNotFound
	}

	var req UpdateInboundWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	iw, err := h.inbound.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return domain.ErrValidationFailed.WithMessage("name is required")
		}
		iw.Name = *req.Name
	}
	if req.PipelineID != nil {
		iw.PipelineID = *req.PipelineID
	}
	if req.PhaseID != nil {
		iw.PhaseID = *req.PhaseID
	}
	if req.HMACSecret != nil {
		iw.HMACSecret = *req.HMACSecret
	}
	if req.FieldMappings != nil {
		if err := validateFieldMappings(*req.FieldMappings); err != nil {
			return err
		}
		iw.FieldMappings = *req.FieldMappings
	}
	if req.DefaultTags != nil {
		iw.DefaultTags = *req.DefaultTags
	}
	if req.DefaultTemperature != nil {
		temperature, err := parseTemperature(*req.DefaultTemperature)
		if err != nil {
			return err
		}
		iw.DefaultTemperature = temperature
	}
	if req.AllowedIPs != nil {
		iw.AllowedIPs = *req.AllowedIPs
	}
	if req.IsActive != nil {
		iw.IsActive = *req.IsActive
	}

	if err := h.inbound.Update(c.Context(), iw); err != nil {
		h.logger.Error("failed to update inbound webhook", "inbound_webhook_id", id, "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"inbound_webhook": iw,
	})
}

func (h *InboundWebhooksHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrWebhookNotFound
	}

	if err := h.inbound.Delete(c.Context(), id); err != nil {
		return err
	}

	h.logger.Info("inbound webhook deleted", "inbound_webhook_id", id)

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func validateFieldMappings(mappings []domain.FieldMapping) error {
	for _, m := range mappings {
		if m.Source == "" {
			return domain.ErrValidationFailed.WithMessage("field mapping source is required")
		}
		if !domain.IsValidTarget(string(m.Target)) {
			return domain.ErrValidationFailed.WithMessage("unknown mapping target: " + string(m.Target))
		}
		if !domain.IsValidTransform(string(m.Transform)) {
			return domain.ErrValidationFailed.WithMessage("unknown transform: " + string(m.Transform))
		}
	}
	return nil
}

func parseTemperature(s string) (domain.Temperature, error) {
	switch domain.Temperature(s) {
	case "":
		return domain.TemperatureWarm, nil
	case domain.TemperatureCold, domain.TemperatureWarm, domain.TemperatureHot:
		return domain.Temperature(s), nil
	}
	return "", domain.ErrValidationFailed.WithMessage("default_temperature must be cold, warm or hot")
}
