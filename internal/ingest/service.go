package ingest

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/dispatch"
	"github.com/diegomanaglia/simply-crm/internal/domain"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

// Service turns authenticated third-party payloads into deals. Every
// request that resolves to a known webhook leaves exactly one log row,
// whatever the outcome.
type Service struct {
	inbound     repository.InboundWebhookRepositoryInterface
	inboundLogs repository.InboundWebhookLogRepositoryInterface
	deals       repository.DealRepositoryInterface
	bus         *dispatch.Bus
	dedupWindow time.Duration
	logger      *slog.Logger
}

func NewService(
	inbound repository.InboundWebhookRepositoryInterface,
	inboundLogs repository.InboundWebhookLogRepositoryInterface,
	deals repository.DealRepositoryInterface,
	bus *dispatch.Bus,
	dedupWindow time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		inbound:     inbound,
		inboundLogs: inboundLogs,
		deals:       deals,
		bus:         bus,
		dedupWindow: dedupWindow,
		logger:      logger,
	}
}

// Ingest processes one inbound request. It returns the created deal on
// success; on any rejection or failure the returned error carries the
// outcome and the request is still logged.
func (s *Service) Ingest(ctx context.Context, token, sourceIP string, rawBody []byte, signature string) (*domain.Deal, error) {
	iw, err := s.inbound.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(iw.SecretToken), []byte(token)) != 1 {
		return nil, domain.ErrInvalidToken
	}

	// Counted even when the request is later rejected.
	if err := s.inbound.RecordRequest(ctx, iw.ID); err != nil {
		s.logger.Error("failed to record inbound request", "inbound_webhook_id", iw.ID, "error", err)
	}

	if !iw.IsActive {
		s.logOutcome(ctx, iw.ID, sourceIP, rawBody, nil, nil, domain.InboundRejected, "webhook is deactivated")
		return nil, domain.ErrWebhookInactive
	}

	if !ipAllowed(sourceIP, iw.AllowedIPs) {
		s.logOutcome(ctx, iw.ID, sourceIP, rawBody, nil, nil, domain.InboundRejected, "source IP not allowed")
		return nil, domain.ErrIPNotAllowed
	}

	if iw.HMACSecret != "" && !dispatch.Verify(iw.HMACSecret, rawBody, signature) {
		s.logOutcome(ctx, iw.ID, sourceIP, rawBody, nil, nil, domain.InboundRejected, "signature verification failed")
		return nil, domain.ErrInvalidSignature
	}

	payload, err := domain.ParsePayload(rawBody)
	if err != nil {
		s.logOutcome(ctx, iw.ID, sourceIP, rawBody, nil, nil, domain.InboundFailed, "payload is not valid JSON")
		return nil, domain.ErrInvalidPayload.WithError(err)
	}

	deal, mapped := MapDeal(payload, iw)
	mappedJSON, _ := json.Marshal(mapped)

	if !deal.HasLeadIdentity() {
		s.logOutcome(ctx, iw.ID, sourceIP, rawBody, mappedJSON, nil, domain.InboundFailed, "mapping produced no contact name, email or phone")
		return nil, domain.ErrMappingFailed
	}

	if deal.Email != "" || deal.Phone != "" {
		since := time.Now().Add(-s.dedupWindow)
		existing, err := s.deals.FindRecentLead(ctx, iw.ID, deal.Email, deal.Phone, since)
		if err != nil {
			s.logOutcome(ctx, iw.ID, sourceIP, rawBody, mappedJSON, nil, domain.InboundFailed, "dedup lookup failed")
			return nil, domain.ErrInternal.WithError(err)
		}
		if existing != nil {
			msg := fmt.Sprintf("duplicate lead, deal %s created at %s", existing.ID, existing.CreatedAt.Format(time.RFC3339))
			s.logOutcome(ctx, iw.ID, sourceIP, rawBody, mappedJSON, nil, domain.InboundRejected, msg)
			return nil, domain.ErrDuplicateLead
		}
	}

	if err := s.deals.Create(ctx, deal); err != nil {
		s.logOutcome(ctx, iw.ID, sourceIP, rawBody, mappedJSON, nil, domain.InboundFailed, "deal creation failed")
		return nil, domain.ErrInternal.WithError(err)
	}

	s.bus.Publish(domain.NewEvent(domain.EventDealCreated, *deal))
	s.logOutcome(ctx, iw.ID, sourceIP, rawBody, mappedJSON, &deal.ID, domain.InboundSuccess, "")

	s.logger.Info("inbound lead ingested",
		"inbound_webhook_id", iw.ID,
		"deal_id", deal.ID,
	)

	return deal, nil
}

func (s *Service) logOutcome(
	ctx context.Context,
	inboundWebhookID uuid.UUID,
	sourceIP string,
	rawBody, mappedJSON []byte,
	dealID *uuid.UUID,
	status domain.InboundStatus,
	errorMsg string,
) {
	entry := &domain.InboundWebhookLog{
		InboundWebhookID: inboundWebhookID,
		SourceIP:         sourceIP,
		RawPayload:       string(rawBody),
		MappedPayload:    mappedJSON,
		DealID:           dealID,
		Status:           status,
		ErrorMessage:     errorMsg,
	}

	if err := s.inboundLogs.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write inbound request log",
			"inbound_webhook_id", inboundWebhookID,
			"status", status,
			"error", err,
		)
	}
}

func ipAllowed(sourceIP string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, ip := range allowed {
		if ip == sourceIP {
			return true
		}
	}
	return false
}
