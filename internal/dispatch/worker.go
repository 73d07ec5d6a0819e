package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/diegomanaglia/simply-crm/internal/domain"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

const claimBatchSize = 10

// Worker drives retries. It polls for log rows whose retry is due,
// finalizes them and hands the follow-up attempt to the dispatcher.
// Scheduled retries live in the database, so they survive restarts.
type Worker struct {
	webhooks   repository.WebhookRepositoryInterface
	logs       repository.WebhookLogRepositoryInterface
	dispatcher *Dispatcher
	pollEvery  time.Duration
	logger     *slog.Logger
	stopCh     chan struct{}
}

func NewWorker(
	webhooks repository.WebhookRepositoryInterface,
	logs repository.WebhookLogRepositoryInterface,
	dispatcher *Dispatcher,
	pollEvery time.Duration,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		webhooks:   webhooks,
		logs:       logs,
		dispatcher: dispatcher,
		pollEvery:  pollEvery,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()

	w.logger.Info("retry worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("retry worker stopped")
			return
		case <-w.stopCh:
			w.logger.Info("retry worker stopped")
			return
		case <-ticker.C:
			if err := w.processDue(ctx); err != nil {
				w.logger.Error("failed to process due retries", "error", err)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) processDue(ctx context.Context) error {
	claimed, err := w.logs.ClaimDue(ctx, claimBatchSize)
	if err != nil {
		return fmt.Errorf("claim due retries: %w", err)
	}

	for _, log := range claimed {
		w.retry(ctx, log)
	}

	return nil
}

// retry spawns the follow-up attempt for a claimed row. The claimed row
// itself is already finalized as failed, so if the webhook has been
// deactivated or deleted in the meantime the sequence simply ends here.
func (w *Worker) retry(ctx context.Context, prev *domain.WebhookLog) {
	webhook, err := w.webhooks.GetByID(ctx, prev.WebhookID)
	if err != nil {
		if errors.Is(err, domain.ErrWebhookNotFound) {
			w.logger.Info("retry dropped, webhook deleted", "webhook_id", prev.WebhookID)
			return
		}
		w.logger.Error("failed to load webhook for retry",
			"webhook_id", prev.WebhookID,
			"error", err,
		)
		return
	}

	if !webhook.IsActive {
		w.logger.Info("retry dropped, webhook inactive",
			"webhook_id", webhook.ID,
			"event_id", prev.EventID,
		)
		return
	}

	// Subscriptions may have been edited since the first attempt.
	if !webhook.SubscribesTo(prev.EventType) {
		w.logger.Info("retry dropped, webhook no longer subscribed",
			"webhook_id", webhook.ID,
			"event_type", prev.EventType,
		)
		return
	}

	next := &domain.WebhookLog{
		WebhookID: prev.WebhookID,
		EventID:   prev.EventID,
		EventType: prev.EventType,
		Payload:   prev.Payload,
		Attempt:   prev.Attempt + 1,
	}

	if err := w.logs.Create(ctx, next); err != nil {
		if errors.Is(err, domain.ErrDeliveryInFlight) {
			return
		}
		w.logger.Error("failed to create retry attempt",
			"webhook_id", prev.WebhookID,
			"event_id", prev.EventID,
			"error", err,
		)
		return
	}

	w.dispatcher.Deliver(ctx, webhook, next)
}
