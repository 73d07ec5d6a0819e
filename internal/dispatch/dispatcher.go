package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/diegomanaglia/simply-crm/internal/domain"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

// maxResponseBody caps how much of a receiver's response is persisted
// in the delivery log.
const maxResponseBody = 4096

const userAgent = "SimplyCRM-Webhook/1.0"

type DispatcherConfig struct {
	Timeout     time.Duration
	FailCeiling int
	Backoff     Backoff
}

// Dispatcher consumes deal events from the bus, fans deliveries out to
// every subscribed webhook and records one log row per attempt. A
// failing webhook never delays or affects deliveries to the others.
type Dispatcher struct {
	webhooks repository.WebhookRepositoryInterface
	logs     repository.WebhookLogRepositoryInterface
	client   *http.Client
	cfg      DispatcherConfig
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewDispatcher(
	webhooks repository.WebhookRepositoryInterface,
	logs repository.WebhookLogRepositoryInterface,
	cfg DispatcherConfig,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		webhooks: webhooks,
		logs:     logs,
		client:   &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		logger:   logger,
	}
}

// Run consumes the bus until it is closed or the context is canceled,
// then waits for in-flight deliveries to finish.
func (d *Dispatcher) Run(ctx context.Context, bus *Bus) {
	d.logger.Info("webhook dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.wg.Wait()
			d.logger.Info("webhook dispatcher stopped")
			return
		case event, ok := <-bus.Events():
			if !ok {
				d.wg.Wait()
				d.logger.Info("webhook dispatcher stopped")
				return
			}
			d.Dispatch(ctx, event)
		}
	}
}

// Dispatch delivers an event to every active webhook subscribed to its
// type, each in its own goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) {
	webhooks, err := d.webhooks.ListActiveByEvent(ctx, event.Type)
	if err != nil {
		d.logger.Error("failed to list webhooks for event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err,
		)
		return
	}

	payload, err := marshalEnvelope(event)
	if err != nil {
		d.logger.Error("failed to marshal event payload",
			"event_id", event.ID,
			"error", err,
		)
		return
	}

	for _, webhook := range webhooks {
		d.wg.Add(1)
		go func(w *domain.Webhook) {
			defer d.wg.Done()
			d.dispatchOne(ctx, w, event, payload)
		}(webhook)
	}
}

// Fire delivers one event to a single webhook regardless of its
// subscriptions. The admin test endpoint uses it to exercise a
// configuration end to end.
func (d *Dispatcher) Fire(ctx context.Context, w *domain.Webhook, event domain.Event) error {
	payload, err := marshalEnvelope(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.dispatchOne(ctx, w, event, payload)
	}()

	return nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, w *domain.Webhook, event domain.Event, payload []byte) {
	inFlight, err := d.logs.HasInFlight(ctx, w.ID, event.ID)
	if err != nil {
		d.logger.Error("failed to check in-flight delivery",
			"webhook_id", w.ID,
			"event_id", event.ID,
			"error", err,
		)
		return
	}
	if inFlight {
		d.logger.Debug("delivery already in flight, skipping",
			"webhook_id", w.ID,
			"event_id", event.ID,
		)
		return
	}

	log := &domain.WebhookLog{
		WebhookID: w.ID,
		EventID:   event.ID,
		EventType: event.Type,
		Payload:   payload,
	}

	if err := d.logs.Create(ctx, log); err != nil {
		// Lost the race to a concurrent emission of the same event.
		if errors.Is(err, domain.ErrDeliveryInFlight) {
			return
		}
		d.logger.Error("failed to create delivery log",
			"webhook_id", w.ID,
			"event_id", event.ID,
			"error", err,
		)
		return
	}

	d.Deliver(ctx, w, log)
}

// Deliver performs one HTTP delivery attempt and records its outcome.
// On failure it either schedules the next attempt or finalizes the log
// row. The failure streak that auto-disables the webhook advances only
// when a lineage is exhausted, never on an attempt that will be retried.
func (d *Dispatcher) Deliver(ctx context.Context, w *domain.Webhook, log *domain.WebhookLog) {
	start := time.Now()
	status, body, err := d.send(ctx, w, log)
	latency := time.Since(start).Milliseconds()

	if err == nil && status >= 200 && status < 300 {
		if mErr := d.logs.MarkSuccess(ctx, log.ID, status, body, latency); mErr != nil {
			d.logger.Error("failed to mark delivery success", "log_id", log.ID, "error", mErr)
		}
		if rErr := d.webhooks.RecordSuccess(ctx, w.ID); rErr != nil {
			d.logger.Error("failed to record webhook success", "webhook_id", w.ID, "error", rErr)
		}
		d.logger.Info("webhook delivered",
			"webhook_id", w.ID,
			"event_id", log.EventID,
			"attempt", log.Attempt,
			"status", status,
			"latency_ms", latency,
		)
		return
	}

	var errMsg string
	var statusPtr *int
	if err != nil {
		errMsg = err.Error()
	} else {
		errMsg = fmt.Sprintf("HTTP %d", status)
		statusPtr = &status
	}

	if w.RetryEnabled && log.Attempt <= w.MaxRetries {
		nextRetry := time.Now().Add(d.cfg.Backoff.Delay(log.Attempt))
		if mErr := d.logs.MarkRetrying(ctx, log.ID, statusPtr, body, errMsg, latency, nextRetry); mErr != nil {
			d.logger.Error("failed to schedule retry", "log_id", log.ID, "error", mErr)
		} else {
			d.logger.Info("webhook delivery scheduled for retry",
				"webhook_id", w.ID,
				"event_id", log.EventID,
				"attempt", log.Attempt,
				"next_retry", nextRetry,
				"error", errMsg,
			)
		}
		if rErr := d.webhooks.RecordAttemptError(ctx, w.ID, errMsg); rErr != nil {
			d.logger.Error("failed to record attempt error", "webhook_id", w.ID, "error", rErr)
		}
		return
	}

	if mErr := d.logs.MarkFailed(ctx, log.ID, statusPtr, body, errMsg, latency); mErr != nil {
		d.logger.Error("failed to mark delivery failed", "log_id", log.ID, "error", mErr)
	} else {
		d.logger.Warn("webhook delivery failed",
			"webhook_id", w.ID,
			"event_id", log.EventID,
			"attempt", log.Attempt,
			"error", errMsg,
		)
	}

	failures, stillActive, rErr := d.webhooks.RecordFailure(ctx, w.ID, errMsg, d.cfg.FailCeiling)
	if rErr != nil {
		d.logger.Error("failed to record webhook failure", "webhook_id", w.ID, "error", rErr)
		return
	}
	if !stillActive {
		d.logger.Warn("webhook disabled after consecutive failures",
			"webhook_id", w.ID,
			"consecutive_failures", failures,
		)
	}
}

func (d *Dispatcher) send(ctx context.Context, w *domain.Webhook, log *domain.WebhookLog) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, string(w.Method), w.URL, bytes.NewReader(log.Payload))
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if w.SecretKey != "" {
		req.Header.Set("X-CRM-Signature", Sign(w.SecretKey, log.Payload))
	}
	req.Header.Set("X-CRM-Event", string(log.EventType))
	req.Header.Set("X-CRM-Delivery", log.ID.String())
	for k, v := range w.Headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, "", err
	}

	return resp.StatusCode, string(body), nil
}

type envelope struct {
	Event     domain.EventType `json:"event"`
	Timestamp time.Time        `json:"timestamp"`
	Data      domain.Deal      `json:"data"`
}

func marshalEnvelope(event domain.Event) ([]byte, error) {
	return json.Marshal(envelope{
		Event:     event.Type,
		Timestamp: event.OccurredAt,
		Data:      event.Deal,
	})
}
