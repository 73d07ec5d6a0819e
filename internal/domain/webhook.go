package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// HTTPMethod restricts outbound deliveries to POST or PUT
type HTTPMethod string

const (
	MethodPost HTTPMethod = "POST"
	MethodPut  HTTPMethod = "PUT"
)

// Webhook is an outbound subscription: events matching the subscribed set
// are delivered to the destination URL, signed when SecretKey is set.
type Webhook struct {
	ID                  uuid.UUID         `json:"id"`
	Name                string            `json:"name"`
	URL                 string            `json:"url"`
	Method              HTTPMethod        `json:"method"`
	Headers             map[string]string `json:"headers,omitempty"`
	Events              []EventType       `json:"events"`
	SecretKey           string            `json:"-"`
	IsActive            bool              `json:"is_active"`
	AllowedIPs          []string          `json:"allowed_ips,omitempty"`
	RetryEnabled        bool              `json:"retry_enabled"`
	MaxRetries          int               `json:"max_retries"`
	ConsecutiveFailures int               `json:"consecutive_failures"`
	LastTriggeredAt     *time.Time        `json:"last_triggered_at,omitempty"`
	LastSuccessAt       *time.Time        `json:"last_success_at,omitempty"`
	LastError           string            `json:"last_error,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// SubscribesTo reports whether the webhook is subscribed to the event type
func (w *Webhook) SubscribesTo(et EventType) bool {
	for _, e := range w.Events {
		if e == et {
			return true
		}
	}
	return false
}

// DeliveryStatus is the state of one delivery attempt.
// pending -> (retrying)* -> success | failed; terminal states are absorbing.
type DeliveryStatus string

const (
	DeliveryPending  DeliveryStatus = "pending"
	DeliverySuccess  DeliveryStatus = "success"
	DeliveryFailed   DeliveryStatus = "failed"
	DeliveryRetrying DeliveryStatus = "retrying"
)

// IsTerminal reports whether the status admits no further transitions
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliverySuccess || s == DeliveryFailed
}

// WebhookLog records one outbound delivery attempt. Rows are append-only:
// only the status and response fields of a non-terminal row may change.
type WebhookLog struct {
	ID             uuid.UUID       `json:"id"`
	WebhookID      uuid.UUID       `json:"webhook_id"`
	EventID        uuid.UUID       `json:"event_id"`
	EventType      EventType       `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	Attempt        int            `json:"attempt"`
	Status         DeliveryStatus `json:"status"`
	ResponseStatus *int           `json:"response_status,omitempty"`
	ResponseBody   string         `json:"response_body,omitempty"`
	LatencyMs      *int64         `json:"latency_ms,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	NextRetryAt    *time.Time     `json:"next_retry_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// WebhookLogFilter selects delivery log rows for history views
type WebhookLogFilter struct {
	WebhookID *uuid.UUID
	Status    *DeliveryStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
