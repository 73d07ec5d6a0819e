package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TargetField enumerates the CRM fields an inbound payload can map to
type TargetField string

const (
	TargetContactName TargetField = "contact_name"
	TargetEmail       TargetField = "email"
	TargetPhone       TargetField = "phone"
	TargetValue       TargetField = "value"
	TargetNotes       TargetField = "notes"
	TargetCompany     TargetField = "company"
)

// Transform names an optional normalization applied to a mapped value
type Transform string

const (
	TransformNone        Transform = ""
	TransformUppercase   Transform = "uppercase"
	TransformLowercase   Transform = "lowercase"
	TransformFormatPhone Transform = "format_phone"
	TransformTrim        Transform = "trim"
)

// IsValidTarget reports whether s names a mappable deal field
func IsValidTarget(s string) bool {
	switch TargetField(s) {
	case TargetContactName, TargetEmail, TargetPhone, TargetValue, TargetNotes, TargetCompany:
		return true
	}
	return false
}

// IsValidTransform reports whether s names a known transform
func IsValidTransform(s string) bool {
	switch Transform(s) {
	case TransformNone, TransformUppercase, TransformLowercase, TransformFormatPhone, TransformTrim:
		return true
	}
	return false
}

// FieldMapping maps one source payload path to a CRM deal field
type FieldMapping struct {
	Source    string      `json:"source"`
	Target    TargetField `json:"target"`
	Transform Transform   `json:"transform,omitempty"`
}

// InboundWebhook accepts third-party payloads at a per-webhook endpoint
// identified by SecretToken. HMACSecret, when set, additionally requires a
// valid body signature.
type InboundWebhook struct {
	ID                 uuid.UUID      `json:"id"`
	Name               string         `json:"name"`
	PipelineID         uuid.UUID      `json:"pipeline_id"`
	PhaseID            uuid.UUID      `json:"phase_id"`
	SecretToken        string         `json:"-"`
	HMACSecret         string         `json:"-"`
	FieldMappings      []FieldMapping `json:"field_mappings"`
	DefaultTags        []string       `json:"default_tags,omitempty"`
	DefaultTemperature Temperature    `json:"default_temperature"`
	IsActive           bool           `json:"is_active"`
	AllowedIPs         []string       `json:"allowed_ips,omitempty"`
	RequestsToday      int            `json:"requests_today"`
	LastRequestAt      *time.Time     `json:"last_request_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// InboundStatus is the outcome of one inbound request
type InboundStatus string

const (
	InboundSuccess  InboundStatus = "success"
	InboundFailed   InboundStatus = "failed"
	InboundRejected InboundStatus = "rejected"
)

// InboundWebhookLog records one inbound request, whatever the outcome.
// DealID is set only when a deal was created.
type InboundWebhookLog struct {
	ID               uuid.UUID       `json:"id"`
	InboundWebhookID uuid.UUID       `json:"inbound_webhook_id"`
	SourceIP         string          `json:"source_ip"`
	RawPayload       string          `json:"raw_payload"`
	MappedPayload    json.RawMessage `json:"mapped_payload,omitempty"`
	DealID           *uuid.UUID      `json:"deal_id,omitempty"`
	Status           InboundStatus   `json:"status"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// InboundLogFilter selects inbound log rows for history views
type InboundLogFilter struct {
	InboundWebhookID *uuid.UUID
	Status           *InboundStatus
	From             *time.Time
	To               *time.Time
	Limit            int
	Offset           int
}
