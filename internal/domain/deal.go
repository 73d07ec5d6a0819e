package domain

import (
	"time"

	"github.com/google/uuid"
)

// Temperature classifies how warm a lead is
type Temperature string

const (
	TemperatureCold Temperature = "cold"
	TemperatureWarm Temperature = "warm"
	TemperatureHot  Temperature = "hot"
)

// Deal represents a CRM opportunity moving through pipeline phases
type Deal struct {
	ID               uuid.UUID   `json:"id"`
	PipelineID       uuid.UUID   `json:"pipeline_id"`
	PhaseID          uuid.UUID   `json:"phase_id"`
	ContactName      string      `json:"contact_name"`
	Email            string      `json:"email,omitempty"`
	Phone            string      `json:"phone,omitempty"`
	Company          string      `json:"company,omitempty"`
	Value            float64     `json:"value"`
	Notes            string      `json:"notes,omitempty"`
	Tags             []string    `json:"tags,omitempty"`
	Temperature      Temperature `json:"temperature"`
	SourceWebhookID  *uuid.UUID  `json:"source_webhook_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// HasLeadIdentity reports whether the deal carries at least one field
// usable for lead deduplication
func (d *Deal) HasLeadIdentity() bool {
	return d.Email != "" || d.Phone != ""
}
