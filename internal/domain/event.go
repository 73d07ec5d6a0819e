package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a CRM state change that webhooks can subscribe to
type EventType string

const (
	EventDealCreated  EventType = "deal_created"
	EventDealWon      EventType = "deal_won"
	EventDealLost     EventType = "deal_lost"
	EventDealMoved    EventType = "deal_moved"
	EventDealUpdated  EventType = "deal_updated"
	EventDealArchived EventType = "deal_archived"
)

// AllEventTypes lists every event type webhooks may subscribe to
var AllEventTypes = []EventType{
	EventDealCreated,
	EventDealWon,
	EventDealLost,
	EventDealMoved,
	EventDealUpdated,
	EventDealArchived,
}

// IsValidEventType reports whether s names a known event type
func IsValidEventType(s string) bool {
	for _, et := range AllEventTypes {
		if string(et) == s {
			return true
		}
	}
	return false
}

// Event is a single occurrence of a CRM state change. The ID identifies
// the occurrence itself, so duplicate emissions for the same transition
// carry the same ID and can be collapsed by the dispatcher.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	Deal       Deal      `json:"deal"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent builds an Event for a deal transition with a fresh occurrence ID.
func NewEvent(t EventType, deal Deal) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		Deal:       deal,
		OccurredAt: time.Now().UTC(),
	}
}
