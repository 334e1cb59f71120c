package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the status of a catalog event in the outbox table.
type EventStatus string

const (
	// EventStatusPending indicates the event has been created but not yet published
	EventStatusPending EventStatus = "pending"
	// EventStatusProcessed indicates the event has been successfully published
	EventStatusProcessed EventStatus = "processed"
	// EventStatusFailed indicates publishing the event has failed
	EventStatusFailed EventStatus = "failed"
)

// Catalog event types recorded when the listing set of a product changes.
const (
	EventTypeListingCreated = "listing.created"
	EventTypeListingUpdated = "listing.updated"
	EventTypeListingDeleted = "listing.deleted"
)

// Event represents a catalog change recorded for the outbox pattern. Events are
// written in the same transaction as the change itself and published to SQS by
// the outbox worker.
type Event struct {
	ID          uuid.UUID
	EventType   string
	EventData   json.RawMessage
	Status      EventStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// InitMeta initializes the event metadata including ID and timestamps.
func (e *Event) InitMeta() {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	if e.Status == "" {
		e.Status = EventStatusPending
	}
}
