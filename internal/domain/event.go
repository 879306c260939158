package domain

import (
	"context"
	"time"
)

// EventStatus is the swap-related state of a calendar event.
type EventStatus string

const (
	// StatusBusy is the default state: the event is private to its owner.
	StatusBusy EventStatus = "BUSY"
	// StatusSwappable means the owner has published the event as a slot others may request.
	StatusSwappable EventStatus = "SWAPPABLE"
	// StatusSwapPending means a pending swap request references the event; it is
	// frozen against edits and deletes until the request is resolved.
	StatusSwapPending EventStatus = "SWAP_PENDING"
)

// Valid reports whether s is one of the three known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusBusy, StatusSwappable, StatusSwapPending:
		return true
	}
	return false
}

// Event represents a calendar event owned by a user. An event with status
// SWAPPABLE is a "slot" other users may offer to exchange for one of their own.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(ownerID, title, description string, startTime, endTime time.Time, status EventStatus, createdAt, updatedAt time.Time) *Event {
	return &Event{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventPatch carries optional field updates for an event. Nil fields are unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *EventStatus
}

// IsZero reports whether the patch changes nothing.
func (p EventPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.StartTime == nil && p.EndTime == nil && p.Status == nil
}

// EventRepository defines the interface for event storage.
//
// Update and Delete enforce the swap freeze: they fail with ErrConflictState
// when the event's current status is SWAP_PENDING, regardless of caller.
// Update fails with ErrInvalidRange when the patched times would violate
// start < end. The swap engine transitions frozen events through SetStatus and
// SetOwnerAndStatus inside a unit of work; those bypass the freeze.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetByIDForUpdate reads the event and locks its row until the enclosing
	// transaction ends. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	// ListSwappable returns SWAPPABLE events not owned by excludeOwnerID,
	// ordered by start time ascending.
	ListSwappable(ctx context.Context, excludeOwnerID string) ([]*Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status EventStatus) error
	SetOwnerAndStatus(ctx context.Context, id, ownerID string, status EventStatus) error
}

// EventService defines the business logic for a user's own calendar events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	ListMyEvents(ctx context.Context, ownerID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, ownerID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
}
