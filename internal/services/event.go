package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotswapper/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService over the given event store.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return fmt.Errorf("event owner is required")
	}
	if !event.StartTime.Before(event.EndTime) {
		return domain.ErrInvalidRange
	}
	if event.Status == "" {
		event.Status = domain.StatusBusy
	}
	// Owners create events BUSY or SWAPPABLE; SWAP_PENDING only ever comes
	// from the swap engine.
	if event.Status == domain.StatusSwapPending {
		return domain.ErrConflictState
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListByOwnerID(ctx, ownerID)
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, ownerID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := assertOwner(event, ownerID); err != nil {
		return nil, err
	}
	if patch.Status != nil && *patch.Status == domain.StatusSwapPending {
		// Owners may only toggle BUSY and SWAPPABLE.
		return nil, domain.ErrConflictState
	}

	// The store re-checks the freeze and the time range inside the UPDATE
	// itself; the read above is authorization only.
	updated, err := s.eventRepo.Update(ctx, eventID, patch)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := assertOwner(event, ownerID); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}
