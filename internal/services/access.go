package services

import "slotswapper/internal/domain"

// Authorization predicates shared by the event and swap services.

// assertOwner fails with ErrForbidden unless userID owns the event.
func assertOwner(e *domain.Event, userID string) error {
	if e.OwnerID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// assertReceiver fails with ErrForbidden unless userID is the request's receiver.
func assertReceiver(req *domain.SwapRequest, userID string) error {
	if req.ReceiverID != userID {
		return domain.ErrForbidden
	}
	return nil
}
