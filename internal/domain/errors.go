package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers match
// these with errors.Is and map them to HTTP error codes.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is not allowed to act on the record.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidRange is returned when an event would end at or before its start.
	ErrInvalidRange = errors.New("start time must be before end time")

	// ErrSelfSwap is returned when both sides of a swap request are the same slot.
	ErrSelfSwap = errors.New("cannot swap a slot with itself")

	// ErrIneligibleSlot is returned when a slot is missing, not SWAPPABLE, or
	// owned by the wrong side of the request.
	ErrIneligibleSlot = errors.New("slot not found or not available for swap")

	// ErrDuplicateRequest is returned when a pending request already links the
	// two slots, in either direction.
	ErrDuplicateRequest = errors.New("a swap request already exists for these slots")

	// ErrConflictState is returned when an event is edited or deleted while a
	// swap on it is pending.
	ErrConflictState = errors.New("event is locked by a pending swap")

	// ErrSwapRequestNotFound is returned when a swap request does not exist or
	// the caller is not its receiver. The two cases are deliberately
	// indistinguishable so non-receivers learn nothing about other users' requests.
	ErrSwapRequestNotFound = errors.New("swap request not found or not yours to answer")

	// ErrAlreadyResolved is returned when a swap request was already accepted
	// or rejected.
	ErrAlreadyResolved = errors.New("swap request already resolved")

	// ErrSlotVanished is returned when a pending request references an event
	// that no longer exists. This indicates a consistency fault: events under a
	// pending swap are supposed to be undeletable.
	ErrSlotVanished = errors.New("referenced slot no longer exists")

	// ErrTxConflict is returned when the database aborts a transaction due to
	// concurrent access. The operation had no effect and may be retried.
	ErrTxConflict = errors.New("transaction conflict, retry")

	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already exists")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
