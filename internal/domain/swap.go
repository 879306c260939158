package domain

import (
	"context"
	"time"
)

// SwapStatus is the state of a swap request. PENDING is the only non-terminal state.
type SwapStatus string

const (
	SwapPending  SwapStatus = "PENDING"
	SwapAccepted SwapStatus = "ACCEPTED"
	SwapRejected SwapStatus = "REJECTED"
)

// SwapDirection filters swap request listings by the caller's role.
type SwapDirection string

const (
	DirectionSent     SwapDirection = "sent"
	DirectionReceived SwapDirection = "received"
	DirectionAll      SwapDirection = "all"
)

// SwapRequest is a proposal to exchange ownership of two slots. Requester,
// receiver and the two slot references are immutable after creation; only the
// status changes, exactly once, from PENDING to ACCEPTED or REJECTED.
// swagger:model SwapRequest
type SwapRequest struct {
	ID              string     `json:"id"`
	RequesterID     string     `json:"requester_id"`
	ReceiverID      string     `json:"receiver_id"`
	RequesterSlotID string     `json:"requester_slot_id"`
	ReceiverSlotID  string     `json:"receiver_slot_id"`
	Status          SwapStatus `json:"status"`
	Message         string     `json:"message"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewSwapRequest returns a new PENDING SwapRequest. ID is typically set by the repository on create.
func NewSwapRequest(requesterID, receiverID, requesterSlotID, receiverSlotID, message string, createdAt, updatedAt time.Time) *SwapRequest {
	return &SwapRequest{
		RequesterID:     requesterID,
		ReceiverID:      receiverID,
		RequesterSlotID: requesterSlotID,
		ReceiverSlotID:  receiverSlotID,
		Status:          SwapPending,
		Message:         message,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// SwapRequestRepository defines the interface for swap request storage.
type SwapRequestRepository interface {
	Create(ctx context.Context, req *SwapRequest) error
	GetByID(ctx context.Context, id string) (*SwapRequest, error)
	// GetByIDForUpdate reads the request and locks its row until the enclosing
	// transaction ends. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*SwapRequest, error)
	// FindActiveBetween returns the PENDING request linking the two slots in
	// either direction, or ErrNotFound.
	FindActiveBetween(ctx context.Context, slotA, slotB string) (*SwapRequest, error)
	// ListForUser returns requests the user sent, received, or both, ordered by
	// creation time descending.
	ListForUser(ctx context.Context, userID string, direction SwapDirection) ([]*SwapRequest, error)
	// Resolve moves a PENDING request to the given terminal outcome. It fails
	// with ErrAlreadyResolved when the request is no longer PENDING, so a
	// repeated accept or reject is rejected rather than applied twice.
	Resolve(ctx context.Context, id string, outcome SwapStatus) (*SwapRequest, error)
}

// UserSummary is the public slice of a user attached to read-side projections.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// SlotWithOwner bundles a swappable slot with its owner's public details.
// Computed at query time, never persisted.
type SlotWithOwner struct {
	Event *Event       `json:"event"`
	Owner *UserSummary `json:"owner"`
}

// SwapRequestDetail is the display projection of a swap request: the request
// plus the two referenced slots and the two parties. Computed at query time,
// never persisted.
type SwapRequestDetail struct {
	Request       *SwapRequest `json:"request"`
	Requester     *UserSummary `json:"requester"`
	Receiver      *UserSummary `json:"receiver"`
	RequesterSlot *Event       `json:"requester_slot"`
	ReceiverSlot  *Event       `json:"receiver_slot"`
}

// SwapService is the slot-swap engine. Create and Respond are atomic: either
// the request record and both event statuses change together, or none do.
type SwapService interface {
	// CreateSwapRequest proposes exchanging the requester's slot for another
	// user's slot. Both slots must be SWAPPABLE; the receiver is derived from
	// the target slot's current owner. On success both slots become SWAP_PENDING.
	CreateSwapRequest(ctx context.Context, requesterID, mySlotID, theirSlotID, message string) (*SwapRequestDetail, error)
	// RespondToSwapRequest accepts or rejects a pending request. Only the
	// receiver may respond. Accepting exchanges ownership of the two slots and
	// sets both BUSY; rejecting returns both to SWAPPABLE.
	RespondToSwapRequest(ctx context.Context, actingUserID, requestID string, accept bool) (*SwapRequest, error)
	// ListSwappableSlots returns other users' SWAPPABLE slots, start time ascending.
	ListSwappableSlots(ctx context.Context, excludeUserID string) ([]*SlotWithOwner, error)
	// ListSwapRequests returns the user's requests with display projections,
	// newest first.
	ListSwapRequests(ctx context.Context, userID string, direction SwapDirection) ([]*SwapRequestDetail, error)
}
