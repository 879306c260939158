package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"slotswapper/internal/domain"
)

const swapRequestColumns = "id, requester_id, receiver_id, requester_slot_id, receiver_slot_id, status, message, created_at, updated_at"

type swapRequestRepository struct {
	db querier
}

func NewSwapRequestRepository(db *sql.DB) domain.SwapRequestRepository {
	return &swapRequestRepository{db: db}
}

func scanSwapRequest(row *sql.Row) (*domain.SwapRequest, error) {
	req := &domain.SwapRequest{}
	err := row.Scan(&req.ID, &req.RequesterID, &req.ReceiverID, &req.RequesterSlotID, &req.ReceiverSlotID, &req.Status, &req.Message, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *swapRequestRepository) Create(ctx context.Context, req *domain.SwapRequest) error {
	query := `
		INSERT INTO swap_requests (requester_id, receiver_id, requester_slot_id, receiver_slot_id, status, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		req.RequesterID, req.ReceiverID, req.RequesterSlotID, req.ReceiverSlotID,
		req.Status, req.Message, req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID)
}

func (r *swapRequestRepository) GetByID(ctx context.Context, id string) (*domain.SwapRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM swap_requests WHERE id = $1`, swapRequestColumns)
	return scanSwapRequest(r.db.QueryRowContext(ctx, query, id))
}

func (r *swapRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.SwapRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM swap_requests WHERE id = $1 FOR UPDATE`, swapRequestColumns)
	return scanSwapRequest(r.db.QueryRowContext(ctx, query, id))
}

// FindActiveBetween checks both orientations of the slot pair; at most one
// PENDING request may link two slots at a time.
func (r *swapRequestRepository) FindActiveBetween(ctx context.Context, slotA, slotB string) (*domain.SwapRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM swap_requests
		WHERE status = $1
		  AND ((requester_slot_id = $2 AND receiver_slot_id = $3)
		    OR (requester_slot_id = $3 AND receiver_slot_id = $2))
	`, swapRequestColumns)
	return scanSwapRequest(r.db.QueryRowContext(ctx, query, domain.SwapPending, slotA, slotB))
}

func (r *swapRequestRepository) ListForUser(ctx context.Context, userID string, direction domain.SwapDirection) ([]*domain.SwapRequest, error) {
	var where string
	switch direction {
	case domain.DirectionSent:
		where = "requester_id = $1"
	case domain.DirectionReceived:
		where = "receiver_id = $1"
	default:
		where = "(requester_id = $1 OR receiver_id = $1)"
	}
	query := fmt.Sprintf(`
		SELECT %s FROM swap_requests
		WHERE %s
		ORDER BY created_at DESC
	`, swapRequestColumns, where)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reqs := make([]*domain.SwapRequest, 0)
	for rows.Next() {
		req := &domain.SwapRequest{}
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.ReceiverID, &req.RequesterSlotID, &req.ReceiverSlotID, &req.Status, &req.Message, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Resolve is guarded by status = PENDING in the WHERE clause, so a request can
// only leave PENDING once. A second resolution attempt reports ErrAlreadyResolved.
func (r *swapRequestRepository) Resolve(ctx context.Context, id string, outcome domain.SwapStatus) (*domain.SwapRequest, error) {
	query := fmt.Sprintf(`
		UPDATE swap_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING %s
	`, swapRequestColumns)
	resolved, err := scanSwapRequest(r.db.QueryRowContext(ctx, query, outcome, id, domain.SwapPending))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return nil, domain.ErrAlreadyResolved
			}
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return resolved, nil
}
