package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"slotswapper/internal/domain"
)

const eventColumns = "id, owner_id, title, description, start_time, end_time, status, created_at, updated_at"

type eventRepository struct {
	db querier
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{db: db}
}

func scanEvent(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (owner_id, title, description, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query, e.OwnerID, e.Title, e.Description, e.StartTime, e.EndTime, e.Status, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	return scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 FOR UPDATE`, eventColumns)
	return scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE owner_id = $1
		ORDER BY start_time ASC
	`, eventColumns)
	return r.list(ctx, query, ownerID)
}

func (r *eventRepository) ListSwappable(ctx context.Context, excludeOwnerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE status = $1 AND owner_id <> $2
		ORDER BY start_time ASC
	`, eventColumns)
	return r.list(ctx, query, domain.StatusSwappable, excludeOwnerID)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update applies the patch with two guards: the patched times must keep
// start < end, and a SWAP_PENDING event is frozen. The freeze is part of the
// UPDATE's WHERE clause so it cannot be raced by a concurrent swap creation.
func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStart := current.StartTime
	if patch.StartTime != nil {
		newStart = *patch.StartTime
	}
	newEnd := current.EndTime
	if patch.EndTime != nil {
		newEnd = *patch.EndTime
	}
	if !newStart.Before(newEnd) {
		return nil, domain.ErrInvalidRange
	}

	if patch.IsZero() {
		if current.Status == domain.StatusSwapPending {
			return nil, domain.ErrConflictState
		}
		return current, nil
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *patch.Description)
		n++
	}
	if patch.StartTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_time = $%d", n))
		args = append(args, *patch.StartTime)
		n++
	}
	if patch.EndTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("end_time = $%d", n))
		args = append(args, *patch.EndTime)
		n++
	}
	if patch.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *patch.Status)
		n++
	}
	args = append(args, id, domain.StatusSwapPending)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d AND status <> $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, n+1, eventColumns)

	updated, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Row exists but was skipped by the freeze guard, or vanished since
			// the read above.
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return nil, domain.ErrConflictState
			}
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete refuses to remove a SWAP_PENDING event; the pending request must be
// resolved first.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1 AND status <> $2`
	result, err := r.db.ExecContext(ctx, query, id, domain.StatusSwapPending)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return domain.ErrConflictState
		}
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetOwnerAndStatus(ctx context.Context, id, ownerID string, status domain.EventStatus) error {
	query := `UPDATE events SET owner_id = $1, status = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, ownerID, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
