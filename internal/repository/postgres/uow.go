package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"slotswapper/internal/domain"
)

// unitOfWork implements domain.UnitOfWork on a postgres transaction with
// serializable isolation. FOR UPDATE reads inside the transaction additionally
// lock the touched rows, so concurrent swap attempts on the same slots are
// serialized instead of both committing.
type unitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(db *sql.DB) domain.UnitOfWork {
	return &unitOfWork{db: db}
}

type txStores struct {
	events       domain.EventRepository
	swapRequests domain.SwapRequestRepository
}

func (s *txStores) Events() domain.EventRepository { return s.events }

func (s *txStores) SwapRequests() domain.SwapRequestRepository { return s.swapRequests }

func (u *unitOfWork) Do(ctx context.Context, fn func(stores domain.SwapStores) error) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stores := &txStores{
		events:       &eventRepository{db: tx},
		swapRequests: &swapRequestRepository{db: tx},
	}

	if err := fn(stores); err != nil {
		_ = tx.Rollback()
		return classifyTxErr(err)
	}
	if err := tx.Commit(); err != nil {
		return classifyTxErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// classifyTxErr maps postgres serialization failures and deadlocks to
// ErrTxConflict so callers know the operation had no effect and is safe to
// retry. Everything else passes through unchanged.
func classifyTxErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
		}
	}
	return err
}
