package domain

import "context"

// SwapStores is the set of repositories visible inside one unit of work. All
// reads observe a consistent snapshot and all writes commit together.
type SwapStores interface {
	Events() EventRepository
	SwapRequests() SwapRequestRepository
}

// UnitOfWork runs a function against SwapStores as one atomic, serializable
// transaction. If fn returns an error the transaction is rolled back and the
// error is returned unchanged; a commit aborted by concurrent access is
// reported as ErrTxConflict. No partial effects are ever observable.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(stores SwapStores) error) error
}
