package application

import (
	"context"
	"errors"
	"fmt"
)

// UnitOfWork scopes repository and outbox writes to one transaction. Begin
// returns a context that carries the transaction to repositories.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFunc runs inside a transaction.
type UnitOfWorkFunc func(txCtx context.Context) error

// WithUnitOfWork commits when fn succeeds and rolls back otherwise. A failed
// rollback is joined to fn's error, which stays matchable with errors.Is. A
// panic in fn rolls back and re-panics.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn UnitOfWorkFunc) (err error) {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback(txCtx)
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := uow.Rollback(txCtx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	return uow.Commit(txCtx)
}
