package database

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned by Commit and Rollback when the context carries
// no transaction begun by a UnitOfWork.
var ErrNoTransaction = errors.New("no transaction in context")

type txScopeKey struct{}

// txScope is stored in the context by Begin. Only the outermost Begin owns the
// transaction; nested units join it and leave Commit and Rollback to the owner.
type txScope struct {
	tx    Transaction
	owner bool
}

func scopeFrom(ctx context.Context) (txScope, bool) {
	scope, ok := ctx.Value(txScopeKey{}).(txScope)
	return scope, ok && scope.tx != nil
}

// ExecutorFromContext returns the transaction begun for ctx, or conn when the
// caller runs outside a unit of work.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if scope, ok := scopeFrom(ctx); ok {
		return scope.tx
	}
	return conn
}

// UnitOfWork implements application.UnitOfWork on top of a Connection.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a unit of work for conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

// Begin opens a transaction, or joins the one already carried by ctx.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if scope, ok := scopeFrom(ctx); ok {
		return context.WithValue(ctx, txScopeKey{}, txScope{tx: scope.tx}), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, txScopeKey{}, txScope{tx: tx, owner: true}), nil
}

// Commit commits when ctx owns the transaction.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	return finish(ctx, Transaction.Commit)
}

// Rollback rolls back when ctx owns the transaction.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return finish(ctx, Transaction.Rollback)
}

func finish(ctx context.Context, end func(Transaction, context.Context) error) error {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !scope.owner {
		return nil
	}
	return end(scope.tx, ctx)
}
