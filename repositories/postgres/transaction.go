package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/resumelane/resumelane/repositories"
	"go.uber.org/zap"
)

// txKey carries the active transaction through the context so GetExecutor
// can route repository calls onto it.
type txKey struct{}

// TransactionManager implements repositories.TransactionManager over *sql.Tx
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *DB, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger}
}

// Begin starts a new transaction
func (tm *TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	sqlTx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &pgTx{tx: sqlTx, ctx: ctx}, nil
}

// InTransaction runs fn inside a transaction, committing on success and
// rolling back on error. Repositories called with the inner context share
// the transaction via GetExecutor.
func (tm *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	started := time.Now()

	if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			tm.logger.Error("transaction rollback failed",
				zap.Error(rbErr),
				zap.NamedError("cause", err))
		} else {
			tm.logger.Debug("transaction rolled back",
				zap.Duration("elapsed", time.Since(started)),
				zap.Error(err))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tm.logger.Debug("transaction committed",
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

// pgTx implements repositories.Transaction
type pgTx struct {
	tx  *sql.Tx
	ctx context.Context
}

func (t *pgTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction. Rolling back after the transaction
// already finished is a no-op.
func (t *pgTx) Rollback() error {
	switch err := t.tx.Rollback(); err {
	case nil, sql.ErrTxDone:
		return nil
	default:
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
}

func (t *pgTx) Context() context.Context {
	return t.ctx
}

// Executor is the query surface shared by *sql.DB and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetExecutor returns the context's transaction when one is active and the
// plain connection pool otherwise.
func GetExecutor(ctx context.Context, db *DB) Executor {
	if t, ok := ctx.Value(txKey{}).(*pgTx); ok {
		return t.tx
	}
	return db.DB
}
