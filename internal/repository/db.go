package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// DB is the persistence gateway shared by the services. Every multi-step
// write goes through WithTx so one connection carries the whole operation.
type DB struct {
	pool      *sql.DB
	txTimeout time.Duration
}

func NewDB(pool *sql.DB, txTimeout time.Duration) *DB {
	return &DB{pool: pool, txTimeout: txTimeout}
}

// WithTx runs fn inside a transaction bounded by the configured timeout.
// The transaction is rolled back on error or panic and committed otherwise;
// the connection goes back to the pool on every path.
func (d *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	if d.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.txTimeout)
		defer cancel()
	}

	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return timeoutErr(ctx, fmt.Errorf("WithTx: begin: %w", err))
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return timeoutErr(ctx, err)
	}

	if err := tx.Commit(); err != nil {
		return timeoutErr(ctx, fmt.Errorf("WithTx: commit: %w", err))
	}
	committed = true
	return nil
}

func timeoutErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTransactionTimeout) {
		return fmt.Errorf("%w: %w", domain.ErrTransactionTimeout, err)
	}
	return err
}
