package service

import (
	"context"
	"database/sql"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

// TxRunner is satisfied by *repository.DB.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type LedgerWriter interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
}
