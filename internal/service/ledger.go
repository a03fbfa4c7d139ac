package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AIS0001/triplogic-backend/internal/billing"
	"github.com/AIS0001/triplogic-backend/internal/domain"
)

// PostEntries checks that entries balance and writes them on tx in order.
func PostEntries(ctx context.Context, tx *sql.Tx, w LedgerWriter, entries []domain.LedgerEntry) error {
	if err := billing.CheckBalanced(entries); err != nil {
		return fmt.Errorf("PostEntries: %w", err)
	}
	for i := range entries {
		if err := w.Create(ctx, tx, &entries[i]); err != nil {
			return fmt.Errorf("PostEntries: %w", err)
		}
	}
	return nil
}
