package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

const ledgerColumns = `id, transaction_id, reference_id, entry_date, account_type,
	account_id, description, debit_amount, credit_amount`

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (
			id, transaction_id, reference_id, entry_date, account_type,
			account_id, description, debit_amount, credit_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.TransactionID, entry.ReferenceID, entry.EntryDate, entry.AccountType,
		entry.AccountID, entry.Description, entry.DebitAmount, entry.CreditAmount,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", constraintErr(err))
	}
	return nil
}

func (r *LedgerRepository) GetByTransactionID(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE transaction_id = $1 ORDER BY entry_date, id`, transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByTransactionID: %w", err)
	}
	entries, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("GetByTransactionID: %w", err)
	}
	return entries, nil
}

// GetByTransactionIDTx reads a transaction's entries through tx so callers
// see their own uncommitted postings.
func (r *LedgerRepository) GetByTransactionIDTx(ctx context.Context, tx *sql.Tx, transactionID string) ([]domain.LedgerEntry, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE transaction_id = $1 ORDER BY entry_date, id`, transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByTransactionIDTx: %w", err)
	}
	entries, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("GetByTransactionIDTx: %w", err)
	}
	return entries, nil
}

func (r *LedgerRepository) DeleteByReference(ctx context.Context, tx *sql.Tx, referenceID string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM ledger_entries WHERE reference_id = $1`, referenceID,
	)
	if err != nil {
		return 0, fmt.Errorf("DeleteByReference: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByReference: rows affected: %w", err)
	}
	return n, nil
}

// Balance is debits minus credits for one account; no rows is zero.
func (r *LedgerRepository) Balance(ctx context.Context, accountType string, accountID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(debit_amount), 0) - COALESCE(SUM(credit_amount), 0)
		FROM ledger_entries
		WHERE account_type = $1 AND account_id = $2`,
		accountType, accountID,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Balance: %w", err)
	}
	return balance, nil
}

func collectLedgerEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}

func scanLedgerEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := s.Scan(
		&e.ID, &e.TransactionID, &e.ReferenceID, &e.EntryDate, &e.AccountType,
		&e.AccountID, &e.Description, &e.DebitAmount, &e.CreditAmount,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
