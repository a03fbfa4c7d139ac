package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/billing"
	"github.com/AIS0001/triplogic-backend/internal/domain"
)

func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func Int64Ptr(v int64) *int64 {
	return &v
}

// SeedCreditBill inserts an unpaid-or-partly-paid credit bill dated invDate.
// It writes the bills row only; no ledger rows are posted.
func SeedCreditBill(t *testing.T, db *sql.DB, customerID int64, grandTotal, paid string, invDate time.Time) *domain.Bill {
	t.Helper()

	b := &domain.Bill{
		CustomerID:            &customerID,
		Subtotal:              Money(grandTotal),
		DiscountType:          domain.DiscountTypeFlat,
		DiscountValue:         decimal.Zero,
		DiscountAmount:        decimal.Zero,
		SubtotalAfterDiscount: Money(grandTotal),
		Tax:                   decimal.Zero,
		RoundOff:              decimal.Zero,
		GrandTotal:            Money(grandTotal),
		PaidAmount:            Money(paid),
		PaymentMode:           domain.PaymentModeCredit,
	}
	b.Status = billing.StatusFor(b.PaidAmount, b.GrandTotal)

	err := db.QueryRow(
		`INSERT INTO bills (
			customer_id, table_number, subtotal, discount_type, discount_value,
			discount_amount, subtotal_after_discount, tax, round_off, grand_total,
			paid_amount, payment_mode, status, inv_date
		) VALUES ($1, '', $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, inv_date, created_at`,
		b.CustomerID, b.Subtotal, b.DiscountType, b.DiscountValue,
		b.DiscountAmount, b.SubtotalAfterDiscount, b.Tax, b.RoundOff, b.GrandTotal,
		b.PaidAmount, b.PaymentMode, b.Status, invDate,
	).Scan(&b.ID, &b.InvDate, &b.CreatedAt)
	if err != nil {
		t.Fatalf("seed credit bill for customer %d: %v", customerID, err)
	}
	return b
}

type BillRow struct {
	GrandTotal decimal.Decimal
	PaidAmount decimal.Decimal
	Status     string
}

func GetBillRow(t *testing.T, db *sql.DB, id int64) BillRow {
	t.Helper()

	var r BillRow
	err := db.QueryRow(`SELECT grand_total, paid_amount, status FROM bills WHERE id = $1`, id).
		Scan(&r.GrandTotal, &r.PaidAmount, &r.Status)
	if err != nil {
		t.Fatalf("get bill %d: %v", id, err)
	}
	return r
}

func CountBills(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM bills`).Scan(&count); err != nil {
		t.Fatalf("count bills: %v", err)
	}
	return count
}

func CountLedgerEntries(t *testing.T, db *sql.DB, transactionID string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE transaction_id = $1`, transactionID).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for transaction %s: %v", transactionID, err)
	}
	return count
}

func CountAllLedgerEntries(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries`).Scan(&count); err != nil {
		t.Fatalf("count ledger entries: %v", err)
	}
	return count
}

func CountReceipts(t *testing.T, db *sql.DB, billID int64) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM receipt_vouchers WHERE bill_id = $1`, billID).Scan(&count)
	if err != nil {
		t.Fatalf("count receipts for bill %d: %v", billID, err)
	}
	return count
}

// LedgerTotals sums debits and credits over the whole ledger.
func LedgerTotals(t *testing.T, db *sql.DB) (debits, credits decimal.Decimal) {
	t.Helper()

	err := db.QueryRow(
		`SELECT COALESCE(SUM(debit_amount), 0), COALESCE(SUM(credit_amount), 0) FROM ledger_entries`,
	).Scan(&debits, &credits)
	if err != nil {
		t.Fatalf("sum ledger: %v", err)
	}
	return debits, credits
}
