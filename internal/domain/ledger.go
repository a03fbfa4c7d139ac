package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccountSales      = "Sales"
	AccountReceivable = "Accounts Receivable"
	AccountPayable    = "Accounts Payable"
	AccountCash       = "Cash Account"
	AccountBank       = "Bank Account"
	AccountCard       = "Card Account"
	AccountOther      = "Other Account"
)

// LedgerEntry is one side of a balanced posting. Exactly one of DebitAmount
// and CreditAmount is non-zero.
type LedgerEntry struct {
	ID            uuid.UUID
	TransactionID string
	ReferenceID   string
	EntryDate     time.Time
	AccountType   string
	AccountID     *int64
	Description   string
	DebitAmount   decimal.Decimal
	CreditAmount  decimal.Decimal
}
