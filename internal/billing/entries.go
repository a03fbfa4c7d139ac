package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

// SaleAccountType is the account debited when a bill is settled with mode.
func SaleAccountType(mode domain.PaymentMode) (string, error) {
	switch mode {
	case domain.PaymentModeCash, domain.PaymentModeBankTransfer, domain.PaymentModeQRCode, domain.PaymentModeUPI:
		return string(mode), nil
	case domain.PaymentModeCredit:
		return domain.AccountReceivable, nil
	default:
		return "", fmt.Errorf("SaleAccountType: %q: %w", mode, domain.ErrInvalidPaymentMode)
	}
}

// SaleEntries posts a bill: a Sales credit and one debit chosen by the
// payment mode. A zero total posts nothing.
func SaleEntries(txID string, grandTotal decimal.Decimal, mode domain.PaymentMode, customerID *int64, at time.Time) ([]domain.LedgerEntry, error) {
	debitAccount, err := SaleAccountType(mode)
	if err != nil {
		return nil, fmt.Errorf("SaleEntries: %w", err)
	}
	if mode == domain.PaymentModeCredit && customerID == nil {
		return nil, fmt.Errorf("SaleEntries: %w", domain.ErrCustomerRequired)
	}
	if grandTotal.IsNegative() {
		return nil, fmt.Errorf("SaleEntries: %w", domain.ErrNegativeTotal)
	}
	if grandTotal.IsZero() {
		return nil, nil
	}

	credit := domain.LedgerEntry{
		ID:            uuid.New(),
		TransactionID: txID,
		ReferenceID:   txID,
		EntryDate:     at,
		AccountType:   domain.AccountSales,
		Description:   fmt.Sprintf("Bill #%s - Sale Revenue", txID),
		DebitAmount:   decimal.Zero,
		CreditAmount:  grandTotal,
	}

	debit := domain.LedgerEntry{
		ID:            uuid.New(),
		TransactionID: txID,
		ReferenceID:   txID,
		EntryDate:     at,
		AccountType:   debitAccount,
		Description:   fmt.Sprintf("Bill #%s - %s Payment", txID, mode),
		DebitAmount:   grandTotal,
		CreditAmount:  decimal.Zero,
	}
	if mode == domain.PaymentModeCredit {
		debit.AccountID = customerID
		debit.Description = fmt.Sprintf("Bill #%s - Credit Sale", txID)
	}

	return []domain.LedgerEntry{credit, debit}, nil
}

// DepositSaleEntries posts a bill settled only in part at creation, as with
// advance orders: the deposit is debited to the payment-mode account and the
// rest to the customer's receivable.
func DepositSaleEntries(txID string, grandTotal, deposit decimal.Decimal, mode domain.PaymentMode, customerID *int64, at time.Time) ([]domain.LedgerEntry, error) {
	if mode == domain.PaymentModeCredit {
		if !deposit.IsZero() {
			return nil, fmt.Errorf("DepositSaleEntries: credit sale with deposit: %w", domain.ErrInvalidRequest)
		}
		return SaleEntries(txID, grandTotal, mode, customerID, at)
	}
	if deposit.IsNegative() || deposit.GreaterThan(grandTotal) {
		return nil, fmt.Errorf("DepositSaleEntries: %w", domain.ErrPaidExceedsTotal)
	}
	if deposit.Equal(grandTotal) {
		return SaleEntries(txID, grandTotal, mode, customerID, at)
	}
	if customerID == nil {
		return nil, fmt.Errorf("DepositSaleEntries: %w", domain.ErrCustomerRequired)
	}

	entries, err := SaleEntries(txID, deposit, mode, customerID, at)
	if err != nil {
		return nil, fmt.Errorf("DepositSaleEntries: %w", err)
	}
	if len(entries) == 0 {
		entries = []domain.LedgerEntry{{
			ID:            uuid.New(),
			TransactionID: txID,
			ReferenceID:   txID,
			EntryDate:     at,
			AccountType:   domain.AccountSales,
			Description:   fmt.Sprintf("Bill #%s - Sale Revenue", txID),
			DebitAmount:   decimal.Zero,
		}}
	}
	entries[0].CreditAmount = grandTotal

	balance := grandTotal.Sub(deposit)
	entries = append(entries, domain.LedgerEntry{
		ID:            uuid.New(),
		TransactionID: txID,
		ReferenceID:   txID,
		EntryDate:     at,
		AccountType:   domain.AccountReceivable,
		AccountID:     customerID,
		Description:   fmt.Sprintf("Bill #%s - Balance Due", txID),
		DebitAmount:   balance,
		CreditAmount:  decimal.Zero,
	})
	return entries, nil
}

// PaymentAccountType maps a free-form voucher payment mode to its cash-side account.
func PaymentAccountType(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "cash":
		return domain.AccountCash
	case "bank", "cheque":
		return domain.AccountBank
	case "card":
		return domain.AccountCard
	default:
		return domain.AccountOther
	}
}

type Direction int

const (
	// DirectionReceipt is money in from a customer against receivables.
	DirectionReceipt Direction = iota
	// DirectionDisbursement is a supplier payment: the payment account is
	// debited and the supplier's Accounts Payable credited.
	DirectionDisbursement
)

type PaymentPosting struct {
	TransactionID string
	ReferenceID   string
	Mode          string
	PartyID       int64
	Amount        decimal.Decimal
	Direction     Direction
	Description   string
	At            time.Time
}

// PaymentEntries returns the balanced pair for one cash movement.
func PaymentEntries(p PaymentPosting) ([]domain.LedgerEntry, error) {
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("PaymentEntries: %w", domain.ErrInvalidAmount)
	}

	partyID := p.PartyID
	cash := domain.LedgerEntry{
		ID:            uuid.New(),
		TransactionID: p.TransactionID,
		ReferenceID:   p.ReferenceID,
		EntryDate:     p.At,
		AccountType:   PaymentAccountType(p.Mode),
		Description:   p.Description,
	}
	party := domain.LedgerEntry{
		ID:            uuid.New(),
		TransactionID: p.TransactionID,
		ReferenceID:   p.ReferenceID,
		EntryDate:     p.At,
		AccountID:     &partyID,
		Description:   p.Description,
	}

	switch p.Direction {
	case DirectionReceipt:
		cash.DebitAmount, cash.CreditAmount = p.Amount, decimal.Zero
		party.AccountType = domain.AccountReceivable
		party.DebitAmount, party.CreditAmount = decimal.Zero, p.Amount
		return []domain.LedgerEntry{cash, party}, nil
	case DirectionDisbursement:
		cash.DebitAmount, cash.CreditAmount = p.Amount, decimal.Zero
		party.AccountType = domain.AccountPayable
		party.DebitAmount, party.CreditAmount = decimal.Zero, p.Amount
		return []domain.LedgerEntry{cash, party}, nil
	default:
		return nil, fmt.Errorf("PaymentEntries: unknown direction %d: %w", p.Direction, domain.ErrInvalidRequest)
	}
}

type accountKey struct {
	txID        string
	accountType string
	accountID   int64
	hasID       bool
}

// ReverseEntries returns the postings that bring every account touched by
// entries back to a zero net position. Accounts are netted first, so a
// group that was already reversed once yields only what is still open.
func ReverseEntries(entries []domain.LedgerEntry, at time.Time) []domain.LedgerEntry {
	var order []accountKey
	net := make(map[accountKey]decimal.Decimal)
	first := make(map[accountKey]domain.LedgerEntry)

	for _, e := range entries {
		k := accountKey{txID: e.TransactionID, accountType: e.AccountType}
		if e.AccountID != nil {
			k.accountID, k.hasID = *e.AccountID, true
		}
		if _, seen := first[k]; !seen {
			first[k] = e
			order = append(order, k)
		}
		net[k] = net[k].Add(e.DebitAmount).Sub(e.CreditAmount)
	}

	var out []domain.LedgerEntry
	for _, k := range order {
		n := net[k]
		if n.IsZero() {
			continue
		}
		src := first[k]
		rev := domain.LedgerEntry{
			ID:            uuid.New(),
			TransactionID: src.TransactionID,
			ReferenceID:   src.ReferenceID,
			EntryDate:     at,
			AccountType:   src.AccountType,
			AccountID:     src.AccountID,
			Description:   "Reversal: " + src.Description,
			DebitAmount:   decimal.Zero,
			CreditAmount:  decimal.Zero,
		}
		if n.IsPositive() {
			rev.CreditAmount = n
		} else {
			rev.DebitAmount = n.Neg()
		}
		out = append(out, rev)
	}
	return out
}

// CheckBalanced verifies every entry is one-sided and that debits equal
// credits per transaction id.
func CheckBalanced(entries []domain.LedgerEntry) error {
	sums := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
			return fmt.Errorf("CheckBalanced: negative amount on %s: %w", e.AccountType, domain.ErrLedgerImbalance)
		}
		if e.DebitAmount.IsZero() == e.CreditAmount.IsZero() {
			return fmt.Errorf("CheckBalanced: entry on %s must have exactly one side: %w", e.AccountType, domain.ErrLedgerImbalance)
		}
		sums[e.TransactionID] = sums[e.TransactionID].Add(e.DebitAmount).Sub(e.CreditAmount)
	}
	for txID, net := range sums {
		if !net.IsZero() {
			return fmt.Errorf("CheckBalanced: transaction %s off by %s: %w", txID, net, domain.ErrLedgerImbalance)
		}
	}
	return nil
}
