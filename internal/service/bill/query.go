package bill

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

func (s *Service) ListBills(ctx context.Context, limit, offset int) ([]domain.Bill, int, error) {
	bills, total, err := s.bills.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListBills: %w", err)
	}
	return bills, total, nil
}

func (s *Service) GetBill(ctx context.Context, id int64) (*domain.Bill, error) {
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetBill: %w", err)
	}
	return b, nil
}

// GetBillReceipts lists the receipt vouchers allocated against a bill, oldest first.
func (s *Service) GetBillReceipts(ctx context.Context, billID int64) ([]domain.ReceiptVoucher, error) {
	receipts, err := s.vouchers.ListReceiptsByBill(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("GetBillReceipts: %w", err)
	}
	return receipts, nil
}

func (s *Service) GetAdvanceBill(ctx context.Context, id int64) (*domain.AdvanceBill, error) {
	b, err := s.advance.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetAdvanceBill: %w", err)
	}
	return b, nil
}

// GetOutstandingBalance is debits minus credits on one account.
func (s *Service) GetOutstandingBalance(ctx context.Context, accountType string, accountID int64) (decimal.Decimal, error) {
	accountType = strings.TrimSpace(accountType)
	if accountType == "" {
		return decimal.Zero, fmt.Errorf("GetOutstandingBalance: account type: %w", domain.ErrInvalidRequest)
	}

	balance, err := s.ledger.Balance(ctx, accountType, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("GetOutstandingBalance: %w", err)
	}
	return balance, nil
}

func (s *Service) GetCustomerInvoices(ctx context.Context, customerID int64) ([]domain.Bill, error) {
	bills, err := s.bills.ListOutstanding(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("GetCustomerInvoices: %w", err)
	}
	return bills, nil
}

func (s *Service) GetLedgerEntries(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error) {
	entries, err := s.ledger.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("GetLedgerEntries: %w", err)
	}
	return entries, nil
}
