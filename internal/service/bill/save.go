package bill

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/billing"
	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/logging"
	"github.com/AIS0001/triplogic-backend/internal/service"
)

// SaveBill records a bill and its sale postings in one transaction.
func (s *Service) SaveBill(ctx context.Context, in BillInput) (*domain.Bill, error) {
	log := logging.FromContext(ctx)

	totals, err := in.totals()
	if err != nil {
		return nil, fmt.Errorf("SaveBill: %w", err)
	}

	b := &domain.Bill{
		CustomerID:  in.CustomerID,
		TableNumber: in.TableNumber,
		PaymentMode: in.PaymentMode,
	}
	totals.Apply(b)
	b.PaidAmount = settledAtCreation(b.PaymentMode, b.GrandTotal)
	b.Status = billing.StatusFor(b.PaidAmount, b.GrandTotal)

	err = s.db.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.bills.Create(ctx, tx, b); err != nil {
			return err
		}

		entries, err := billing.SaleEntries(b.TransactionID(), b.GrandTotal, b.PaymentMode, b.CustomerID, s.now())
		if err != nil {
			return err
		}
		return service.PostEntries(ctx, tx, s.ledger, entries)
	})
	if err != nil {
		return nil, fmt.Errorf("SaveBill: %w", err)
	}

	log.Info("bill saved",
		"bill_id", b.ID,
		"payment_mode", b.PaymentMode,
		"grand_total", b.GrandTotal,
		"status", b.Status,
	)
	return b, nil
}

type AdvanceBillInput struct {
	BillInput
	PickupDate      *time.Time
	PickupTime      string
	SpecialNote     string
	OrderType       string
	BillGeneratedBy string
	FinalBilled     bool
	// PaidAmount is the deposit taken with the order. Nil means the bill is
	// settled the way a regular bill of the same mode would be.
	PaidAmount *decimal.Decimal
}

// SaveAdvanceBill records a pickup/advance order. Its ledger rows use the
// ADV_ prefix so they never share a correlation id with a regular bill.
func (s *Service) SaveAdvanceBill(ctx context.Context, in AdvanceBillInput) (*domain.AdvanceBill, error) {
	log := logging.FromContext(ctx)

	totals, err := in.totals()
	if err != nil {
		return nil, fmt.Errorf("SaveAdvanceBill: %w", err)
	}

	b := &domain.AdvanceBill{
		Bill: domain.Bill{
			CustomerID:  in.CustomerID,
			TableNumber: in.TableNumber,
			PaymentMode: in.PaymentMode,
		},
		PickupDate:      in.PickupDate,
		PickupTime:      in.PickupTime,
		SpecialNote:     in.SpecialNote,
		OrderType:       in.OrderType,
		BillGeneratedBy: in.BillGeneratedBy,
		FinalBilled:     in.FinalBilled,
	}
	totals.Apply(&b.Bill)

	b.PaidAmount = settledAtCreation(b.PaymentMode, b.GrandTotal)
	if in.PaidAmount != nil {
		b.PaidAmount = in.PaidAmount.Round(2)
	}
	if b.PaidAmount.IsNegative() || b.PaidAmount.GreaterThan(b.GrandTotal) {
		return nil, fmt.Errorf("SaveAdvanceBill: %w", domain.ErrPaidExceedsTotal)
	}
	b.Status = billing.StatusFor(b.PaidAmount, b.GrandTotal)

	err = s.db.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.advance.Create(ctx, tx, b); err != nil {
			return err
		}

		entries, err := billing.DepositSaleEntries(b.TransactionID(), b.GrandTotal, b.PaidAmount, b.PaymentMode, b.CustomerID, s.now())
		if err != nil {
			return err
		}
		return service.PostEntries(ctx, tx, s.ledger, entries)
	})
	if err != nil {
		return nil, fmt.Errorf("SaveAdvanceBill: %w", err)
	}

	log.Info("advance bill saved",
		"advance_bill_id", b.ID,
		"payment_mode", b.PaymentMode,
		"grand_total", b.GrandTotal,
		"paid_amount", b.PaidAmount,
	)
	return b, nil
}
