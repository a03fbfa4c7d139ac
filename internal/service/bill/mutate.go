package bill

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AIS0001/triplogic-backend/internal/billing"
	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/logging"
	"github.com/AIS0001/triplogic-backend/internal/service"
)

// UpdateBill recomputes the bill's totals and posts a compensating ledger
// adjustment: the open positions of the bill's sale group are reversed and
// the new sale entries are posted under the same transaction id.
func (s *Service) UpdateBill(ctx context.Context, id int64, in BillInput) (*domain.Bill, error) {
	log := logging.FromContext(ctx)

	totals, err := in.totals()
	if err != nil {
		return nil, fmt.Errorf("UpdateBill: %w", err)
	}

	var updated *domain.Bill
	err = s.db.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.bills.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err := applyUpdate(current, in, totals)
		if err != nil {
			return err
		}
		if err := s.bills.UpdateDetails(ctx, tx, next); err != nil {
			return err
		}

		posted, err := s.ledger.GetByTransactionIDTx(ctx, tx, current.TransactionID())
		if err != nil {
			return err
		}

		now := s.now()
		fresh, err := billing.SaleEntries(next.TransactionID(), next.GrandTotal, next.PaymentMode, next.CustomerID, now)
		if err != nil {
			return err
		}

		adjustment := append(billing.ReverseEntries(posted, now), fresh...)
		if err := service.PostEntries(ctx, tx, s.ledger, adjustment); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("UpdateBill: %w", err)
	}

	log.Info("bill updated",
		"bill_id", updated.ID,
		"payment_mode", updated.PaymentMode,
		"grand_total", updated.GrandTotal,
		"status", updated.Status,
	)
	return updated, nil
}

// applyUpdate builds the bill's next state. Payments already allocated to a
// credit bill stay with it, so the bill must remain a credit bill and its
// new total must still cover them.
func applyUpdate(current *domain.Bill, in BillInput, totals billing.Totals) (*domain.Bill, error) {
	next := *current
	next.CustomerID = in.CustomerID
	next.TableNumber = in.TableNumber
	next.PaymentMode = in.PaymentMode
	totals.Apply(&next)

	wasCredit := current.PaymentMode == domain.PaymentModeCredit
	hasPayments := wasCredit && current.PaidAmount.IsPositive()

	switch {
	case hasPayments && next.PaymentMode != domain.PaymentModeCredit:
		return nil, fmt.Errorf("applyUpdate: bill %d: %w", current.ID, domain.ErrBillHasPayments)
	case hasPayments && !equalCustomer(current.CustomerID, next.CustomerID):
		return nil, fmt.Errorf("applyUpdate: bill %d changes customer: %w", current.ID, domain.ErrBillHasPayments)
	case wasCredit && next.PaymentMode == domain.PaymentModeCredit:
		if current.PaidAmount.GreaterThan(next.GrandTotal) {
			return nil, fmt.Errorf("applyUpdate: bill %d: %w", current.ID, domain.ErrPaidExceedsTotal)
		}
		next.PaidAmount = current.PaidAmount
	default:
		next.PaidAmount = settledAtCreation(next.PaymentMode, next.GrandTotal)
	}

	next.Status = billing.StatusFor(next.PaidAmount, next.GrandTotal)
	return &next, nil
}

func equalCustomer(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DeleteBill removes the bill together with every ledger row and receipt
// voucher referencing it.
func (s *Service) DeleteBill(ctx context.Context, id int64) error {
	log := logging.FromContext(ctx)

	var removedEntries, removedReceipts int64
	err := s.db.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		b, err := s.bills.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		removedEntries, err = s.ledger.DeleteByReference(ctx, tx, b.TransactionID())
		if err != nil {
			return err
		}

		removedReceipts, err = s.vouchers.DeleteReceiptsByBill(ctx, tx, b.ID)
		if err != nil {
			return err
		}

		return s.bills.Delete(ctx, tx, b.ID)
	})
	if err != nil {
		return fmt.Errorf("DeleteBill: %w", err)
	}

	log.Info("bill deleted",
		"bill_id", id,
		"ledger_entries_removed", removedEntries,
		"receipts_removed", removedReceipts,
	)
	return nil
}
