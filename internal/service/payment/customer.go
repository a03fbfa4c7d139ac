package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/billing"
	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/logging"
	"github.com/AIS0001/triplogic-backend/internal/service"
)

type CustomerPaymentRequest struct {
	CustomerID      int64
	AmountPaid      decimal.Decimal
	PaymentMode     string
	ReferenceNumber string
}

type CustomerPaymentResult struct {
	AppliedCount int
	Applied      decimal.Decimal
	Receipts     []domain.ReceiptVoucher
}

// ApplyCustomerPayment settles the customer's credit bills oldest first.
// The outstanding bills stay locked for the whole transaction, and a payment
// larger than what is owed is rejected before anything is written.
func (s *Service) ApplyCustomerPayment(ctx context.Context, req CustomerPaymentRequest) (*CustomerPaymentResult, error) {
	log := logging.FromContext(ctx)

	if err := validateCustomerPayment(req); err != nil {
		return nil, fmt.Errorf("ApplyCustomerPayment: %w", err)
	}

	amount := req.AmountPaid.Round(2)
	result := &CustomerPaymentResult{}

	err := s.db.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		invoices, err := s.bills.ListOutstandingForUpdate(ctx, tx, req.CustomerID)
		if err != nil {
			return err
		}
		if len(invoices) == 0 {
			return fmt.Errorf("customer %d: %w", req.CustomerID, domain.ErrNoOutstandingInvoices)
		}

		alloc, err := billing.Allocate(amount, invoices)
		if err != nil {
			return err
		}
		if alloc.Remaining.IsPositive() {
			return fmt.Errorf("customer %d owes %s, paid %s: %w", req.CustomerID, alloc.Applied, amount, domain.ErrOverpayment)
		}

		now := s.now()
		for _, app := range alloc.Applications {
			if err := s.bills.UpdatePayment(ctx, tx, app.BillID, app.NewPaid, app.NewStatus); err != nil {
				return err
			}

			voucher := domain.ReceiptVoucher{
				CustomerID:      req.CustomerID,
				BillID:          app.BillID,
				AmountPaid:      app.Apply,
				PaymentMode:     req.PaymentMode,
				ReferenceNumber: req.ReferenceNumber,
			}
			if err := s.vouchers.CreateReceipt(ctx, tx, &voucher); err != nil {
				return err
			}

			entries, err := billing.PaymentEntries(billing.PaymentPosting{
				TransactionID: voucher.TransactionID(),
				ReferenceID:   strconv.FormatInt(app.BillID, 10),
				Mode:          req.PaymentMode,
				PartyID:       req.CustomerID,
				Amount:        app.Apply,
				Direction:     billing.DirectionReceipt,
				Description:   fmt.Sprintf("Bill #%d - Credit Paid", app.BillID),
				At:            now,
			})
			if err != nil {
				return err
			}
			if err := service.PostEntries(ctx, tx, s.ledger, entries); err != nil {
				return err
			}

			result.Receipts = append(result.Receipts, voucher)
		}

		result.AppliedCount = len(alloc.Applications)
		result.Applied = alloc.Applied
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ApplyCustomerPayment: %w", err)
	}

	log.Info("customer payment applied",
		"customer_id", req.CustomerID,
		"amount", amount,
		"applied_count", result.AppliedCount,
		"payment_mode", req.PaymentMode,
	)
	return result, nil
}

func validateCustomerPayment(req CustomerPaymentRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("validateCustomerPayment: customer id: %w", domain.ErrInvalidRequest)
	}
	if !req.AmountPaid.Round(2).IsPositive() {
		return fmt.Errorf("validateCustomerPayment: %w", domain.ErrInvalidAmount)
	}
	if req.PaymentMode == "" {
		return fmt.Errorf("validateCustomerPayment: payment mode: %w", domain.ErrInvalidPaymentMode)
	}
	return nil
}
