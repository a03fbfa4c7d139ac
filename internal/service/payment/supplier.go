package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/billing"
	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/logging"
	"github.com/AIS0001/triplogic-backend/internal/service"
)

type SupplierPaymentRequest struct {
	SupplierID      int64
	AmountPaid      decimal.Decimal
	PaymentMode     string
	ReferenceNumber string
	Remarks         string
}

// ApplySupplierPayment records a payment voucher and its disbursement pair:
// the payment account is debited and Accounts Payable for the supplier credited.
func (s *Service) ApplySupplierPayment(ctx context.Context, req SupplierPaymentRequest) (*domain.PaymentVoucher, error) {
	log := logging.FromContext(ctx)

	if req.SupplierID <= 0 {
		return nil, fmt.Errorf("ApplySupplierPayment: supplier id: %w", domain.ErrInvalidRequest)
	}
	amount := req.AmountPaid.Round(2)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("ApplySupplierPayment: %w", domain.ErrInvalidAmount)
	}
	if req.PaymentMode == "" {
		return nil, fmt.Errorf("ApplySupplierPayment: payment mode: %w", domain.ErrInvalidPaymentMode)
	}

	voucher := &domain.PaymentVoucher{
		SupplierID:      req.SupplierID,
		AmountPaid:      amount,
		PaymentMode:     req.PaymentMode,
		ReferenceNumber: req.ReferenceNumber,
		Remarks:         req.Remarks,
	}

	err := s.db.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.vouchers.CreatePayment(ctx, tx, voucher); err != nil {
			return err
		}

		description := "Supplier Payment"
		if req.ReferenceNumber != "" {
			description += " - Ref " + req.ReferenceNumber
		}
		if req.Remarks != "" {
			description += " - " + req.Remarks
		}

		entries, err := billing.PaymentEntries(billing.PaymentPosting{
			TransactionID: voucher.TransactionID(),
			ReferenceID:   voucher.TransactionID(),
			Mode:          req.PaymentMode,
			PartyID:       req.SupplierID,
			Amount:        amount,
			Direction:     billing.DirectionDisbursement,
			Description:   description,
			At:            s.now(),
		})
		if err != nil {
			return err
		}
		return service.PostEntries(ctx, tx, s.ledger, entries)
	})
	if err != nil {
		return nil, fmt.Errorf("ApplySupplierPayment: %w", err)
	}

	log.Info("supplier payment recorded",
		"payment_voucher_id", voucher.ID,
		"supplier_id", req.SupplierID,
		"amount", amount,
		"payment_mode", req.PaymentMode,
	)
	return voucher, nil
}
