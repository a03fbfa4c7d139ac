package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/logging"
	"github.com/AIS0001/triplogic-backend/internal/service/payment"
)

type paymentService interface {
	ApplyCustomerPayment(ctx context.Context, req payment.CustomerPaymentRequest) (*payment.CustomerPaymentResult, error)
	ApplySupplierPayment(ctx context.Context, req payment.SupplierPaymentRequest) (*domain.PaymentVoucher, error)
}

type PaymentHandler struct {
	payments paymentService
}

func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type savePaymentRequest struct {
	CustomerID      int64           `json:"customer_id"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaymentMode     string          `json:"payment_mode"`
	ReferenceNumber string          `json:"reference_number"`
}

func (r savePaymentRequest) Validate() []FieldError {
	var errs []FieldError

	if r.CustomerID <= 0 {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required"})
	}
	if !r.AmountPaid.IsPositive() {
		errs = append(errs, FieldError{Field: "amount_paid", Message: "must be greater than 0"})
	}
	if r.PaymentMode == "" {
		errs = append(errs, FieldError{Field: "payment_mode", Message: "required"})
	}

	return errs
}

type saveSupplierPaymentRequest struct {
	SupplierID      int64           `json:"supplier_id"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaymentMode     string          `json:"payment_mode"`
	ReferenceNumber string          `json:"reference_number"`
	Remarks         string          `json:"remarks"`
}

func (r saveSupplierPaymentRequest) Validate() []FieldError {
	var errs []FieldError

	if r.SupplierID <= 0 {
		errs = append(errs, FieldError{Field: "supplier_id", Message: "required"})
	}
	if !r.AmountPaid.IsPositive() {
		errs = append(errs, FieldError{Field: "amount_paid", Message: "must be greater than 0"})
	}
	if r.PaymentMode == "" {
		errs = append(errs, FieldError{Field: "payment_mode", Message: "required"})
	}

	return errs
}

func (h *PaymentHandler) SaveCustomerPayment(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req savePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.payments.ApplyCustomerPayment(r.Context(), payment.CustomerPaymentRequest{
		CustomerID:      req.CustomerID,
		AmountPaid:      req.AmountPaid,
		PaymentMode:     req.PaymentMode,
		ReferenceNumber: req.ReferenceNumber,
	})
	if err != nil {
		log.Warn("customer payment failed", "error", err, "customer_id", req.CustomerID)
		RespondDomainError(w, err)
		return
	}

	receiptIDs := make([]int64, 0, len(res.Receipts))
	for _, v := range res.Receipts {
		receiptIDs = append(receiptIDs, v.ID)
	}

	RespondSuccess(w, http.StatusCreated, "Payment applied successfully", map[string]any{
		"applied_count":  res.AppliedCount,
		"applied_amount": res.Applied,
		"receipt_ids":    receiptIDs,
	})
}

func (h *PaymentHandler) SaveSupplierPayment(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req saveSupplierPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	v, err := h.payments.ApplySupplierPayment(r.Context(), payment.SupplierPaymentRequest{
		SupplierID:      req.SupplierID,
		AmountPaid:      req.AmountPaid,
		PaymentMode:     req.PaymentMode,
		ReferenceNumber: req.ReferenceNumber,
		Remarks:         req.Remarks,
	})
	if err != nil {
		log.Warn("supplier payment failed", "error", err, "supplier_id", req.SupplierID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, "Supplier payment saved successfully", map[string]any{
		"voucher_id": v.ID,
	})
}
