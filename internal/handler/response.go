package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// RespondSuccess writes {"success": true, "message": ...} plus fields at the top level.
func RespondSuccess(w http.ResponseWriter, status int, message string, fields map[string]any) {
	body := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	if message != "" {
		body["message"] = message
	}
	RespondJSON(w, status, body)
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Error: &APIError{
			Code:    appErr.Code,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrTransactionTimeout):
		appErr = ErrTransactionTimeout
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrNegativeSubtotal):
		appErr = ErrNegativeSubtotal
	case errors.Is(err, domain.ErrInvalidDiscount):
		appErr = ErrInvalidDiscount
	case errors.Is(err, domain.ErrDiscountExceeds):
		appErr = ErrDiscountExceeds
	case errors.Is(err, domain.ErrNegativeTotal):
		appErr = ErrNegativeTotal
	case errors.Is(err, domain.ErrTotalMismatch):
		appErr = ErrTotalMismatch
	case errors.Is(err, domain.ErrInvalidPaymentMode):
		appErr = ErrInvalidPaymentMode
	case errors.Is(err, domain.ErrCustomerRequired):
		appErr = ErrCustomerRequired
	case errors.Is(err, domain.ErrNoOutstandingInvoices):
		appErr = ErrNoOutstandingInvoices
	case errors.Is(err, domain.ErrOverpayment):
		appErr = ErrOverpayment
	case errors.Is(err, domain.ErrPaidExceedsTotal):
		appErr = ErrPaidExceedsTotal
	case errors.Is(err, domain.ErrBillHasPayments):
		appErr = ErrBillHasPayments
	case errors.Is(err, domain.ErrInvalidRequest):
		appErr = ErrInvalidRequest
	case errors.Is(err, domain.ErrLedgerImbalance):
		slog.Error("ledger imbalance", "error", err)
		appErr = ErrLedgerImbalance
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
