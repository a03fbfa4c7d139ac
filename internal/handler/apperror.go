package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken          = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken          = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidRequest        = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed      = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound      = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError         = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
	ErrIdempotencyInProgress = &AppError{http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS", "A request with this idempotency key is still being processed"}

	ErrInvalidAmount         = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrNegativeSubtotal      = &AppError{http.StatusBadRequest, "NEGATIVE_SUBTOTAL", "Subtotal must not be negative"}
	ErrInvalidDiscount       = &AppError{http.StatusBadRequest, "INVALID_DISCOUNT", "Discount type or value is invalid"}
	ErrDiscountExceeds       = &AppError{http.StatusBadRequest, "DISCOUNT_EXCEEDS_SUBTOTAL", "Discount exceeds subtotal"}
	ErrNegativeTotal         = &AppError{http.StatusBadRequest, "NEGATIVE_TOTAL", "Grand total must not be negative"}
	ErrTotalMismatch         = &AppError{http.StatusBadRequest, "TOTAL_MISMATCH", "Grand total does not match the computed total"}
	ErrInvalidPaymentMode    = &AppError{http.StatusBadRequest, "INVALID_PAYMENT_MODE", "Invalid payment mode"}
	ErrCustomerRequired      = &AppError{http.StatusBadRequest, "CUSTOMER_REQUIRED", "Customer is required for credit bills"}
	ErrNoOutstandingInvoices = &AppError{http.StatusBadRequest, "NO_OUTSTANDING_INVOICES", "No outstanding invoices found for this customer"}
	ErrOverpayment           = &AppError{http.StatusUnprocessableEntity, "OVERPAYMENT", "Payment exceeds the outstanding amount"}
	ErrPaidExceedsTotal      = &AppError{http.StatusUnprocessableEntity, "PAID_EXCEEDS_TOTAL", "Paid amount exceeds the grand total"}
	ErrBillHasPayments       = &AppError{http.StatusConflict, "BILL_HAS_PAYMENTS", "Bill has received payments and cannot be changed this way"}
	ErrLedgerImbalance       = &AppError{http.StatusInternalServerError, "LEDGER_IMBALANCE", "Ledger entries do not balance"}
	ErrTransactionTimeout    = &AppError{http.StatusGatewayTimeout, "TRANSACTION_TIMEOUT", "The operation timed out and was rolled back"}
)
