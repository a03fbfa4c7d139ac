package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrNegativeSubtotal      = errors.New("subtotal must not be negative")
	ErrInvalidDiscount       = errors.New("invalid discount")
	ErrDiscountExceeds       = errors.New("discount exceeds subtotal")
	ErrNegativeTotal         = errors.New("grand total must not be negative")
	ErrTotalMismatch         = errors.New("grand total does not match computed total")
	ErrInvalidPaymentMode    = errors.New("invalid payment mode")
	ErrCustomerRequired      = errors.New("customer is required for credit bills")
	ErrLedgerImbalance       = errors.New("ledger entries do not balance")
	ErrNoOutstandingInvoices = errors.New("no outstanding invoices")
	ErrOverpayment           = errors.New("payment exceeds outstanding amount")
	ErrPaidExceedsTotal      = errors.New("paid amount exceeds grand total")
	ErrBillHasPayments       = errors.New("bill has received payments")
	ErrTransactionTimeout    = errors.New("transaction timed out")
)
