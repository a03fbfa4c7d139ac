package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "Cash"
	PaymentModeBankTransfer PaymentMode = "Bank Transfer"
	PaymentModeQRCode       PaymentMode = "QR Code"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeCredit       PaymentMode = "Credit"
)

func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBankTransfer, PaymentModeQRCode, PaymentModeUPI, PaymentModeCredit:
		return true
	}
	return false
}

type BillStatus string

const (
	BillStatusUnpaid        BillStatus = "Unpaid"
	BillStatusPartiallyPaid BillStatus = "Partially Paid"
	BillStatusPaid          BillStatus = "Paid"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFlat       DiscountType = "flat"
)

func (d DiscountType) IsValid() bool {
	return d == DiscountTypePercentage || d == DiscountTypeFlat
}

// Bill is the monetary snapshot of one invoice. PaidAmount and Status are
// derived on the server and never taken from the client.
type Bill struct {
	ID                    int64
	CustomerID            *int64
	TableNumber           string
	Subtotal              decimal.Decimal
	DiscountType          DiscountType
	DiscountValue         decimal.Decimal
	DiscountAmount        decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	Tax                   decimal.Decimal
	RoundOff              decimal.Decimal
	GrandTotal            decimal.Decimal
	PaidAmount            decimal.Decimal
	PaymentMode           PaymentMode
	Status                BillStatus
	InvDate               time.Time
	CreatedAt             time.Time
}

// TransactionID is the correlation id shared by every ledger row posted for the bill.
func (b *Bill) TransactionID() string {
	return strconv.FormatInt(b.ID, 10)
}

func (b *Bill) Due() decimal.Decimal {
	return b.GrandTotal.Sub(b.PaidAmount)
}

type AdvanceBill struct {
	Bill
	PickupDate      *time.Time
	PickupTime      string
	SpecialNote     string
	OrderType       string
	BillGeneratedBy string
	FinalBilled     bool
}

const advanceTransactionPrefix = "ADV_"

func (b *AdvanceBill) TransactionID() string {
	return advanceTransactionPrefix + strconv.FormatInt(b.ID, 10)
}
