package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptVoucher struct {
	ID              int64
	CustomerID      int64
	BillID          int64
	AmountPaid      decimal.Decimal
	PaymentMode     string
	ReferenceNumber string
	CreatedAt       time.Time
}

func (v *ReceiptVoucher) TransactionID() string {
	return "RECPT_" + strconv.FormatInt(v.ID, 10)
}

type PaymentVoucher struct {
	ID              int64
	SupplierID      int64
	AmountPaid      decimal.Decimal
	PaymentMode     string
	ReferenceNumber string
	Remarks         string
	CreatedAt       time.Time
}

func (v *PaymentVoucher) TransactionID() string {
	return "PAYV_" + strconv.FormatInt(v.ID, 10)
}
