// Package billing holds the pure money rules: bill totals, ledger postings
// and payment allocation. Nothing here touches storage.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

// Tolerance is the largest difference accepted between a client-computed
// grand total and the server-computed one.
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

type TotalsInput struct {
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	DiscountType  domain.DiscountType
	DiscountValue decimal.Decimal
	RoundOff      decimal.Decimal
}

type Totals struct {
	Subtotal              decimal.Decimal
	DiscountType          domain.DiscountType
	DiscountValue         decimal.Decimal
	DiscountAmount        decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	Tax                   decimal.Decimal
	RoundOff              decimal.Decimal
	GrandTotal            decimal.Decimal
}

func ComputeTotals(in TotalsInput) (Totals, error) {
	if in.Subtotal.IsNegative() {
		return Totals{}, fmt.Errorf("ComputeTotals: %w", domain.ErrNegativeSubtotal)
	}
	if in.Tax.IsNegative() {
		return Totals{}, fmt.Errorf("ComputeTotals: tax must not be negative: %w", domain.ErrInvalidRequest)
	}

	discountType := in.DiscountType
	if discountType == "" {
		discountType = domain.DiscountTypeFlat
	}
	if !discountType.IsValid() {
		return Totals{}, fmt.Errorf("ComputeTotals: type %q: %w", in.DiscountType, domain.ErrInvalidDiscount)
	}
	if in.DiscountValue.IsNegative() {
		return Totals{}, fmt.Errorf("ComputeTotals: negative value: %w", domain.ErrInvalidDiscount)
	}

	// Inputs are rounded to cents first so the stored snapshot satisfies
	// grand = subtotal + tax - discount + round_off exactly.
	subtotal := in.Subtotal.Round(2)
	tax := in.Tax.Round(2)
	roundOff := in.RoundOff.Round(2)
	value := in.DiscountValue.Round(2)

	discount := value
	if discountType == domain.DiscountTypePercentage {
		discount = subtotal.Mul(value).Div(hundred).Round(2)
	}

	if discount.GreaterThan(subtotal) {
		return Totals{}, fmt.Errorf("ComputeTotals: %w", domain.ErrDiscountExceeds)
	}

	grand := subtotal.Add(tax).Sub(discount).Add(roundOff)
	if grand.IsNegative() {
		return Totals{}, fmt.Errorf("ComputeTotals: %w", domain.ErrNegativeTotal)
	}

	return Totals{
		Subtotal:              subtotal,
		DiscountType:          discountType,
		DiscountValue:         value,
		DiscountAmount:        discount,
		SubtotalAfterDiscount: subtotal.Sub(discount),
		Tax:                   tax,
		RoundOff:              roundOff,
		GrandTotal:            grand,
	}, nil
}

// VerifyGrandTotal rejects a client-sent total that disagrees with the
// computed one by more than Tolerance.
func VerifyGrandTotal(claimed, computed decimal.Decimal) error {
	if claimed.Sub(computed).Abs().GreaterThan(Tolerance) {
		return fmt.Errorf("VerifyGrandTotal: got %s, computed %s: %w", claimed, computed, domain.ErrTotalMismatch)
	}
	return nil
}

func StatusFor(paid, grandTotal decimal.Decimal) domain.BillStatus {
	switch {
	case paid.GreaterThanOrEqual(grandTotal):
		return domain.BillStatusPaid
	case paid.IsPositive():
		return domain.BillStatusPartiallyPaid
	default:
		return domain.BillStatusUnpaid
	}
}

// Apply copies the computed snapshot onto a bill.
func (t Totals) Apply(b *domain.Bill) {
	b.Subtotal = t.Subtotal
	b.DiscountType = t.DiscountType
	b.DiscountValue = t.DiscountValue
	b.DiscountAmount = t.DiscountAmount
	b.SubtotalAfterDiscount = t.SubtotalAfterDiscount
	b.Tax = t.Tax
	b.RoundOff = t.RoundOff
	b.GrandTotal = t.GrandTotal
}
