package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

type Application struct {
	BillID     int64
	CustomerID int64
	Apply      decimal.Decimal
	NewPaid    decimal.Decimal
	NewStatus  domain.BillStatus
}

type Allocation struct {
	Applications []Application
	Applied      decimal.Decimal
	Remaining    decimal.Decimal
}

// Allocate spreads amount over invoices in the order given, which callers
// keep oldest first. It stops as soon as the amount is used up.
func Allocate(amount decimal.Decimal, invoices []domain.Bill) (Allocation, error) {
	if !amount.IsPositive() {
		return Allocation{}, fmt.Errorf("Allocate: %w", domain.ErrInvalidAmount)
	}

	alloc := Allocation{Applied: decimal.Zero, Remaining: amount}
	for _, inv := range invoices {
		if !alloc.Remaining.IsPositive() {
			break
		}

		due := inv.Due()
		if !due.IsPositive() {
			continue
		}

		apply := decimal.Min(due, alloc.Remaining)
		alloc.Remaining = alloc.Remaining.Sub(apply)
		alloc.Applied = alloc.Applied.Add(apply)

		newPaid := inv.PaidAmount.Add(apply)
		app := Application{
			BillID:    inv.ID,
			Apply:     apply,
			NewPaid:   newPaid,
			NewStatus: StatusFor(newPaid, inv.GrandTotal),
		}
		if inv.CustomerID != nil {
			app.CustomerID = *inv.CustomerID
		}
		alloc.Applications = append(alloc.Applications, app)
	}

	return alloc, nil
}
