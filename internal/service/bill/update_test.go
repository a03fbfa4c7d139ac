package bill

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIS0001/triplogic-backend/internal/billing"
	"github.com/AIS0001/triplogic-backend/internal/domain"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func customer(id int64) *int64 {
	return &id
}

func totalsFor(t *testing.T, subtotal string) billing.Totals {
	t.Helper()
	tot, err := billing.ComputeTotals(billing.TotalsInput{Subtotal: money(subtotal)})
	require.NoError(t, err)
	return tot
}

func TestApplyUpdate(t *testing.T) {
	tests := []struct {
		name       string
		current    domain.Bill
		in         BillInput
		subtotal   string
		wantErr    error
		wantPaid   string
		wantStatus domain.BillStatus
	}{
		{
			name:       "cash bill stays settled at new total",
			current:    domain.Bill{ID: 1, PaymentMode: domain.PaymentModeCash, GrandTotal: money("100"), PaidAmount: money("100")},
			in:         BillInput{PaymentMode: domain.PaymentModeCash},
			subtotal:   "150",
			wantPaid:   "150",
			wantStatus: domain.BillStatusPaid,
		},
		{
			name:       "cash to credit resets paid",
			current:    domain.Bill{ID: 1, PaymentMode: domain.PaymentModeCash, GrandTotal: money("100"), PaidAmount: money("100")},
			in:         BillInput{PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4)},
			subtotal:   "100",
			wantPaid:   "0",
			wantStatus: domain.BillStatusUnpaid,
		},
		{
			name:       "unpaid credit to cash settles",
			current:    domain.Bill{ID: 1, PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4), GrandTotal: money("100"), PaidAmount: decimal.Zero},
			in:         BillInput{PaymentMode: domain.PaymentModeUPI},
			subtotal:   "100",
			wantPaid:   "100",
			wantStatus: domain.BillStatusPaid,
		},
		{
			name:       "partly paid credit keeps its payments",
			current:    domain.Bill{ID: 1, PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4), GrandTotal: money("100"), PaidAmount: money("40")},
			in:         BillInput{PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4)},
			subtotal:   "120",
			wantPaid:   "40",
			wantStatus: domain.BillStatusPartiallyPaid,
		},
		{
			name:       "lowering total to what was paid marks paid",
			current:    domain.Bill{ID: 1, PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4), GrandTotal: money("100"), PaidAmount: money("40")},
			in:         BillInput{PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4)},
			subtotal:   "40",
			wantPaid:   "40",
			wantStatus: domain.BillStatusPaid,
		},
		{
			name:     "total below payments is rejected",
			current:  domain.Bill{ID: 1, PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4), GrandTotal: money("100"), PaidAmount: money("40")},
			in:       BillInput{PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4)},
			subtotal: "30",
			wantErr:  domain.ErrPaidExceedsTotal,
		},
		{
			name:     "paid credit bill cannot switch mode",
			current:  domain.Bill{ID: 1, PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4), GrandTotal: money("100"), PaidAmount: money("40")},
			in:       BillInput{PaymentMode: domain.PaymentModeCash},
			subtotal: "100",
			wantErr:  domain.ErrBillHasPayments,
		},
		{
			name:     "paid credit bill cannot change customer",
			current:  domain.Bill{ID: 1, PaymentMode: domain.PaymentModeCredit, CustomerID: customer(4), GrandTotal: money("100"), PaidAmount: money("40")},
			in:       BillInput{PaymentMode: domain.PaymentModeCredit, CustomerID: customer(5)},
			subtotal: "100",
			wantErr:  domain.ErrBillHasPayments,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			current := tc.current
			next, err := applyUpdate(&current, tc.in, totalsFor(t, tc.subtotal))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, next.PaidAmount.Equal(money(tc.wantPaid)), "paid %s", next.PaidAmount)
			assert.Equal(t, tc.wantStatus, next.Status)
			assert.Equal(t, tc.current.ID, next.ID)
		})
	}
}

func TestBillInputTotals(t *testing.T) {
	grand := money("948.00")
	off := money("950.00")

	tests := []struct {
		name    string
		in      BillInput
		wantErr error
	}{
		{
			name: "valid with matching total",
			in: BillInput{
				Subtotal: money("1000"), Tax: money("48"),
				DiscountType: domain.DiscountTypePercentage, DiscountValue: money("10"),
				GrandTotal: &grand, PaymentMode: domain.PaymentModeCash,
			},
		},
		{
			name: "total mismatch",
			in: BillInput{
				Subtotal: money("1000"), Tax: money("48"),
				DiscountType: domain.DiscountTypePercentage, DiscountValue: money("10"),
				GrandTotal: &off, PaymentMode: domain.PaymentModeCash,
			},
			wantErr: domain.ErrTotalMismatch,
		},
		{
			name:    "unknown mode",
			in:      BillInput{Subtotal: money("10"), PaymentMode: "Barter"},
			wantErr: domain.ErrInvalidPaymentMode,
		},
		{
			name:    "credit without customer",
			in:      BillInput{Subtotal: money("10"), PaymentMode: domain.PaymentModeCredit},
			wantErr: domain.ErrCustomerRequired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.in.totals()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
