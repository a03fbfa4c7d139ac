package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

func sumSides(entries []domain.LedgerEntry) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.DebitAmount)
		credit = credit.Add(e.CreditAmount)
	}
	return debit, credit
}

func TestSaleEntries_CashScenario(t *testing.T) {
	totals, err := ComputeTotals(TotalsInput{
		Subtotal:      d("1000"),
		Tax:           d("50"),
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: d("10"),
		RoundOff:      d("-2"),
	})
	require.NoError(t, err)

	at := time.Now().UTC()
	entries, err := SaleEntries("42", totals.GrandTotal, domain.PaymentModeCash, nil, at)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.AccountSales, entries[0].AccountType)
	assert.True(t, d("948").Equal(entries[0].CreditAmount))
	assert.True(t, entries[0].DebitAmount.IsZero())

	assert.Equal(t, "Cash", entries[1].AccountType)
	assert.True(t, d("948").Equal(entries[1].DebitAmount))
	assert.True(t, entries[1].CreditAmount.IsZero())
	assert.Nil(t, entries[1].AccountID)

	for _, e := range entries {
		assert.Equal(t, "42", e.TransactionID)
		assert.Equal(t, "42", e.ReferenceID)
		assert.Equal(t, at, e.EntryDate)
	}
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	require.NoError(t, CheckBalanced(entries))
}

func TestSaleEntries_DebitAccountByMode(t *testing.T) {
	customer := int64(7)

	tests := []struct {
		mode        domain.PaymentMode
		wantAccount string
		wantID      *int64
	}{
		{domain.PaymentModeCash, "Cash", nil},
		{domain.PaymentModeBankTransfer, "Bank Transfer", nil},
		{domain.PaymentModeQRCode, "QR Code", nil},
		{domain.PaymentModeUPI, "UPI", nil},
		{domain.PaymentModeCredit, domain.AccountReceivable, &customer},
	}

	for _, tc := range tests {
		t.Run(string(tc.mode), func(t *testing.T) {
			entries, err := SaleEntries("1", d("10.50"), tc.mode, &customer, time.Now())
			require.NoError(t, err)
			require.Len(t, entries, 2)

			debit := entries[1]
			assert.Equal(t, tc.wantAccount, debit.AccountType)
			assert.Equal(t, tc.wantID, debit.AccountID)

			dr, cr := sumSides(entries)
			assert.True(t, dr.Equal(cr))
		})
	}
}

func TestSaleEntries_Errors(t *testing.T) {
	_, err := SaleEntries("1", d("10"), "Barter", nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMode)

	_, err = SaleEntries("1", d("10"), domain.PaymentModeCredit, nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrCustomerRequired)

	_, err = SaleEntries("1", d("-10"), domain.PaymentModeCash, nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrNegativeTotal)
}

func TestSaleEntries_ZeroTotalPostsNothing(t *testing.T) {
	entries, err := SaleEntries("1", decimal.Zero, domain.PaymentModeCash, nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPaymentAccountType(t *testing.T) {
	tests := map[string]string{
		"cash":   domain.AccountCash,
		"CASH":   domain.AccountCash,
		" Cash ": domain.AccountCash,
		"bank":   domain.AccountBank,
		"Cheque": domain.AccountBank,
		"card":   domain.AccountCard,
		"UPI":    domain.AccountOther,
		"":       domain.AccountOther,
	}
	for mode, want := range tests {
		assert.Equal(t, want, PaymentAccountType(mode), "mode %q", mode)
	}
}

func TestPaymentEntries(t *testing.T) {
	t.Run("receipt debits cash and credits receivable", func(t *testing.T) {
		entries, err := PaymentEntries(PaymentPosting{
			TransactionID: "RECPT_1",
			ReferenceID:   "9",
			Mode:          "cash",
			PartyID:       3,
			Amount:        d("200"),
			Direction:     DirectionReceipt,
		})
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, domain.AccountCash, entries[0].AccountType)
		assert.True(t, d("200").Equal(entries[0].DebitAmount))
		assert.Nil(t, entries[0].AccountID)

		assert.Equal(t, domain.AccountReceivable, entries[1].AccountType)
		assert.True(t, d("200").Equal(entries[1].CreditAmount))
		require.NotNil(t, entries[1].AccountID)
		assert.Equal(t, int64(3), *entries[1].AccountID)

		require.NoError(t, CheckBalanced(entries))
	})

	t.Run("disbursement debits bank and credits payable", func(t *testing.T) {
		entries, err := PaymentEntries(PaymentPosting{
			TransactionID: "PAYV_1",
			ReferenceID:   "INV-77",
			Mode:          "cheque",
			PartyID:       11,
			Amount:        d("75.25"),
			Direction:     DirectionDisbursement,
		})
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, domain.AccountBank, entries[0].AccountType)
		assert.True(t, d("75.25").Equal(entries[0].DebitAmount))
		assert.True(t, entries[0].CreditAmount.IsZero())

		assert.Equal(t, domain.AccountPayable, entries[1].AccountType)
		assert.True(t, d("75.25").Equal(entries[1].CreditAmount))
		assert.True(t, entries[1].DebitAmount.IsZero())
		require.NotNil(t, entries[1].AccountID)
		assert.Equal(t, int64(11), *entries[1].AccountID)

		require.NoError(t, CheckBalanced(entries))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := PaymentEntries(PaymentPosting{Amount: decimal.Zero, Direction: DirectionReceipt})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestReverseEntries(t *testing.T) {
	customer := int64(5)
	original, err := SaleEntries("12", d("300"), domain.PaymentModeCredit, &customer, time.Now())
	require.NoError(t, err)

	reversed := ReverseEntries(original, time.Now())
	require.Len(t, reversed, len(original))

	for i := range original {
		assert.True(t, original[i].DebitAmount.Equal(reversed[i].CreditAmount))
		assert.True(t, original[i].CreditAmount.Equal(reversed[i].DebitAmount))
		assert.Equal(t, original[i].AccountType, reversed[i].AccountType)
		assert.Equal(t, original[i].AccountID, reversed[i].AccountID)
		assert.NotEqual(t, original[i].ID, reversed[i].ID)
	}

	combined := append(append([]domain.LedgerEntry{}, original...), reversed...)
	require.NoError(t, CheckBalanced(combined))
	assert.Empty(t, ReverseEntries(combined, time.Now()))
}

func TestReverseEntries_OnlyOpenPositionsAfterRepost(t *testing.T) {
	customer := int64(5)
	original, err := SaleEntries("12", d("300"), domain.PaymentModeCredit, &customer, time.Now())
	require.NoError(t, err)
	reposted, err := SaleEntries("12", d("250"), domain.PaymentModeCash, nil, time.Now())
	require.NoError(t, err)

	history := append(append(append([]domain.LedgerEntry{}, original...), ReverseEntries(original, time.Now())...), reposted...)

	open := ReverseEntries(history, time.Now())
	require.Len(t, open, 2)
	assert.Equal(t, domain.AccountSales, open[0].AccountType)
	assert.True(t, d("250").Equal(open[0].DebitAmount))
	assert.Equal(t, "Cash", open[1].AccountType)
	assert.True(t, d("250").Equal(open[1].CreditAmount))
}

func TestCheckBalanced(t *testing.T) {
	balanced := []domain.LedgerEntry{
		{TransactionID: "1", AccountType: "Sales", CreditAmount: d("10"), DebitAmount: decimal.Zero},
		{TransactionID: "1", AccountType: "Cash", DebitAmount: d("10"), CreditAmount: decimal.Zero},
	}

	tests := []struct {
		name    string
		entries []domain.LedgerEntry
		wantErr bool
	}{
		{name: "balanced", entries: balanced},
		{name: "empty", entries: nil},
		{
			name: "debits short",
			entries: []domain.LedgerEntry{
				{TransactionID: "1", AccountType: "Sales", CreditAmount: d("10")},
				{TransactionID: "1", AccountType: "Cash", DebitAmount: d("9.99")},
			},
			wantErr: true,
		},
		{
			name: "balanced overall but not per transaction",
			entries: []domain.LedgerEntry{
				{TransactionID: "1", AccountType: "Sales", CreditAmount: d("10")},
				{TransactionID: "2", AccountType: "Cash", DebitAmount: d("10")},
			},
			wantErr: true,
		},
		{
			name: "two-sided entry",
			entries: []domain.LedgerEntry{
				{TransactionID: "1", AccountType: "Cash", DebitAmount: d("5"), CreditAmount: d("5")},
			},
			wantErr: true,
		},
		{
			name: "empty entry",
			entries: []domain.LedgerEntry{
				{TransactionID: "1", AccountType: "Cash"},
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckBalanced(tc.entries)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrLedgerImbalance)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDepositSaleEntries(t *testing.T) {
	customer := int64(4)

	t.Run("partial deposit splits debit between mode and receivable", func(t *testing.T) {
		entries, err := DepositSaleEntries("ADV_3", d("500"), d("150"), domain.PaymentModeUPI, &customer, time.Now())
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, domain.AccountSales, entries[0].AccountType)
		assert.True(t, d("500").Equal(entries[0].CreditAmount))
		assert.Equal(t, "UPI", entries[1].AccountType)
		assert.True(t, d("150").Equal(entries[1].DebitAmount))
		assert.Equal(t, domain.AccountReceivable, entries[2].AccountType)
		assert.True(t, d("350").Equal(entries[2].DebitAmount))
		assert.Equal(t, &customer, entries[2].AccountID)
		require.NoError(t, CheckBalanced(entries))
	})

	t.Run("zero deposit debits receivable only", func(t *testing.T) {
		entries, err := DepositSaleEntries("ADV_3", d("80"), decimal.Zero, domain.PaymentModeCash, &customer, time.Now())
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, domain.AccountReceivable, entries[1].AccountType)
		require.NoError(t, CheckBalanced(entries))
	})

	t.Run("full deposit matches a settled sale", func(t *testing.T) {
		entries, err := DepositSaleEntries("ADV_3", d("80"), d("80"), domain.PaymentModeCash, nil, time.Now())
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Cash", entries[1].AccountType)
	})

	t.Run("partial deposit without customer", func(t *testing.T) {
		_, err := DepositSaleEntries("ADV_3", d("80"), d("10"), domain.PaymentModeCash, nil, time.Now())
		assert.ErrorIs(t, err, domain.ErrCustomerRequired)
	})

	t.Run("deposit above total", func(t *testing.T) {
		_, err := DepositSaleEntries("ADV_3", d("80"), d("81"), domain.PaymentModeCash, &customer, time.Now())
		assert.ErrorIs(t, err, domain.ErrPaidExceedsTotal)
	})

	t.Run("credit sale with deposit", func(t *testing.T) {
		_, err := DepositSaleEntries("ADV_3", d("80"), d("10"), domain.PaymentModeCredit, &customer, time.Now())
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}
