package bill

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/billing"
	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/service"
)

type billRepo interface {
	Create(ctx context.Context, tx *sql.Tx, b *domain.Bill) error
	GetByID(ctx context.Context, id int64) (*domain.Bill, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Bill, error)
	List(ctx context.Context, limit, offset int) ([]domain.Bill, int, error)
	ListOutstanding(ctx context.Context, customerID int64) ([]domain.Bill, error)
	UpdateDetails(ctx context.Context, tx *sql.Tx, b *domain.Bill) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
}

type advanceBillRepo interface {
	Create(ctx context.Context, tx *sql.Tx, b *domain.AdvanceBill) error
	GetByID(ctx context.Context, id int64) (*domain.AdvanceBill, error)
}

type ledgerRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
	GetByTransactionID(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error)
	GetByTransactionIDTx(ctx context.Context, tx *sql.Tx, transactionID string) ([]domain.LedgerEntry, error)
	DeleteByReference(ctx context.Context, tx *sql.Tx, referenceID string) (int64, error)
	Balance(ctx context.Context, accountType string, accountID int64) (decimal.Decimal, error)
}

type voucherRepo interface {
	ListReceiptsByBill(ctx context.Context, billID int64) ([]domain.ReceiptVoucher, error)
	DeleteReceiptsByBill(ctx context.Context, tx *sql.Tx, billID int64) (int64, error)
}

type Service struct {
	bills    billRepo
	advance  advanceBillRepo
	ledger   ledgerRepo
	vouchers voucherRepo
	db       service.TxRunner
	now      func() time.Time
}

func NewService(
	bills billRepo,
	advance advanceBillRepo,
	ledger ledgerRepo,
	vouchers voucherRepo,
	db service.TxRunner,
) *Service {
	return &Service{
		bills:    bills,
		advance:  advance,
		ledger:   ledger,
		vouchers: vouchers,
		db:       db,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BillInput carries the client-editable fields of a bill. GrandTotal, when
// set, is only checked against the computed total.
type BillInput struct {
	CustomerID    *int64
	TableNumber   string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	DiscountType  domain.DiscountType
	DiscountValue decimal.Decimal
	RoundOff      decimal.Decimal
	GrandTotal    *decimal.Decimal
	PaymentMode   domain.PaymentMode
}

func (in BillInput) totals() (billing.Totals, error) {
	if !in.PaymentMode.IsValid() {
		return billing.Totals{}, fmt.Errorf("totals: %q: %w", in.PaymentMode, domain.ErrInvalidPaymentMode)
	}
	if in.PaymentMode == domain.PaymentModeCredit && in.CustomerID == nil {
		return billing.Totals{}, fmt.Errorf("totals: %w", domain.ErrCustomerRequired)
	}

	t, err := billing.ComputeTotals(billing.TotalsInput{
		Subtotal:      in.Subtotal,
		Tax:           in.Tax,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		RoundOff:      in.RoundOff,
	})
	if err != nil {
		return billing.Totals{}, fmt.Errorf("totals: %w", err)
	}

	if in.GrandTotal != nil {
		if err := billing.VerifyGrandTotal(*in.GrandTotal, t.GrandTotal); err != nil {
			return billing.Totals{}, fmt.Errorf("totals: %w", err)
		}
	}
	return t, nil
}

// settledAtCreation is what a bill of the given mode has been paid when it
// is first recorded: everything unless it was sold on credit.
func settledAtCreation(mode domain.PaymentMode, grandTotal decimal.Decimal) decimal.Decimal {
	if mode == domain.PaymentModeCredit {
		return decimal.Zero
	}
	return grandTotal
}
