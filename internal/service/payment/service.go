package payment

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/service"
)

type billRepo interface {
	ListOutstandingForUpdate(ctx context.Context, tx *sql.Tx, customerID int64) ([]domain.Bill, error)
	UpdatePayment(ctx context.Context, tx *sql.Tx, id int64, paid decimal.Decimal, status domain.BillStatus) error
}

type voucherRepo interface {
	CreateReceipt(ctx context.Context, tx *sql.Tx, v *domain.ReceiptVoucher) error
	CreatePayment(ctx context.Context, tx *sql.Tx, v *domain.PaymentVoucher) error
}

type Service struct {
	bills    billRepo
	vouchers voucherRepo
	ledger   service.LedgerWriter
	db       service.TxRunner
	now      func() time.Time
}

func NewService(bills billRepo, vouchers voucherRepo, ledger service.LedgerWriter, db service.TxRunner) *Service {
	return &Service{
		bills:    bills,
		vouchers: vouchers,
		ledger:   ledger,
		db:       db,
		now:      func() time.Time { return time.Now().UTC() },
	}
}
