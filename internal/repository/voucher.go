package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

type VoucherRepository struct {
	db *sql.DB
}

func NewVoucherRepository(db *sql.DB) *VoucherRepository {
	return &VoucherRepository{db: db}
}

func (r *VoucherRepository) CreateReceipt(ctx context.Context, tx *sql.Tx, v *domain.ReceiptVoucher) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO receipt_vouchers (customer_id, bill_id, amount_paid, payment_mode, reference_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		v.CustomerID, v.BillID, v.AmountPaid, v.PaymentMode, v.ReferenceNumber,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("CreateReceipt: %w", err)
	}
	return nil
}

func (r *VoucherRepository) ListReceiptsByBill(ctx context.Context, billID int64) ([]domain.ReceiptVoucher, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, bill_id, amount_paid, payment_mode, reference_number, created_at
		FROM receipt_vouchers WHERE bill_id = $1 ORDER BY id`, billID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListReceiptsByBill: %w", err)
	}
	defer rows.Close()

	var vouchers []domain.ReceiptVoucher
	for rows.Next() {
		var v domain.ReceiptVoucher
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.BillID, &v.AmountPaid, &v.PaymentMode, &v.ReferenceNumber, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListReceiptsByBill: scan: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListReceiptsByBill: rows: %w", err)
	}
	return vouchers, nil
}

func (r *VoucherRepository) DeleteReceiptsByBill(ctx context.Context, tx *sql.Tx, billID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM receipt_vouchers WHERE bill_id = $1`, billID)
	if err != nil {
		return 0, fmt.Errorf("DeleteReceiptsByBill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteReceiptsByBill: rows affected: %w", err)
	}
	return n, nil
}

func (r *VoucherRepository) CreatePayment(ctx context.Context, tx *sql.Tx, v *domain.PaymentVoucher) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO payment_vouchers (supplier_id, amount_paid, payment_mode, reference_number, remarks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		v.SupplierID, v.AmountPaid, v.PaymentMode, v.ReferenceNumber, v.Remarks,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("CreatePayment: %w", err)
	}
	return nil
}
