package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

const billColumns = `id, customer_id, table_number, subtotal, discount_type, discount_value,
	discount_amount, subtotal_after_discount, tax, round_off, grand_total, paid_amount,
	payment_mode, status, inv_date, created_at`

const outstandingFilter = `customer_id = $1 AND payment_mode = 'Credit' AND status <> 'Paid'`

type BillRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, tx *sql.Tx, b *domain.Bill) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO bills (
			customer_id, table_number, subtotal, discount_type, discount_value,
			discount_amount, subtotal_after_discount, tax, round_off, grand_total,
			paid_amount, payment_mode, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, inv_date, created_at`,
		b.CustomerID, b.TableNumber, b.Subtotal, b.DiscountType, b.DiscountValue,
		b.DiscountAmount, b.SubtotalAfterDiscount, b.Tax, b.RoundOff, b.GrandTotal,
		b.PaidAmount, b.PaymentMode, b.Status,
	).Scan(&b.ID, &b.InvDate, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", constraintErr(err))
	}
	return nil
}

func (r *BillRepository) GetByID(ctx context.Context, id int64) (*domain.Bill, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = $1`, id,
	)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return b, nil
}

func (r *BillRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Bill, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = $1 FOR UPDATE`, id,
	)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return b, nil
}

func (r *BillRepository) List(ctx context.Context, limit, offset int) ([]domain.Bill, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bills`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills ORDER BY id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	bills, err := collectBills(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return bills, total, nil
}

// ListOutstanding returns the customer's unpaid credit bills, oldest first.
func (r *BillRepository) ListOutstanding(ctx context.Context, customerID int64) ([]domain.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE `+outstandingFilter+`
		ORDER BY inv_date ASC, id ASC`, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListOutstanding: %w", err)
	}
	bills, err := collectBills(rows)
	if err != nil {
		return nil, fmt.Errorf("ListOutstanding: %w", err)
	}
	return bills, nil
}

// ListOutstandingForUpdate is ListOutstanding with the rows locked until tx ends.
func (r *BillRepository) ListOutstandingForUpdate(ctx context.Context, tx *sql.Tx, customerID int64) ([]domain.Bill, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE `+outstandingFilter+`
		ORDER BY inv_date ASC, id ASC FOR UPDATE`, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListOutstandingForUpdate: %w", err)
	}
	bills, err := collectBills(rows)
	if err != nil {
		return nil, fmt.Errorf("ListOutstandingForUpdate: %w", err)
	}
	return bills, nil
}

func (r *BillRepository) UpdatePayment(ctx context.Context, tx *sql.Tx, id int64, paid decimal.Decimal, status domain.BillStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET paid_amount = $1, status = $2 WHERE id = $3`,
		paid, status, id,
	)
	if err != nil {
		return fmt.Errorf("UpdatePayment: %w", constraintErr(err))
	}
	return expectOneRow(res, "UpdatePayment")
}

// UpdateDetails rewrites the editable fields and the recomputed monetary snapshot.
func (r *BillRepository) UpdateDetails(ctx context.Context, tx *sql.Tx, b *domain.Bill) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET
			customer_id = $1, table_number = $2, subtotal = $3, discount_type = $4,
			discount_value = $5, discount_amount = $6, subtotal_after_discount = $7,
			tax = $8, round_off = $9, grand_total = $10, paid_amount = $11,
			payment_mode = $12, status = $13
		WHERE id = $14`,
		b.CustomerID, b.TableNumber, b.Subtotal, b.DiscountType,
		b.DiscountValue, b.DiscountAmount, b.SubtotalAfterDiscount,
		b.Tax, b.RoundOff, b.GrandTotal, b.PaidAmount,
		b.PaymentMode, b.Status, b.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateDetails: %w", constraintErr(err))
	}
	return expectOneRow(res, "UpdateDetails")
}

func (r *BillRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return expectOneRow(res, "Delete")
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func collectBills(rows *sql.Rows) ([]domain.Bill, error) {
	defer rows.Close()

	var bills []domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return bills, nil
}

func scanBill(s scanner) (*domain.Bill, error) {
	var b domain.Bill
	err := s.Scan(
		&b.ID, &b.CustomerID, &b.TableNumber, &b.Subtotal, &b.DiscountType, &b.DiscountValue,
		&b.DiscountAmount, &b.SubtotalAfterDiscount, &b.Tax, &b.RoundOff, &b.GrandTotal, &b.PaidAmount,
		&b.PaymentMode, &b.Status, &b.InvDate, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
