package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AIS0001/triplogic-backend/internal/domain"
)

const advanceBillColumns = `id, customer_id, table_number, subtotal, discount_type, discount_value,
	discount_amount, subtotal_after_discount, tax, round_off, grand_total, paid_amount,
	payment_mode, status, pickup_date, pickup_time, special_note, order_type,
	bill_generated_by, final_billed, inv_date, created_at`

type AdvanceBillRepository struct {
	db *sql.DB
}

func NewAdvanceBillRepository(db *sql.DB) *AdvanceBillRepository {
	return &AdvanceBillRepository{db: db}
}

func (r *AdvanceBillRepository) Create(ctx context.Context, tx *sql.Tx, b *domain.AdvanceBill) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO advance_bills (
			customer_id, table_number, subtotal, discount_type, discount_value,
			discount_amount, subtotal_after_discount, tax, round_off, grand_total,
			paid_amount, payment_mode, status, pickup_date, pickup_time,
			special_note, order_type, bill_generated_by, final_billed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, inv_date, created_at`,
		b.CustomerID, b.TableNumber, b.Subtotal, b.DiscountType, b.DiscountValue,
		b.DiscountAmount, b.SubtotalAfterDiscount, b.Tax, b.RoundOff, b.GrandTotal,
		b.PaidAmount, b.PaymentMode, b.Status, b.PickupDate, b.PickupTime,
		b.SpecialNote, b.OrderType, b.BillGeneratedBy, b.FinalBilled,
	).Scan(&b.ID, &b.InvDate, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", constraintErr(err))
	}
	return nil
}

func (r *AdvanceBillRepository) GetByID(ctx context.Context, id int64) (*domain.AdvanceBill, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+advanceBillColumns+` FROM advance_bills WHERE id = $1`, id,
	)
	b, err := scanAdvanceBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return b, nil
}

func scanAdvanceBill(s scanner) (*domain.AdvanceBill, error) {
	var b domain.AdvanceBill
	err := s.Scan(
		&b.ID, &b.CustomerID, &b.TableNumber, &b.Subtotal, &b.DiscountType, &b.DiscountValue,
		&b.DiscountAmount, &b.SubtotalAfterDiscount, &b.Tax, &b.RoundOff, &b.GrandTotal, &b.PaidAmount,
		&b.PaymentMode, &b.Status, &b.PickupDate, &b.PickupTime, &b.SpecialNote, &b.OrderType,
		&b.BillGeneratedBy, &b.FinalBilled, &b.InvDate, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
