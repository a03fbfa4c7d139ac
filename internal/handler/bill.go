package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/auth"
	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/logging"
	"github.com/AIS0001/triplogic-backend/internal/service/bill"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	dateLayout       = "2006-01-02"
)

type billService interface {
	SaveBill(ctx context.Context, in bill.BillInput) (*domain.Bill, error)
	SaveAdvanceBill(ctx context.Context, in bill.AdvanceBillInput) (*domain.AdvanceBill, error)
	UpdateBill(ctx context.Context, id int64, in bill.BillInput) (*domain.Bill, error)
	DeleteBill(ctx context.Context, id int64) error
	ListBills(ctx context.Context, limit, offset int) ([]domain.Bill, int, error)
	GetBill(ctx context.Context, id int64) (*domain.Bill, error)
	GetBillReceipts(ctx context.Context, billID int64) ([]domain.ReceiptVoucher, error)
	GetAdvanceBill(ctx context.Context, id int64) (*domain.AdvanceBill, error)
	GetCustomerInvoices(ctx context.Context, customerID int64) ([]domain.Bill, error)
}

type BillHandler struct {
	bills billService
}

func NewBillHandler(bills billService) *BillHandler {
	return &BillHandler{bills: bills}
}

// saveBillRequest accepts the fields a POS client sends. Derived values
// (discount amount, subtotal after discount, status) are recomputed on the
// server; grand_total is only cross-checked.
type saveBillRequest struct {
	CustomerID    *int64           `json:"customer_id"`
	TableNumber   string           `json:"table_number"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	RoundOff      *decimal.Decimal `json:"round_off"`
	LegacyRound   *decimal.Decimal `json:"roundoff"`
	GrandTotal    *decimal.Decimal `json:"grand_total"`
	PaymentMode   string           `json:"payment_mode"`
}

func (r saveBillRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Subtotal == nil {
		errs = append(errs, FieldError{Field: "subtotal", Message: "required"})
	} else if r.Subtotal.IsNegative() {
		errs = append(errs, FieldError{Field: "subtotal", Message: "must not be negative"})
	}

	if r.Tax.IsNegative() {
		errs = append(errs, FieldError{Field: "tax", Message: "must not be negative"})
	}

	if r.DiscountType != "" && !domain.DiscountType(r.DiscountType).IsValid() {
		errs = append(errs, FieldError{Field: "discount_type", Message: "must be percentage or flat"})
	}
	if r.DiscountValue.IsNegative() {
		errs = append(errs, FieldError{Field: "discount_value", Message: "must not be negative"})
	}

	if r.PaymentMode == "" {
		errs = append(errs, FieldError{Field: "payment_mode", Message: "required"})
	} else if !domain.PaymentMode(r.PaymentMode).IsValid() {
		errs = append(errs, FieldError{Field: "payment_mode", Message: "must be Cash, Bank Transfer, QR Code, UPI, or Credit"})
	} else if domain.PaymentMode(r.PaymentMode) == domain.PaymentModeCredit && r.CustomerID == nil {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required for Credit bills"})
	}

	return errs
}

func (r saveBillRequest) toInput() bill.BillInput {
	roundOff := decimal.Zero
	switch {
	case r.RoundOff != nil:
		roundOff = *r.RoundOff
	case r.LegacyRound != nil:
		roundOff = *r.LegacyRound
	}

	in := bill.BillInput{
		CustomerID:    r.CustomerID,
		TableNumber:   r.TableNumber,
		Tax:           r.Tax,
		DiscountType:  domain.DiscountType(r.DiscountType),
		DiscountValue: r.DiscountValue,
		RoundOff:      roundOff,
		GrandTotal:    r.GrandTotal,
		PaymentMode:   domain.PaymentMode(r.PaymentMode),
	}
	if r.Subtotal != nil {
		in.Subtotal = *r.Subtotal
	}
	return in
}

type saveAdvanceBillRequest struct {
	saveBillRequest
	PickupDate      string           `json:"pickup_date"`
	PickupTime      string           `json:"pickup_time"`
	SpecialNote     string           `json:"special_note"`
	OrderType       string           `json:"order_type"`
	BillGeneratedBy string           `json:"bill_generated_by"`
	FinalBilled     bool             `json:"final_billed"`
	PaidAmount      *decimal.Decimal `json:"paid_amount"`
}

func (r saveAdvanceBillRequest) Validate() []FieldError {
	errs := r.saveBillRequest.Validate()

	if r.PickupDate != "" {
		if _, err := time.Parse(dateLayout, r.PickupDate); err != nil {
			errs = append(errs, FieldError{Field: "pickup_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if r.PaidAmount != nil && r.PaidAmount.IsNegative() {
		errs = append(errs, FieldError{Field: "paid_amount", Message: "must not be negative"})
	}

	return errs
}

type billDTO struct {
	ID                    int64           `json:"id"`
	CustomerID            *int64          `json:"customer_id"`
	TableNumber           string          `json:"table_number"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	DiscountType          string          `json:"discount_type"`
	DiscountValue         decimal.Decimal `json:"discount_value"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	SubtotalAfterDiscount decimal.Decimal `json:"subtotal_afterdiscount"`
	Tax                   decimal.Decimal `json:"tax"`
	RoundOff              decimal.Decimal `json:"round_off"`
	GrandTotal            decimal.Decimal `json:"grand_total"`
	PaidAmount            decimal.Decimal `json:"paid_amount"`
	DueAmount             decimal.Decimal `json:"due_amount"`
	PaymentMode           string          `json:"payment_mode"`
	Status                string          `json:"status"`
	InvDate               string          `json:"inv_date"`
	CreatedAt             time.Time       `json:"created_at"`
}

func toBillDTO(b *domain.Bill) billDTO {
	return billDTO{
		ID:                    b.ID,
		CustomerID:            b.CustomerID,
		TableNumber:           b.TableNumber,
		Subtotal:              b.Subtotal,
		DiscountType:          string(b.DiscountType),
		DiscountValue:         b.DiscountValue,
		DiscountAmount:        b.DiscountAmount,
		SubtotalAfterDiscount: b.SubtotalAfterDiscount,
		Tax:                   b.Tax,
		RoundOff:              b.RoundOff,
		GrandTotal:            b.GrandTotal,
		PaidAmount:            b.PaidAmount,
		DueAmount:             b.Due(),
		PaymentMode:           string(b.PaymentMode),
		Status:                string(b.Status),
		InvDate:               b.InvDate.Format(dateLayout),
		CreatedAt:             b.CreatedAt,
	}
}

func toBillDTOs(bills []domain.Bill) []billDTO {
	out := make([]billDTO, 0, len(bills))
	for i := range bills {
		out = append(out, toBillDTO(&bills[i]))
	}
	return out
}

func (h *BillHandler) SaveBill(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req saveBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	b, err := h.bills.SaveBill(r.Context(), req.toInput())
	if err != nil {
		log.Warn("save bill failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, "Bill saved successfully", map[string]any{
		"bill_id": b.ID,
		"data":    toBillDTO(b),
	})
}

func (h *BillHandler) SaveAdvanceBill(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req saveAdvanceBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	in := bill.AdvanceBillInput{
		BillInput:       req.toInput(),
		PickupTime:      req.PickupTime,
		SpecialNote:     req.SpecialNote,
		OrderType:       req.OrderType,
		BillGeneratedBy: req.BillGeneratedBy,
		FinalBilled:     req.FinalBilled,
		PaidAmount:      req.PaidAmount,
	}
	if req.PickupDate != "" {
		pickup, _ := time.Parse(dateLayout, req.PickupDate)
		in.PickupDate = &pickup
	}
	if in.BillGeneratedBy == "" {
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			in.BillGeneratedBy = strconv.FormatInt(claims.UserID, 10)
		}
	}

	b, err := h.bills.SaveAdvanceBill(r.Context(), in)
	if err != nil {
		log.Warn("save advance bill failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, "Advance bill saved successfully", map[string]any{
		"bill_id": b.ID,
		"status":  string(b.Status),
	})
}

func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	limit, offset, fields := pagination(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	bills, total, err := h.bills.ListBills(r.Context(), limit, offset)
	if err != nil {
		logging.FromContext(r.Context()).Error("list bills failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, "", map[string]any{
		"data":  toBillDTOs(bills),
		"total": total,
	})
}

func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	b, err := h.bills.GetBill(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context()).Warn("bill lookup failed", "error", err, "bill_id", id)
		RespondDomainError(w, err)
		return
	}

	receipts, err := h.bills.GetBillReceipts(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context()).Error("bill receipts lookup failed", "error", err, "bill_id", id)
		RespondDomainError(w, err)
		return
	}

	data := make([]receiptDTO, 0, len(receipts))
	for _, v := range receipts {
		data = append(data, receiptDTO{
			ID:              v.ID,
			TransactionID:   v.TransactionID(),
			AmountPaid:      v.AmountPaid,
			PaymentMode:     v.PaymentMode,
			ReferenceNumber: v.ReferenceNumber,
			CreatedAt:       v.CreatedAt,
		})
	}

	RespondSuccess(w, http.StatusOK, "", map[string]any{
		"data":     toBillDTO(b),
		"receipts": data,
	})
}

type receiptDTO struct {
	ID              int64           `json:"id"`
	TransactionID   string          `json:"transaction_id"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaymentMode     string          `json:"payment_mode"`
	ReferenceNumber string          `json:"reference_number"`
	CreatedAt       time.Time       `json:"created_at"`
}

type advanceBillDTO struct {
	billDTO
	PickupDate      *string `json:"pickup_date"`
	PickupTime      string  `json:"pickup_time"`
	SpecialNote     string  `json:"special_note"`
	OrderType       string  `json:"order_type"`
	BillGeneratedBy string  `json:"bill_generated_by"`
	FinalBilled     bool    `json:"final_billed"`
}

func toAdvanceBillDTO(b *domain.AdvanceBill) advanceBillDTO {
	dto := advanceBillDTO{
		billDTO:         toBillDTO(&b.Bill),
		PickupTime:      b.PickupTime,
		SpecialNote:     b.SpecialNote,
		OrderType:       b.OrderType,
		BillGeneratedBy: b.BillGeneratedBy,
		FinalBilled:     b.FinalBilled,
	}
	if b.PickupDate != nil {
		d := b.PickupDate.Format(dateLayout)
		dto.PickupDate = &d
	}
	return dto
}

func (h *BillHandler) GetAdvanceBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	b, err := h.bills.GetAdvanceBill(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context()).Warn("advance bill lookup failed", "error", err, "advance_bill_id", id)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, "", map[string]any{"data": toAdvanceBillDTO(b)})
}

func (h *BillHandler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	id, ok := pathID(r, "id")
	if !ok {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req saveBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	b, err := h.bills.UpdateBill(r.Context(), id, req.toInput())
	if err != nil {
		log.Warn("update bill failed", "error", err, "bill_id", id)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, "Bill updated successfully", map[string]any{"data": toBillDTO(b)})
}

func (h *BillHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.bills.DeleteBill(r.Context(), id); err != nil {
		logging.FromContext(r.Context()).Warn("delete bill failed", "error", err, "bill_id", id)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, "Bill deleted successfully", nil)
}

func (h *BillHandler) GetCustomerInvoices(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "customer_id")
	if !ok {
		RespondValidationError(w, []FieldError{{Field: "customer_id", Message: "must be a positive integer"}})
		return
	}

	invoices, err := h.bills.GetCustomerInvoices(r.Context(), customerID)
	if err != nil {
		logging.FromContext(r.Context()).Error("customer invoices lookup failed", "error", err, "customer_id", customerID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, "", map[string]any{"invoices": toBillDTOs(invoices)})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pagination(r *http.Request) (int, int, []FieldError) {
	var errs []FieldError
	limit, offset := defaultListLimit, 0

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			errs = append(errs, FieldError{Field: "limit", Message: "must be between 1 and 500"})
		} else {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, FieldError{Field: "offset", Message: "must be zero or greater"})
		} else {
			offset = n
		}
	}

	return limit, offset, errs
}
