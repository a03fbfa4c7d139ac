package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AIS0001/triplogic-backend/internal/domain"
	"github.com/AIS0001/triplogic-backend/internal/logging"
)

type ledgerService interface {
	GetOutstandingBalance(ctx context.Context, accountType string, accountID int64) (decimal.Decimal, error)
	GetLedgerEntries(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error)
}

type LedgerHandler struct {
	ledger ledgerService
}

func NewLedgerHandler(ledger ledgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

type ledgerEntryDTO struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ReferenceID   string          `json:"reference_id"`
	EntryDate     time.Time       `json:"entry_date"`
	AccountType   string          `json:"account_type"`
	AccountID     *int64          `json:"account_id"`
	Description   string          `json:"description"`
	DebitAmount   decimal.Decimal `json:"debit_amount"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
}

func toLedgerEntryDTO(e domain.LedgerEntry) ledgerEntryDTO {
	return ledgerEntryDTO{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		ReferenceID:   e.ReferenceID,
		EntryDate:     e.EntryDate,
		AccountType:   e.AccountType,
		AccountID:     e.AccountID,
		Description:   e.Description,
		DebitAmount:   e.DebitAmount,
		CreditAmount:  e.CreditAmount,
	}
}

// OutstandingBalance serves both /{ac_type}/{customer_id} and the short form,
// which reads the customer's receivable.
func (h *LedgerHandler) OutstandingBalance(w http.ResponseWriter, r *http.Request) {
	accountType := chi.URLParam(r, "ac_type")
	if accountType == "" {
		accountType = domain.AccountReceivable
	}

	accountID, ok := pathID(r, "customer_id")
	if !ok {
		RespondValidationError(w, []FieldError{{Field: "customer_id", Message: "must be a positive integer"}})
		return
	}

	balance, err := h.ledger.GetOutstandingBalance(r.Context(), accountType, accountID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("outstanding balance lookup failed",
			"error", err, "account_type", accountType, "account_id", accountID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, "", map[string]any{"outstanding_balance": balance})
}

// CheckLedgerEntry reports whether any ledger rows exist for a transaction id.
func (h *LedgerHandler) CheckLedgerEntry(w http.ResponseWriter, r *http.Request) {
	txID := chi.URLParam(r, "refno")
	if txID == "" {
		RespondValidationError(w, []FieldError{{Field: "refno", Message: "required"}})
		return
	}

	entries, err := h.ledger.GetLedgerEntries(r.Context(), txID)
	if err != nil {
		logging.FromContext(r.Context()).Error("ledger entry lookup failed", "error", err, "transaction_id", txID)
		RespondDomainError(w, err)
		return
	}

	data := make([]ledgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		data = append(data, toLedgerEntryDTO(e))
	}

	RespondSuccess(w, http.StatusOK, "", map[string]any{
		"exists": len(entries) > 0,
		"data":   data,
	})
}
