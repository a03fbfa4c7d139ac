package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIS0001/triplogic-backend/internal/auth"
	"github.com/AIS0001/triplogic-backend/internal/handler"
	"github.com/AIS0001/triplogic-backend/internal/repository"
)

const secret = "router-test-secret"

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
func (p fakePinger) Stats() sql.DBStats                { return sql.DBStats{OpenConnections: 2} }

type nopStore struct{}

func (nopStore) Reserve(context.Context, *repository.IdempotencyRecord) (*repository.IdempotencyRecord, bool, error) {
	return nil, true, nil
}
func (nopStore) Complete(context.Context, string, int64, int, []byte) error { return nil }
func (nopStore) Release(context.Context, string, int64) error               { return nil }

func newTestRouter(dbErr error) http.Handler {
	return NewRouter(Handlers{
		Health:   handler.NewHealthHandler(fakePinger{err: dbErr}),
		Bills:    handler.NewBillHandler(nil),
		Payments: handler.NewPaymentHandler(nil),
		Ledger:   handler.NewLedgerHandler(nil),
	}, secret, nopStore{})
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		dbErr      error
		wantStatus int
	}{
		{"liveness", "/health", nil, http.StatusOK},
		{"ready", "/health/ready", nil, http.StatusOK},
		{"database down", "/health/ready", errors.New("dial tcp: refused"), http.StatusServiceUnavailable},
		{"openapi document", "/docs/openapi.yaml", nil, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestRouter(tc.dbErr).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_APIRequiresToken(t *testing.T) {
	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/savebill"},
		{http.MethodGet, "/api/getbills"},
		{http.MethodDelete, "/api/deletebill/1"},
		{http.MethodGet, "/api/getoutstandingbalance/1"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_AuthenticatedRequestReachesHandler(t *testing.T) {
	token, err := auth.GenerateToken(1, "cashier", secret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/savepayment", strings.NewReader(`{"amount_paid":0}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestRouter_RejectsOversizedBody(t *testing.T) {
	token, err := auth.GenerateToken(1, "cashier", secret, time.Hour)
	require.NoError(t, err)

	body := `{"remarks":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/saveSupplierPayment", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}
