package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AIS0001/triplogic-backend/api"
	"github.com/AIS0001/triplogic-backend/internal/handler"
	"github.com/AIS0001/triplogic-backend/internal/middleware"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Health   *handler.HealthHandler
	Bills    *handler.BillHandler
	Payments *handler.PaymentHandler
	Ledger   *handler.LedgerHandler
}

// NewRouter mounts the health and docs routes publicly and every billing
// route under /api behind JWT auth and the idempotency cache.
func NewRouter(h Handlers, jwtSecret string, idem middleware.IdempotencyStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	r.Get("/health", h.Health.Liveness)
	r.Get("/health/ready", h.Health.Readiness)
	r.Get("/docs", handler.ServeDocs())
	r.Get("/docs/openapi.yaml", handler.ServeOpenAPI(api.OpenAPI))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BodyLimit(maxBodyBytes))
		r.Use(middleware.Auth(jwtSecret))
		r.Use(middleware.Idempotency(idem))

		r.Post("/savebill", h.Bills.SaveBill)
		r.Post("/advancesavebill", h.Bills.SaveAdvanceBill)
		r.Get("/getbills", h.Bills.ListBills)
		r.Get("/getbill/{id}", h.Bills.GetBill)
		r.Get("/getadvancebill/{id}", h.Bills.GetAdvanceBill)
		r.Put("/updatebill/{id}", h.Bills.UpdateBill)
		r.Delete("/deletebill/{id}", h.Bills.DeleteBill)
		r.Get("/getcustomerinvoices/{customer_id}", h.Bills.GetCustomerInvoices)

		r.Post("/savepayment", h.Payments.SaveCustomerPayment)
		r.Post("/saveSupplierPayment", h.Payments.SaveSupplierPayment)

		r.Get("/getoutstandingbalance/{ac_type}/{customer_id}", h.Ledger.OutstandingBalance)
		r.Get("/getoutstandingbalance/{customer_id}", h.Ledger.OutstandingBalance)
		r.Get("/checkledgerentry/{refno}", h.Ledger.CheckLedgerEntry)
	})

	return r
}
