// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"arivo-ledger/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(ledgerHandler *handler.LedgerHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", ledgerHandler.RegisterAccount)
		r.Get("/{userID}", ledgerHandler.GetAccountSnapshot)
		r.Get("/{userID}/transactions", ledgerHandler.GetTransactionHistory)
		r.Get("/{userID}/investments", ledgerHandler.GetInvestments)
		r.Get("/{userID}/commissions", ledgerHandler.GetCommissionHistory)
		r.Get("/{userID}/ledger", ledgerHandler.GetLedgerHistory)
		r.Post("/{userID}/points/exchange", ledgerHandler.ExchangePoints)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", ledgerHandler.CreateTransaction)
		r.Get("/pending", ledgerHandler.ListPendingTransactions)
		r.Post("/{transactionID}/settle", ledgerHandler.SettleTransaction)
		r.Post("/{transactionID}/reject", ledgerHandler.RejectTransaction)
		r.Post("/{transactionID}/cancel", ledgerHandler.CancelTransaction)
	})

	r.Get("/plans", ledgerHandler.ListPlans)

	// Accrual trigger for external cron collaborators; the in-process
	// scheduler calls the same service.
	r.Post("/accruals/run", ledgerHandler.RunDailyAccrual)

	return r
}
