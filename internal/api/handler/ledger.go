// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"arivo-ledger/internal/api/types"
	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"
	"arivo-ledger/internal/service"
	"arivo-ledger/internal/util" // For custom errors
)

// DefaultTimeout is the request timeout applied by the router.
const DefaultTimeout = 30 * time.Second

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// LedgerHandler handles HTTP requests for the ledger core.
type LedgerHandler struct {
	ledger      service.LedgerService
	commissions service.CommissionEngine
	accruals    service.AccrualService
	logger      *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger service.LedgerService, commissions service.CommissionEngine, accruals service.AccrualService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:      ledger,
		commissions: commissions,
		accruals:    accruals,
		logger:      logger,
	}
}

// Helper function to send JSON responses.
func (h *LedgerHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h *LedgerHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrInvalidAmount),
		util.IsError(err, util.ErrInvalidCurrency),
		util.IsError(err, util.ErrBelowMinimum),
		util.IsError(err, util.ErrUnknownPlan),
		util.IsError(err, util.ErrCyclicReferral):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrInsufficientFunds), util.IsError(err, util.ErrInsufficientPoints):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = err.Error()
	case util.IsError(err, util.ErrAlreadySettled), util.IsError(err, util.ErrCannotCancel), util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrAccountNotFound),
		util.IsError(err, util.ErrUnknownTransaction):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

func (h *LedgerHandler) pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// RegisterAccountRequest represents the request body for account registration.
type RegisterAccountRequest struct {
	UserID     int64  `json:"user_id"`
	ReferrerID *int64 `json:"referrer_id,omitempty"`
}

// RegisterAccount handles account creation.
// POST /accounts
func (h *LedgerHandler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var req RegisterAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	account, err := h.ledger.RegisterAccount(r.Context(), req.UserID, req.ReferrerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, account)
}

// GetAccountSnapshot handles the balance snapshot request.
// GET /accounts/{userID}
func (h *LedgerHandler) GetAccountSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(r, "userID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	account, err := h.ledger.GetAccountSnapshot(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, account)
}

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	UserID   int64                  `json:"user_id"`
	Type     domain.TransactionType `json:"type"`
	Currency domain.Currency        `json:"currency"`
	Amount   int64                  `json:"amount"`
	PlanID   string                 `json:"plan_id,omitempty"`
}

// CreateTransaction handles transaction creation requests.
// POST /transactions
func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	transaction, err := h.ledger.CreateTransaction(r.Context(), service.CreateTransactionInput{
		UserID:   req.UserID,
		Type:     req.Type,
		Currency: req.Currency,
		Amount:   req.Amount,
		PlanID:   req.PlanID,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, transaction)
}

// SettleTransaction handles admin settlement.
// POST /transactions/{transactionID}/settle
func (h *LedgerHandler) SettleTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := h.pathID(r, "transactionID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	transaction, err := h.ledger.SettleTransaction(r.Context(), transactionID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, transaction)
}

// RejectTransactionRequest represents the request body for admin rejection.
type RejectTransactionRequest struct {
	Reason string `json:"reason"`
}

// RejectTransaction handles admin rejection.
// POST /transactions/{transactionID}/reject
func (h *LedgerHandler) RejectTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := h.pathID(r, "transactionID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	var req RejectTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	transaction, err := h.ledger.RejectTransaction(r.Context(), transactionID, req.Reason)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, transaction)
}

// CancelTransactionRequest identifies the requesting owner.
type CancelTransactionRequest struct {
	UserID int64 `json:"user_id"`
}

// CancelTransaction handles owner cancellation of pending transactions.
// POST /transactions/{transactionID}/cancel
func (h *LedgerHandler) CancelTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := h.pathID(r, "transactionID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	var req CancelTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	transaction, err := h.ledger.CancelTransaction(r.Context(), transactionID, req.UserID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, transaction)
}

// ListPendingTransactions handles the admin approval queue listing.
// GET /transactions/pending
func (h *LedgerHandler) ListPendingTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	transactions, totalCount, err := h.ledger.ListPendingTransactions(r.Context(), limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewPaginatedResponse(transactions, limit, offset, totalCount))
}

// GetTransactionHistory handles a user's transaction listing.
// GET /accounts/{userID}/transactions
func (h *LedgerHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(r, "userID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	limit, offset := pagination(r)

	transactions, totalCount, err := h.ledger.GetTransactionHistory(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewPaginatedResponse(transactions, limit, offset, totalCount))
}

// GetInvestments handles a user's investment listing.
// GET /accounts/{userID}/investments
func (h *LedgerHandler) GetInvestments(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(r, "userID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	investments, err := h.ledger.GetInvestments(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, investments)
}

// GetLedgerHistory handles a user's audit trail listing.
// GET /accounts/{userID}/ledger
func (h *LedgerHandler) GetLedgerHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(r, "userID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	limit, offset := pagination(r)

	entries, err := h.ledger.GetLedgerHistory(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, entries)
}

// ExchangePointsRequest represents the request body for a points exchange.
type ExchangePointsRequest struct {
	Points   int64           `json:"points"`
	Currency domain.Currency `json:"currency"`
}

// ExchangePoints handles points-to-currency conversion.
// POST /accounts/{userID}/points/exchange
func (h *LedgerHandler) ExchangePoints(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(r, "userID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	var req ExchangePointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	transaction, err := h.ledger.ExchangePoints(r.Context(), userID, req.Points, req.Currency)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, transaction)
}

// GetCommissionHistory handles the earnings page listing.
// GET /accounts/{userID}/commissions
func (h *LedgerHandler) GetCommissionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(r, "userID")
	if !ok {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	limit, offset := pagination(r)

	var filter repository.CommissionFilter
	if v := r.URL.Query().Get("kind"); v != "" {
		kind := domain.CommissionKind(v)
		filter.Kind = &kind
	}
	if v := r.URL.Query().Get("level"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
		filter.Level = &level
	}

	records, totalCount, err := h.commissions.GetCommissionHistory(r.Context(), userID, filter, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewPaginatedResponse(records, limit, offset, totalCount))
}

// RunAccrualRequest optionally overrides the accrual date (YYYY-MM-DD).
type RunAccrualRequest struct {
	Date string `json:"date,omitempty"`
}

// RunDailyAccrual triggers the daily batch on demand, for external cron
// collaborators and manual replays after an outage.
// POST /accruals/run
func (h *LedgerHandler) RunDailyAccrual(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	var req RunAccrualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Date != "" {
		parsed, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
		asOf = parsed
	}

	summary, err := h.accruals.RunDailyAccrual(r.Context(), asOf)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, summary)
}

// ListPlans returns the investment plan catalog.
// GET /plans
func (h *LedgerHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, domain.Plans())
}
