// Package handlers exposes the ledger operations as a JSON API. It is the
// transport for the presentation layer: amounts arrive as non-negative
// cent magnitudes with a deposit/withdraw flag, and the sign rule is
// applied here before anything reaches the store.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"mybudget/internal/models"
	"mybudget/internal/session"
	"mybudget/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Handlers holds dependencies for the HTTP handlers.
type Handlers struct {
	coord    *session.Coordinator
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(coord *session.Coordinator, log zerolog.Logger) *Handlers {
	return &Handlers{
		coord:    coord,
		validate: validator.New(),
		log:      log,
	}
}

// Routes mounts every API route.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/accounts", h.ListAccounts)
		r.Post("/accounts", h.CreateAccount)
		r.Put("/accounts/{id}", h.ModifyAccount)
		r.Delete("/accounts/{id}", h.DeleteAccount)
		r.Get("/accounts/{id}/transactions", h.ListTransactions)
		r.Post("/accounts/{id}/transactions", h.CreateTransaction)
		r.Delete("/accounts/{id}/transactions/{txnID}", h.DeleteTransaction)
		r.Get("/accounts/{id}/summary", h.MonthlySummary)
		r.Get("/accounts/{id}/statistics", h.Statistics)
		r.Post("/transfers", h.CreateTransfer)
	})
	return r
}

// CreateAccountRequest is the payload for POST /api/accounts. Monetary
// fields are integer cents; the caller converts decimal input beforehand.
// At most one of the two parameter blocks may be present.
type CreateAccountRequest struct {
	Name      string                  `json:"account_name" validate:"required"`
	Kind      string                  `json:"account_type" validate:"required"`
	Balance   int64                   `json:"money_amount"`
	IsAsset   *bool                   `json:"is_asset"`
	Asset     *models.AssetParams     `json:"asset_params"`
	Liability *models.LiabilityParams `json:"liability_params"`
}

// CreateAccount creates an account and returns the refreshed wallet entry.
func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Asset != nil && req.Liability != nil {
		h.respondError(w, http.StatusBadRequest, "account may carry an asset or a liability parameter block, not both")
		return
	}

	kind := models.ParseAccountKind(req.Kind)
	isAsset := kind.IsAsset()
	if req.IsAsset != nil {
		isAsset = *req.IsAsset
	}

	var account *models.Account
	switch {
	case req.Asset != nil:
		account = models.NewAssetAccount(req.Name, kind, req.Balance, isAsset, *req.Asset)
	case req.Liability != nil:
		account = models.NewLiabilityAccount(req.Name, kind, req.Balance, isAsset, *req.Liability)
	default:
		account = models.NewAccount(req.Name, kind, req.Balance, isAsset)
	}

	if err := h.coord.CreateAccount(account); err != nil {
		h.respondStoreError(w, "create account", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, h.walletEntry(account.ID()))
}

// ModifyAccountRequest is the payload for PUT /api/accounts/{id}. Every
// field overwrites the stored value; there is no merge. Params carries the
// full parameter column set, of which the asset kinds only use the
// rate/compounding pair.
type ModifyAccountRequest struct {
	Name    string                 `json:"account_name" validate:"required"`
	Kind    string                 `json:"account_type" validate:"required"`
	Balance int64                  `json:"money_amount"`
	Params  models.LiabilityParams `json:"params"`
}

// ModifyAccount replaces an account's fields wholesale.
func (h *Handlers) ModifyAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req ModifyAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.coord.ModifyAccount(id, req.Name, models.ParseAccountKind(req.Kind), req.Balance, req.Params); err != nil {
		h.respondStoreError(w, "modify account", err)
		return
	}
	h.respondJSON(w, http.StatusOK, h.walletEntry(id))
}

// DeleteAccount removes an account and all its transactions. Idempotent:
// unknown ids still return 204.
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.coord.DeleteAccount(id); err != nil {
		h.respondStoreError(w, "delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAccounts returns the wallet snapshot.
func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.coord.Wallet())
}

// ListTransactions returns the full history for one account, oldest first.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	transactions, err := h.coord.GetTransactions(id)
	if err != nil {
		h.respondStoreError(w, "list transactions", err)
		return
	}
	h.respondJSON(w, http.StatusOK, transactions)
}

// CreateTransactionRequest is the payload for
// POST /api/accounts/{id}/transactions. Amount is a non-negative magnitude
// in cents; IsDeposit picks the direction and the account's asset flag
// picks the sign.
type CreateTransactionRequest struct {
	Amount    int64  `json:"amount" validate:"gte=0"`
	IsDeposit bool   `json:"is_deposit"`
	Kind      string `json:"transaction_type" validate:"required"`
	Category  string `json:"category"`
	Name      string `json:"transaction_name" validate:"required"`
	Note      string `json:"note"`
	Date      int64  `json:"transaction_date"`
}

// CreateTransaction writes one ledger entry. The balance snapshots are
// computed from the wallet (the same state the form sees), and the store
// trusts them.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req CreateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	rec := h.walletEntry(id)
	if rec == nil {
		h.respondError(w, http.StatusNotFound, "account not found")
		return
	}

	previous := rec.Balance
	next := models.BalanceAfter(previous, req.Amount, req.IsDeposit, rec.IsAsset)

	t := &models.Transaction{
		Amount:         next - previous,
		Kind:           models.ParseTransactionKind(req.Kind),
		NeedCategory:   models.NeedOther,
		WantCategory:   models.WantOther,
		PreviousAmount: previous,
		NewAmount:      next,
		Date:           req.Date,
		Name:           req.Name,
		Note:           req.Note,
	}
	if t.Date == 0 {
		t.Date = time.Now().Unix()
	}
	t.SetCategory(req.Category)

	if err := h.coord.CreateTransaction(id, t); err != nil {
		h.respondStoreError(w, "create transaction", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, t)
}

// DeleteTransaction removes one ledger entry; the account balance is
// recomputed from the remaining history. Idempotent on unknown ids.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	txnID, ok := h.pathID(w, r, "txnID")
	if !ok {
		return
	}
	if err := h.coord.DeleteTransaction(txnID, accountID); err != nil {
		h.respondStoreError(w, "delete transaction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransferRequest is the payload for POST /api/transfers. Amount is a
// magnitude in cents; both accounts' balances are re-read by the store, so
// no snapshots are supplied here.
type TransferRequest struct {
	FromID int64  `json:"from_account_id" validate:"required"`
	ToID   int64  `json:"to_account_id" validate:"required"`
	Amount int64  `json:"amount" validate:"gte=0"`
	Name   string `json:"transaction_name" validate:"required"`
	Note   string `json:"note"`
	Date   int64  `json:"transaction_date"`
}

// TransferResponse returns the two rows written by an internal transfer.
type TransferResponse struct {
	From *models.Transaction `json:"from"`
	To   *models.Transaction `json:"to"`
}

// CreateTransfer moves money between two accounts atomically.
func (h *Handlers) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.FromID == req.ToID {
		h.respondError(w, http.StatusBadRequest, "transfer requires two distinct accounts")
		return
	}

	template := &models.Transaction{
		Amount: req.Amount,
		Kind:   models.InternalTransfer,
		Date:   req.Date,
		Name:   req.Name,
		Note:   req.Note,
	}
	if template.Date == 0 {
		template.Date = time.Now().Unix()
	}

	from, to, err := h.coord.CreateInternalTransfer(req.FromID, req.ToID, template)
	if err != nil {
		h.respondStoreError(w, "create transfer", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, TransferResponse{From: from, To: to})
}

// SummaryResponse is a monthly summary with display-formatted amounts.
type SummaryResponse struct {
	storage.Summary
	MoneyInDisplay        string `json:"money_in_display"`
	MoneyOutDisplay       string `json:"money_out_display"`
	MoneyRemainingDisplay string `json:"money_remaining_display"`
}

// MonthlySummary aggregates the account's transactions with
// transaction_date in [start, end), both unix seconds.
func (h *Handlers) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	start, err := strconv.ParseInt(r.URL.Query().Get("start"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid start timestamp")
		return
	}
	end, err := strconv.ParseInt(r.URL.Query().Get("end"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid end timestamp")
		return
	}

	summary, err := h.coord.GetMonthlySummary(id, start, end)
	if err != nil {
		h.respondStoreError(w, "monthly summary", err)
		return
	}
	h.respondJSON(w, http.StatusOK, SummaryResponse{
		Summary:               summary,
		MoneyInDisplay:        models.FormatCents(summary.MoneyIn),
		MoneyOutDisplay:       models.FormatCents(summary.MoneyOut),
		MoneyRemainingDisplay: models.FormatCents(summary.MoneyRemaining),
	})
}

// walletEntry returns the snapshot record for an account id, or nil.
func (h *Handlers) walletEntry(id int64) *models.AccountRecord {
	wallet := h.coord.Wallet()
	for i := range wallet {
		if wallet[i].ID == id {
			return &wallet[i]
		}
	}
	return nil
}

func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handlers) respondStoreError(w http.ResponseWriter, op string, err error) {
	h.log.Error().Err(err).Str("op", op).Msg("store operation failed")
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrUnavailable):
		h.respondError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("encode response")
	}
}
