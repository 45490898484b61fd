package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tracker/internal/http/auth"
	"github.com/MrJamesThe3rd/tracker/internal/http/respond"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

// Ledgers resolves the ledger owned by the caller.
type Ledgers interface {
	Store(ctx context.Context, owner string) (*ledger.Store, error)
}

// StoreFor resolves the caller's ledger, answering 503 when it cannot be
// loaded.
func StoreFor(w http.ResponseWriter, r *http.Request, ledgers Ledgers) (*ledger.Store, bool) {
	store, err := ledgers.Store(r.Context(), auth.Owner(r.Context()))
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		respond.Error(w, http.StatusServiceUnavailable, "ledger unavailable")

		return nil, false
	}

	return store, true
}

type Handler struct {
	ledgers Ledgers
}

func NewHandler(ledgers Ledgers) *Handler {
	return &Handler{ledgers: ledgers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

// amountText accepts an amount sent either as a JSON string or a number.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("amount must be a string or a number")
	}

	*a = amountText(n.String())

	return nil
}

type createTransactionRequest struct {
	Type        transaction.Type `json:"type"`
	Amount      amountText       `json:"amount"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	store, ok := StoreFor(w, r, h.ledgers)
	if !ok {
		return
	}

	tx, err := store.Add(r.Context(), transaction.Draft{
		Type:        req.Type,
		Amount:      string(req.Amount),
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil && !errors.Is(err, ledger.ErrNotPersisted) {
		writeValidationError(w, err)
		return
	}

	if err != nil {
		slog.Error("transaction kept in memory only", "id", tx.ID, "ledger", store.Key(), "error", err)
	}

	respond.JSON(w, http.StatusCreated, mutationResponse{
		transactionResponse: toResponse(tx),
		Persisted:           err == nil,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	store, ok := StoreFor(w, r, h.ledgers)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(filter.Apply(store.List())))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	store, ok := StoreFor(w, r, h.ledgers)
	if !ok {
		return
	}

	tx, err := store.Get(id)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "transaction not found")
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	store, ok := StoreFor(w, r, h.ledgers)
	if !ok {
		return
	}

	tx, err := store.Remove(r.Context(), id)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "transaction not found")
		return
	case err != nil && !errors.Is(err, ledger.ErrNotPersisted):
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	case err != nil:
		slog.Error("removal kept in memory only", "id", id, "ledger", store.Key(), "error", err)
	}

	respond.JSON(w, http.StatusOK, mutationResponse{
		transactionResponse: toResponse(tx),
		Persisted:           err == nil,
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *transaction.ValidationError
	if errors.As(err, &verr) {
		respond.FieldError(w, http.StatusUnprocessableEntity, verr.Field, verr.Err.Error())
		return
	}

	slog.Error("failed to add transaction", "error", err)
	respond.Error(w, http.StatusInternalServerError, "internal error")
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ParseFilter reads the type, start_date and end_date query parameters.
func ParseFilter(r *http.Request) (transaction.Filter, error) {
	var filter transaction.Filter

	q := r.URL.Query()

	if s := q.Get("type"); s != "" {
		typ := transaction.Type(s)
		if !typ.Valid() {
			return filter, fmt.Errorf("invalid type %q", s)
		}

		filter.Type = new(typ)
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date %q", s)
		}

		filter.StartDate = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date %q", s)
		}

		filter.EndDate = new(t)
	}

	return filter, nil
}
