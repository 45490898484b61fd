package summary

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tracker/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/tracker/internal/http/transaction"
	"github.com/MrJamesThe3rd/tracker/internal/summary"
)

type Handler struct {
	ledgers  txhttp.Ledgers
	currency string
}

func NewHandler(ledgers txhttp.Ledgers, currency string) *Handler {
	return &Handler{ledgers: ledgers, currency: currency}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type formattedTotals struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

type summaryResponse struct {
	Income    string          `json:"income"`
	Expenses  string          `json:"expenses"`
	Net       string          `json:"net"`
	Count     int             `json:"count"`
	Currency  string          `json:"currency"`
	Formatted formattedTotals `json:"formatted"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	filter, err := txhttp.ParseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	store, ok := txhttp.StoreFor(w, r, h.ledgers)
	if !ok {
		return
	}

	totals := summary.Compute(filter.Apply(store.List()))

	respond.JSON(w, http.StatusOK, summaryResponse{
		Income:   totals.Income.StringFixed(2),
		Expenses: totals.Expenses.StringFixed(2),
		Net:      totals.Net.StringFixed(2),
		Count:    totals.Count,
		Currency: h.currency,
		Formatted: formattedTotals{
			Income:   summary.Format(totals.Income, h.currency),
			Expenses: summary.Format(totals.Expenses, h.currency),
			Net:      summary.Format(totals.Net, h.currency),
		},
	})
}
