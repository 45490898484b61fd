package importcsv

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tracker/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/tracker/internal/http/transaction"
	"github.com/MrJamesThe3rd/tracker/internal/importer"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	ledgers txhttp.Ledgers
}

func NewHandler(ledgers txhttp.Ledgers) *Handler {
	return &Handler{ledgers: ledgers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importedTransaction struct {
	ID          int64            `json:"id"`
	Type        transaction.Type `json:"type"`
	Amount      string           `json:"amount"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
}

type importSuccessResponse struct {
	Profile      string                `json:"profile"`
	Charset      string                `json:"charset"`
	Imported     int                   `json:"imported"`
	Skipped      int                   `json:"skipped"`
	Persisted    bool                  `json:"persisted"`
	Transactions []importedTransaction `json:"transactions"`
}

type rowError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type importRejectedResponse struct {
	Error string              `json:"error"`
	Rows  map[string]rowError `json:"rows"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	parsed, err := importer.Parse(file)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	store, ok := txhttp.StoreFor(w, r, h.ledgers)
	if !ok {
		return
	}

	txs, err := store.AddBatch(r.Context(), parsed.Drafts)

	var batchErr *transaction.BatchError

	switch {
	case errors.As(err, &batchErr):
		respond.JSON(w, http.StatusUnprocessableEntity, toRejectedResponse(parsed.LineErrors(batchErr)))
		return
	case err != nil && !errors.Is(err, ledger.ErrNotPersisted):
		slog.Error("failed to import transactions", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	case err != nil:
		slog.Error("import kept in memory only", "count", len(txs), "ledger", store.Key(), "error", err)
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Profile:      parsed.Profile,
		Charset:      parsed.Charset,
		Imported:     len(txs),
		Skipped:      parsed.Skipped,
		Persisted:    err == nil,
		Transactions: toImported(txs),
	})
}

func toImported(txs []transaction.Transaction) []importedTransaction {
	out := make([]importedTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, importedTransaction{
			ID:          tx.ID,
			Type:        tx.Type,
			Amount:      tx.Amount.String(),
			Description: tx.Description,
			Date:        tx.Date.Format(time.DateOnly),
		})
	}

	return out
}

// toRejectedResponse keys row errors by the file line of the rejected row.
func toRejectedResponse(lines map[int]*transaction.ValidationError) importRejectedResponse {
	rows := make(map[string]rowError, len(lines))
	for line, verr := range lines {
		rows[strconv.Itoa(line)] = rowError{Field: verr.Field, Error: verr.Err.Error()}
	}

	return importRejectedResponse{Error: "import rejected, no transactions were added", Rows: rows}
}
