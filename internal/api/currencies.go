package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/currency"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

// CurrenciesHandler handles the currency table and amount conversion.
type CurrenciesHandler struct {
	DB *sql.DB
}

type currencyResponse struct {
	Code            string `json:"code"`
	DecimalPlaces   int    `json:"decimal_places"`
	AmountInPrimary string `json:"amount_in_primary"`
	SortOrder       int    `json:"sort_order"`
}

type upsertCurrencyRequest struct {
	Code            string `json:"code"`
	DecimalPlaces   int    `json:"decimal_places"`
	AmountInPrimary string `json:"amount_in_primary"`
	SortOrder       int    `json:"sort_order"`
}

type convertedAmount struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// List handles GET /api/currencies.
func (h *CurrenciesHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := store.ListCurrencies(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list currencies", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list currencies")
		return
	}

	out := make([]currencyResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, currencyResponse{
			Code:            row.Code,
			DecimalPlaces:   row.DecimalPlaces,
			AmountInPrimary: row.AmountInPrimary.String(),
			SortOrder:       row.SortOrder,
		})
	}
	jsonResponse(w, http.StatusOK, out)
}

// Upsert handles PUT /api/currencies (admin only).
func (h *CurrenciesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertCurrencyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" || req.DecimalPlaces < 0 {
		jsonError(w, http.StatusBadRequest, "code and decimal places required")
		return
	}
	rate, err := decimal.NewFromString(req.AmountInPrimary)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid amount_in_primary")
		return
	}

	if err := store.UpsertCurrency(r.Context(), h.DB, store.CurrencyRow{
		Code:            req.Code,
		DecimalPlaces:   req.DecimalPlaces,
		AmountInPrimary: rate,
		SortOrder:       req.SortOrder,
	}); err != nil {
		slog.Error("failed to upsert currency", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save currency")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("currency updated", "user", claims.Username, "currency", req.Code)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "currency saved"})
}

// Convert handles GET /api/currencies/convert?amount=X, showing a
// primary-currency amount in every configured currency.
func (h *CurrenciesHandler) Convert(w http.ResponseWriter, r *http.Request) {
	amount, ok := model.ParseDecimal(r.URL.Query().Get("amount"))
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	conv, err := currency.Load(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to load currencies", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load currencies")
		return
	}

	var out []convertedAmount
	for _, a := range conv.Convert(amount) {
		out = append(out, convertedAmount{Currency: a.Currency, Amount: a.Amount.String()})
	}
	jsonResponse(w, http.StatusOK, out)
}
