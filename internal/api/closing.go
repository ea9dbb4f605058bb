package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/jkovac/artshow/internal/imaging"
	"github.com/jkovac/artshow/internal/ledger"
)

// ClosingHandler handles sale-closing endpoints.
type ClosingHandler struct {
	Ledger *ledger.Service
}

type closeSoldRequest struct {
	Amount string `json:"amount"`
	Buyer  string `json:"buyer"`
}

// CloseUnsold handles POST /api/items/{code}/close/unsold.
func (h *ClosingHandler) CloseUnsold(w http.ResponseWriter, r *http.Request) {
	res, err := h.Ledger.CloseItemAsNotSold(r.Context(), r.PathValue("code"))
	if err != nil {
		slog.Error("failed to close item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to close item")
		return
	}
	jsonResult(w, res)
}

// CloseSold handles POST /api/items/{code}/close/sold.
func (h *ClosingHandler) CloseSold(w http.ResponseWriter, r *http.Request) {
	var req closeSoldRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Ledger.CloseItemAsSold(r.Context(), r.PathValue("code"), req.Amount, req.Buyer)
	if err != nil {
		slog.Error("failed to close item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to close item")
		return
	}
	jsonResult(w, res)
}

// CloseIntoAuction handles POST /api/items/{code}/close/auction. The
// request is multipart: amount and buyer fields plus an optional photo
// part for the auction display.
func (h *ClosingHandler) CloseIntoAuction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var photo []byte
	if file, _, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		photo, err = io.ReadAll(io.LimitReader(file, imaging.MaxUploadBytes))
		if err != nil {
			jsonError(w, http.StatusBadRequest, "failed to read photo")
			return
		}
	}

	res, err := h.Ledger.CloseItemIntoAuction(r.Context(), r.PathValue("code"),
		r.FormValue("amount"), r.FormValue("buyer"), photo)
	if err != nil {
		slog.Error("failed to close item into auction", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to close item")
		return
	}
	jsonResult(w, res)
}
