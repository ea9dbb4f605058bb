package api

import (
	"log/slog"
	"net/http"

	"github.com/jkovac/artshow/internal/ledger"
	"github.com/jkovac/artshow/internal/model"
)

// AuctionHandler handles the live auction endpoints.
type AuctionHandler struct {
	Ledger *ledger.Service
}

type auctionAmountRequest struct {
	Amount string `json:"amount"`
}

type auctionBuyerRequest struct {
	Buyer string `json:"buyer"`
}

// List handles GET /api/auction/items, the auction queue in calling
// order.
func (h *AuctionHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledger.AuctionItems(r.Context())
	if err != nil {
		slog.Error("failed to list auction items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list auction items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Current handles GET /api/auction/current.
func (h *AuctionHandler) Current(w http.ResponseWriter, r *http.Request) {
	item, err := h.Ledger.ItemInAuction(r.Context())
	if err != nil {
		slog.Error("failed to get auction item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get auction item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "no item on the block")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Send handles POST /api/auction/items/{code}, putting an item on the
// block.
func (h *AuctionHandler) Send(w http.ResponseWriter, r *http.Request) {
	res, err := h.Ledger.SendItemToAuction(r.Context(), r.PathValue("code"))
	if err != nil {
		slog.Error("failed to send item to auction", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to send item to auction")
		return
	}
	jsonResult(w, res)
}

// UpdateAmount handles PUT /api/auction/current/amount, recording a bid.
func (h *AuctionHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	var req auctionAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Ledger.UpdateItemInAuction(r.Context(), req.Amount)
	if err != nil {
		slog.Error("failed to update auction bid", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update bid")
		return
	}
	jsonResult(w, res)
}

// Sell handles POST /api/auction/current/sell.
func (h *AuctionHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req auctionBuyerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Ledger.SellItemInAuction(r.Context(), req.Buyer)
	if err != nil {
		slog.Error("failed to sell auction item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to sell item")
		return
	}
	jsonResult(w, res)
}

// SellNoChange handles POST /api/auction/current/sell-no-change,
// hammering the item down to its original buyer.
func (h *AuctionHandler) SellNoChange(w http.ResponseWriter, r *http.Request) {
	res, err := h.Ledger.SellItemInAuctionNoChange(r.Context())
	if err != nil {
		slog.Error("failed to sell auction item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to sell item")
		return
	}
	jsonResult(w, res)
}

// Clear handles DELETE /api/auction/current.
func (h *AuctionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.ClearAuction(r.Context()); err != nil {
		slog.Error("failed to clear auction", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to clear auction")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "auction cleared"})
}
