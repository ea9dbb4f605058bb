package api

import (
	"log/slog"
	"net/http"

	"github.com/jkovac/artshow/internal/settle"
)

// SettlementHandler handles badge settlement and cash-drawer endpoints.
type SettlementHandler struct {
	Settle *settle.Service
}

// Drawer handles GET /api/settlement/drawer.
func (h *SettlementHandler) Drawer(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Settle.DrawerSummary(r.Context())
	if err != nil {
		slog.Error("failed to build drawer summary", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// BadgeSummary handles GET /api/settlement/badges/{badge}.
func (h *SettlementHandler) BadgeSummary(w http.ResponseWriter, r *http.Request) {
	summary, res, err := h.Settle.BadgeSummary(r.Context(), r.PathValue("badge"))
	if err != nil {
		slog.Error("failed to build badge summary", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	if summary == nil {
		jsonResult(w, res)
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// Reconciliate handles POST /api/settlement/badges/{badge}.
func (h *SettlementHandler) Reconciliate(w http.ResponseWriter, r *http.Request) {
	res, err := h.Settle.ReconciliateBadge(r.Context(), r.PathValue("badge"))
	if err != nil {
		slog.Error("failed to reconciliate badge", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to reconciliate badge")
		return
	}
	jsonResult(w, res)
}

// PotentialCharity handles GET /api/settlement/charity.
func (h *SettlementHandler) PotentialCharity(w http.ResponseWriter, r *http.Request) {
	amount, err := h.Settle.PotentialCharityAmount(r.Context())
	if err != nil {
		slog.Error("failed to compute charity amount", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute charity amount")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"amount": amount.String()})
}
