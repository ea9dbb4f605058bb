package api

import (
	"log/slog"
	"net/http"

	"github.com/jkovac/artshow/internal/importer"
	"github.com/jkovac/artshow/internal/ledger"
	"github.com/jkovac/artshow/internal/model"
)

// AttendeesHandler handles the badge registration list.
type AttendeesHandler struct {
	Ledger   *ledger.Service
	Importer *importer.Service
}

// List handles GET /api/attendees.
func (h *AttendeesHandler) List(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.Ledger.Attendees(r.Context())
	if err != nil {
		slog.Error("failed to list attendees", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list attendees")
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	jsonResponse(w, http.StatusOK, attendees)
}

// Get handles GET /api/attendees/{badge}.
func (h *AttendeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	badge, ok := model.ParseInt(r.PathValue("badge"))
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid badge")
		return
	}

	attendee, err := h.Ledger.Attendee(r.Context(), badge)
	if err != nil {
		slog.Error("failed to get attendee", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get attendee")
		return
	}
	if attendee == nil {
		jsonError(w, http.StatusNotFound, "attendee not found")
		return
	}
	jsonResponse(w, http.StatusOK, attendee)
}

// ImportCSV handles POST /api/attendees/import, a CSV registration list
// with (badge, name) rows.
func (h *AttendeesHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	headerRow := r.FormValue("header_row") != "false"
	res, err := h.Importer.ImportAttendees(r.Context(), file, headerRow)
	if err != nil {
		slog.Error("failed to import attendees", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to import attendees")
		return
	}
	jsonResult(w, res)
}
