package api

import (
	"log/slog"
	"net/http"

	"github.com/jkovac/artshow/internal/importer"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/session"
)

// maxImportBytes caps an uploaded consignment sheet.
const maxImportBytes = 4 << 20

// ImportsHandler handles the two-step consignment import flow.
type ImportsHandler struct {
	Importer *importer.Service
	Sessions *session.Store
}

type importTextRequest struct {
	Text string `json:"text"`
}

type importResponse struct {
	Records      []model.ImportedItemRecord `json:"records"`
	Checksum     uint32                     `json:"checksum"`
	OwnerDefined bool                       `json:"owner_defined"`
}

type applyImportRequest struct {
	Checksum     string `json:"checksum"`
	DefaultOwner string `json:"default_owner"`
}

type applyImportResponse struct {
	Result     model.Result               `json:"result"`
	Skipped    []model.ImportedItemRecord `json:"skipped"`
	Renumbered []model.ImportedItemRecord `json:"renumbered"`
}

// ImportCSV handles POST /api/imports/csv. The request is multipart
// with a file part; the header_row form field defaults to true.
func (h *ImportsHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
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
	records, checksum, err := h.Importer.ImportCSV(GetSessionID(r.Context()), file, headerRow)
	if err != nil {
		slog.Error("failed to parse import", "error", err)
		jsonError(w, http.StatusBadRequest, "failed to parse CSV")
		return
	}

	jsonResponse(w, http.StatusOK, importResponse{
		Records:      records,
		Checksum:     checksum,
		OwnerDefined: importer.OwnerDefined(records),
	})
}

// ImportText handles POST /api/imports/text, the hand-typed tagged
// format.
func (h *ImportsHandler) ImportText(w http.ResponseWriter, r *http.Request) {
	var req importTextRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	records, checksum := h.Importer.ImportText(GetSessionID(r.Context()), req.Text)
	jsonResponse(w, http.StatusOK, importResponse{
		Records:      records,
		Checksum:     checksum,
		OwnerDefined: importer.OwnerDefined(records),
	})
}

// Apply handles POST /api/imports/apply.
func (h *ImportsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyImportRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, skipped, renumbered, err := h.Importer.Apply(r.Context(),
		GetSessionID(r.Context()), req.Checksum, req.DefaultOwner)
	if err != nil {
		slog.Error("failed to apply import", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to apply import")
		return
	}

	jsonResponse(w, resultStatus(res), applyImportResponse{
		Result:     res,
		Skipped:    skipped,
		Renumbered: renumbered,
	})
}

// Drop handles DELETE /api/imports, discarding the staged batch.
func (h *ImportsHandler) Drop(w http.ResponseWriter, r *http.Request) {
	h.Sessions.DropImport(GetSessionID(r.Context()))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "import dropped"})
}
