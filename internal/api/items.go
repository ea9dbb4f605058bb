package api

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jkovac/artshow/internal/imaging"
	"github.com/jkovac/artshow/internal/ledger"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/session"
	"github.com/jkovac/artshow/internal/store"
)

// ItemsHandler handles item registration and lifecycle endpoints.
type ItemsHandler struct {
	Ledger   *ledger.Service
	Sessions *session.Store
}

type createItemRequest struct {
	Owner         string `json:"owner"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Medium        string `json:"medium"`
	Note          string `json:"note"`
	InitialAmount string `json:"initial_amount"`
	Charity       string `json:"charity"`
	ImportNumber  string `json:"import_number"`
}

type createItemResponse struct {
	Code   string       `json:"code,omitempty"`
	Result model.Result `json:"result"`
}

// listFilter builds an item filter from list query parameters.
func listFilter(r *http.Request) (store.ItemFilter, bool) {
	var f store.ItemFilter
	q := r.URL.Query()

	if states := q.Get("state"); states != "" {
		for _, s := range strings.Split(states, ",") {
			state := model.State(strings.TrimSpace(s))
			if !state.Valid() {
				return f, false
			}
			f.States = append(f.States, state)
		}
	}
	if owner := q.Get("owner"); owner != "" {
		n, ok := model.ParseInt(owner)
		if !ok {
			return f, false
		}
		f.Owner = &n
	}
	if buyer := q.Get("buyer"); buyer != "" {
		n, ok := model.ParseInt(buyer)
		if !ok {
			return f, false
		}
		f.Buyer = &n
	}
	if author := q.Get("author"); author != "" {
		f.Author = &author
	}
	if title := q.Get("title"); title != "" {
		f.Title = &title
	}
	return f, true
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := listFilter(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid filter")
		return
	}

	items, err := h.Ledger.Query(r.Context(), f)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Closable handles GET /api/items/closable.
func (h *ItemsHandler) Closable(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledger.ClosableItems(r.Context())
	if err != nil {
		slog.Error("failed to list closable items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Deliverable handles GET /api/items/deliverable.
func (h *ItemsHandler) Deliverable(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledger.DeliverableItems(r.Context())
	if err != nil {
		slog.Error("failed to list deliverable items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, res, err := h.Ledger.AddItem(r.Context(), ledger.NewItem{
		Owner:         req.Owner,
		Title:         req.Title,
		Author:        req.Author,
		Medium:        req.Medium,
		Note:          req.Note,
		InitialAmount: req.InitialAmount,
		Charity:       req.Charity,
		ImportNumber:  req.ImportNumber,
	})
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	if res.OK() {
		h.Sessions.AppendAdded(GetSessionID(r.Context()), code)
		jsonResponse(w, http.StatusCreated, createItemResponse{Code: code, Result: res})
		return
	}
	jsonResponse(w, resultStatus(res), createItemResponse{Result: res})
}

// Get handles GET /api/items/{code}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Ledger.Item(r.Context(), r.PathValue("code"))
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{code}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ledger.ItemUpdate
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Ledger.UpdateItem(r.Context(), r.PathValue("code"), req)
	if err != nil {
		slog.Error("failed to update item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	jsonResult(w, res)
}

// Delete handles DELETE /api/items/{code}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	n, err := h.Ledger.DeleteItems(r.Context(), []string{code})
	if err != nil {
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if n == 0 {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	slog.Info("item deleted", "code", code)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// GetImage handles GET /api/items/{code}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := h.Ledger.ItemImage(r.Context(), r.PathValue("code"))
	if err != nil {
		slog.Error("failed to get item image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "item has no image")
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// UploadImage handles PUT /api/items/{code}/image. The body is the raw
// image; only JPEG is accepted.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	item, err := h.Ledger.Item(r.Context(), code)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	body := http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	res, err := h.Ledger.AttachItemImage(r.Context(), code, data)
	if err != nil {
		slog.Error("failed to store item image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	jsonResult(w, res)
}

// Added handles GET /api/items/added, the items registered in this
// workstation session.
func (h *ItemsHandler) Added(w http.ResponseWriter, r *http.Request) {
	codes := h.Sessions.Added(GetSessionID(r.Context()))
	items, err := h.Ledger.Items(r.Context(), codes)
	if err != nil {
		slog.Error("failed to list added items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// ClearAdded handles DELETE /api/items/added.
func (h *ItemsHandler) ClearAdded(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearAdded(GetSessionID(r.Context()))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "cleared"})
}
