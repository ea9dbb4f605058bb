package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jkovac/artshow/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// resultStatus maps an operation result to an HTTP status code.
func resultStatus(res model.Result) int {
	switch res {
	case model.ResultSuccess, model.ResultSuccessRenumbered, model.ResultNothingToUpdate:
		return http.StatusOK
	case model.ResultItemNotFound, model.ResultNoImage, model.ResultNoImport, model.ResultNoItemToAuction:
		return http.StatusNotFound
	case model.ResultDuplicateItem, model.ResultDuplicateImportNumber,
		model.ResultItemNotClosable, model.ResultItemClosedAlready,
		model.ResultInvalidChecksum:
		return http.StatusConflict
	case model.ResultError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// jsonResult writes an operation result with its mapped status code.
func jsonResult(w http.ResponseWriter, res model.Result) {
	jsonResponse(w, resultStatus(res), map[string]model.Result{"result": res})
}
