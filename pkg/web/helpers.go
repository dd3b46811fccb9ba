package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeHAL  = "application/hal+json"
)

// RespondJSON writes payload as application/json. A nil payload writes the status only.
func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	RespondWithContentType(w, logger, status, ContentTypeJSON, payload)
}

// RespondWithContentType writes payload encoded as JSON under the given content type.
func RespondWithContentType(w http.ResponseWriter, logger *slog.Logger, status int, contentType string, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// RespondValidationErrors writes field errors as {"validation_errors": {...}} with 400.
func RespondValidationErrors(w http.ResponseWriter, logger *slog.Logger, fieldErrors map[string]string) {
	RespondJSON(w, logger, http.StatusBadRequest, map[string]any{"validation_errors": fieldErrors})
}

// DecodeJSON decodes the request body into dst. Writes 400 and returns false on malformed input.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
