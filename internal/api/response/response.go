// Package response writes JSON bodies and the API's error envelope.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rirwin/stock-analysis/internal/logger"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with status. A nil data writes only the status.
// Decimal amounts serialize as strings, so no precision is lost in transit.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Named("http").Errorw("failed to encode JSON response", "status", status, "error", err)
	}
}

// RespondError writes an ErrorResponse. details may be a string, a validation
// field map, or nil.
//
//	response.RespondError(w, http.StatusBadRequest, "invalid order batch", err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
