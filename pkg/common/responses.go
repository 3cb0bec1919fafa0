package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "universe-backend/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondErrorWithDetails(w, status, code, message, nil)
}

// RespondErrorWithDetails sends an error response with additional details
func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondAppError maps a domain error onto the wire format. Unknown errors
// become opaque 500s so internals never leak to clients.
func RespondAppError(w http.ResponseWriter, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		RespondErrorWithDetails(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message, appErr.Details)
		return
	}
	RespondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}

// ExtractRequestID extracts the request ID from the request headers
func ExtractRequestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return r.Header.Get("X-Amzn-Trace-Id")
}
