package common

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the standard body for mutation acknowledgements
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard body for failed requests
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RespondJSON sends a JSON response with the given status code
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondMessage sends a plain acknowledgement message
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageResponse{Message: message})
}

// RespondError sends an error response. The detail string carries a textual
// summary only; internal error values never reach the client.
func RespondError(w http.ResponseWriter, status int, message string, detail string) {
	RespondJSON(w, status, ErrorResponse{Message: message, Error: detail})
}

// ParseJSONBody parses a JSON request body with a size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(v)
}
