package rest

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// WriteError writes an ErrorResponse as JSON with the given status code.
func WriteError(w http.ResponseWriter, status int, errorMsg string, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: errorMsg, Details: details}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}
