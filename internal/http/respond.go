package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jay6909/qkart-backend/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service error kinds to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	message := service.MessageOf(err)

	switch service.KindOf(err) {
	case service.KindNotFound:
		respondError(w, http.StatusNotFound, "not_found", message)
	case service.KindInvalidRequest:
		respondError(w, http.StatusBadRequest, "invalid_request", message)
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", message)
	}
}
