package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dangerclosesec/clinicore/internal/domain"
)

type ErrorResponse struct {
	Error   string             `json:"error"`
	Details *domain.StoreError `json:"details,omitempty"`
}

type BaseResponse struct {
	Ok bool `json:"ok"`
}

// statusForKind maps the failure taxonomy onto HTTP status codes.
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Sets content type header
	w.Header().Set("Content-Type", "application/json")

	// Sets the HTTP status code
	w.WriteHeader(code)

	// Encodes the response
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already written, nothing else can be sent
		return
	}
}
