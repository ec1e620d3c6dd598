package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vedran77/lawnpool/internal/domain"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps a service error to its status code. Anything that is
// not a domain error is logged and reported as a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if len(derr.Fields) > 0 {
		writeJSON(w, status, map[string]any{"error": derr.Message, "fields": derr.Fields})
		return
	}
	writeError(w, status, derr.Message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
