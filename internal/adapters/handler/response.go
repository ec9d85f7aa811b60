package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Amount accepts a JSON string or number. Whatever it holds is parsed
// leniently by domain.ParseAmount.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Base().Error("failed to encode response", "error", err)
	}
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrOrderAlreadyDecided):
		return http.StatusConflict
	case domain.IsDomainError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.FromCtx(r.Context()).Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
