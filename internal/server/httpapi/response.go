package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps service errors onto HTTP statuses. Every refresh-token
// failure collapses into one generic 400 so callers cannot probe which
// tokens exist, are expired, or were replayed.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, common.ErrInvalidRefreshToken),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrRefreshTokenReuse):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid refresh token"})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrorForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, common.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrorValidation
	}
	return nil
}
