package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starford/vibecard/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
	Code  string `json:"code,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// domainError maps a card-flow error onto a status code and body.
// Decode failures are 422: the link is well-formed HTTP but carries no card.
func domainError(err error) (int, errResponse) {
	code := apperr.Code(err)
	switch {
	case apperr.IsDecodeFailure(err):
		return http.StatusUnprocessableEntity, errResponse{Error: err.Error(), Code: code}
	case code == "internal":
		return http.StatusInternalServerError, errResponse{Error: "internal error", Code: code}
	default:
		return http.StatusBadRequest, errResponse{Error: err.Error(), Code: code}
	}
}
