package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/refresh"
	"awardpool-engine/internal/snapshot"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeDomainError maps package sentinels onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, snapshot.ErrNoDataset):
		WriteError(w, r, http.StatusNotFound, "no_dataset", err.Error())
	case errors.Is(err, domain.ErrInvalidUsername):
		WriteError(w, r, http.StatusBadRequest, "invalid_username", err.Error())
	case errors.Is(err, domain.ErrNoPicks):
		WriteError(w, r, http.StatusBadRequest, "no_picks", err.Error())
	case errors.Is(err, domain.ErrVotingClosed):
		WriteError(w, r, http.StatusForbidden, "voting_closed", err.Error())
	case errors.Is(err, refresh.ErrRunning):
		WriteError(w, r, http.StatusConflict, "refresh_running", err.Error())
	case errors.Is(err, domain.ErrNoCategories):
		WriteError(w, r, http.StatusBadGateway, "no_categories", err.Error())
	case errors.Is(err, domain.ErrSourceUnavailable):
		WriteError(w, r, http.StatusBadGateway, "source_unavailable", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
