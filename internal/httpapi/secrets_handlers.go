package httpapi

import (
	"encoding/json"
	"net/http"

	"awardpool-engine/internal/secrets"
)

type SecretsHandler struct{}

type setProxyTokenReq struct {
	Token string `json:"token"`
}

func (h SecretsHandler) SetProxyToken(w http.ResponseWriter, r *http.Request) {
	var req setProxyTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	if err := secrets.SetProxyToken(req.Token); err != nil {
		WriteError(w, r, http.StatusBadRequest, "store_failed", "failed to store token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteProxyToken(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteProxyToken(); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "delete_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
