package handlers

import (
	"encoding/json"
	"net/http"
)

type credentialStatusResponse struct {
	Ready bool   `json:"ready"`
	State string `json:"state"`
}

type credentialSetRequest struct {
	Key string `json:"key"`
}

// CredentialStatus reports the credential lifecycle state. The key itself is
// never echoed back.
func (a *App) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, credentialStatusResponse{
		Ready: a.Creds.Ready(),
		State: string(a.Creds.State()),
	})
}

// CredentialSet stores a client-supplied API key.
func (a *App) CredentialSet(w http.ResponseWriter, r *http.Request) {
	var req credentialSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Creds.Set(req.Key); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "api key is required")
		return
	}
	a.json(w, http.StatusOK, credentialStatusResponse{Ready: true, State: string(a.Creds.State())})
}

// CredentialClear drops the stored key so the client re-prompts for one.
func (a *App) CredentialClear(w http.ResponseWriter, r *http.Request) {
	a.Creds.Clear()
	a.json(w, http.StatusOK, credentialStatusResponse{Ready: false, State: string(a.Creds.State())})
}
