// Package handlers exposes the workflow over a small JSON API.
package handlers

import (
	"encoding/json"
	"net/http"

	"chronolens/internal/infra"
	"chronolens/internal/infra/credentials"
	"chronolens/internal/infra/geoip"
	"chronolens/internal/session"
)

// App is the handler container: collaborators are injected once at boot.
type App struct {
	Logger   infra.Logger
	Sessions *session.Manager
	Creds    *credentials.Store
	GeoIP    geoip.ViewportHinter
	AppEnv   string
}

// NewApp wires the handler container.
func NewApp(logger infra.Logger, sessions *session.Manager, creds *credentials.Store, hinter geoip.ViewportHinter, appEnv string) *App {
	return &App{Logger: logger, Sessions: sessions, Creds: creds, GeoIP: hinter, AppEnv: appEnv}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
