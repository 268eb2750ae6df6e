package handlers

import (
	"net/http"

	"chronolens/internal/infra/geoip"
	"chronolens/internal/middleware"
)

type bootstrapResponse struct {
	Locale          string      `json:"locale"`
	CredentialReady bool        `json:"credentialReady"`
	Viewport        *geoip.Hint `json:"viewport,omitempty"`
}

// Bootstrap hands the UI what it needs before first render: the negotiated
// locale, whether a credential is already available, and a best-effort
// starting viewport derived from the client IP.
func (a *App) Bootstrap(w http.ResponseWriter, r *http.Request) {
	resp := bootstrapResponse{
		Locale:          middleware.LocaleFromContext(r.Context()),
		CredentialReady: a.Creds.Ready(),
	}
	if a.GeoIP != nil {
		if hint, err := a.GeoIP.Hint(middleware.ClientIP(r)); err == nil && hint.Located {
			resp.Viewport = &hint
		}
	}
	a.json(w, http.StatusOK, resp)
}
