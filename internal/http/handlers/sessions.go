package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chronolens/internal/compose"
	"chronolens/internal/geo"
	"chronolens/internal/imagegen"
	"chronolens/internal/session"
)

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type poiRequest struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type generateRequest struct {
	Era          string `json:"era"`
	Year         string `json:"year"`
	Style        string `json:"style"`
	CustomPrompt string `json:"customPrompt"`
	Photo        string `json:"photo"` // base64-encoded reference photo
	PhotoMIME    string `json:"photoMime"`
}

// SessionCreate registers a new workflow session.
func (a *App) SessionCreate(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Create()
	a.json(w, http.StatusCreated, s.Snapshot())
}

// SessionGet returns the observable workflow state; clients poll it while
// resolution or generation is in flight.
func (a *App) SessionGet(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, s.Snapshot())
}

// SessionSelectLocation starts a resolution cycle at clicked coordinates.
func (a *App) SessionSelectLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if !a.Creds.Ready() {
		a.error(w, http.StatusConflict, "credential_not_ready", "set an API key before selecting a location")
		return
	}
	a.runAsync(r, s, "select location", func(ctx context.Context) error {
		return s.SelectLocation(ctx, geo.Coordinates{Lat: req.Lat, Lng: req.Lng})
	})
	a.json(w, http.StatusAccepted, s.Snapshot())
}

// SessionSelectPOI restarts resolution at one of the suggested nearby places.
func (a *App) SessionSelectPOI(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var req poiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if !a.Creds.Ready() {
		a.error(w, http.StatusConflict, "credential_not_ready", "set an API key before selecting a location")
		return
	}
	a.runAsync(r, s, "select poi", func(ctx context.Context) error {
		return s.SelectPOI(ctx, geo.PointOfInterest{Name: req.Name, Lat: req.Lat, Lng: req.Lng})
	})
	a.json(w, http.StatusAccepted, s.Snapshot())
}

// SessionOverride accepts the exact clicked spot despite a vague
// classification.
func (a *App) SessionOverride(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := s.OverrideVague(); err != nil {
		a.error(w, http.StatusConflict, "conflict", err.Error())
		return
	}
	a.json(w, http.StatusOK, s.Snapshot())
}

// SessionGenerate starts the sequential shot-variation loop.
func (a *App) SessionGenerate(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	era, err := compose.ParseEra(req.Era)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	style, err := compose.ParseStyle(req.Style)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	photoBytes, err := base64.StdEncoding.DecodeString(req.Photo)
	if err != nil || len(photoBytes) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "photo must be non-empty base64")
		return
	}

	params := session.GenerateParams{
		Era:          era,
		Year:         req.Year,
		Style:        style,
		CustomPrompt: req.CustomPrompt,
	}
	photo := imagegen.ReferencePhoto{Data: photoBytes, MIME: req.PhotoMIME}
	a.runAsync(r, s, "generate", func(ctx context.Context) error {
		return s.Generate(ctx, params, photo)
	})
	a.json(w, http.StatusAccepted, s.Snapshot())
}

// SessionRegenerate re-runs the variation loop with the stored parameters.
func (a *App) SessionRegenerate(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	a.runAsync(r, s, "regenerate", func(ctx context.Context) error {
		return s.Regenerate(ctx)
	})
	a.json(w, http.StatusAccepted, s.Snapshot())
}

// SessionReset returns the session to idle.
func (a *App) SessionReset(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	s.Reset()
	a.json(w, http.StatusOK, s.Snapshot())
}

func (a *App) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id required")
		return nil, false
	}
	s, ok := a.Sessions.Get(id)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return nil, false
	}
	return s, true
}

// runAsync executes a workflow operation on its own goroutine so the handler
// can answer 202 immediately; clients observe progress by polling the
// snapshot. The context is detached from the request so the operation
// survives the response being written.
func (a *App) runAsync(r *http.Request, s *session.Session, action string, op func(ctx context.Context) error) {
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := op(ctx); err != nil && !isExpectedWorkflowError(err) {
			a.Logger.Warn().Err(err).Str("session_id", s.ID()).Str("action", action).Msg("api: workflow operation failed")
		}
	}()
}

// isExpectedWorkflowError filters the validation no-ops that already show up
// in the snapshot so the log is not littered with them.
func isExpectedWorkflowError(err error) bool {
	return errors.Is(err, session.ErrBusy) ||
		errors.Is(err, session.ErrCredentialNotReady) ||
		errors.Is(err, session.ErrVagueLocation) ||
		errors.Is(err, session.ErrNotReadyToGenerate) ||
		errors.Is(err, session.ErrNoStoredParams)
}
