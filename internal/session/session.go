// Package session owns the per-client workflow state machine: location
// resolution, vague-location disambiguation, and the sequential multi-shot
// image generation loop.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"chronolens/internal/compose"
	"chronolens/internal/geo"
	"chronolens/internal/imagegen"
	"chronolens/internal/infra"
	"chronolens/internal/providers/gemini"
)

// TargetImageCount is how many shot variations one generation run produces.
const TargetImageCount = 2

var (
	// ErrCredentialNotReady gates location selection; without a ready key the
	// action is a no-op.
	ErrCredentialNotReady = errors.New("session: credential not ready")
	// ErrNotReadyToGenerate is returned when generation is requested outside
	// the ready/complete states.
	ErrNotReadyToGenerate = errors.New("session: not ready to generate")
	// ErrBusy is returned when an operation is requested while one is running.
	ErrBusy = errors.New("session: operation already in progress")
	// ErrVagueLocation blocks generation while disambiguation is pending.
	ErrVagueLocation = errors.New("session: location is vague, pick a nearby place or override")
	// ErrMissingPhoto is returned when generation is requested without a
	// reference photo.
	ErrMissingPhoto = errors.New("session: reference photo is required")
	// ErrNoStoredParams is returned when regenerate is requested before any
	// generation has stored its parameters.
	ErrNoStoredParams = errors.New("session: no stored generation parameters")
	// ErrNoLocation is returned when an action needs a resolved location.
	ErrNoLocation = errors.New("session: no location selected")
)

// Resolver turns coordinates into a LocationContext.
type Resolver interface {
	Resolve(ctx context.Context, apiKey string, coords geo.Coordinates) (*geo.LocationContext, error)
}

// Generator turns one composed instruction into a data-URI image.
type Generator interface {
	Generate(ctx context.Context, apiKey, instruction string, photo imagegen.ReferencePhoto) (string, error)
}

// CredentialSource exposes the credential lifecycle the workflow depends on.
type CredentialSource interface {
	Ready() bool
	Key() (string, error)
	Clear()
}

// Deps are the collaborators injected into every session.
type Deps struct {
	Resolver  Resolver
	Generator Generator
	Creds     CredentialSource
	Logger    infra.Logger
	// Timeout bounds each outbound workflow operation. Zero means no bound.
	Timeout time.Duration
}

// GenerateParams are the user-submitted generation inputs, stored so the
// regenerate action can re-run the loop unchanged.
type GenerateParams struct {
	Era          compose.Era
	Year         string
	Style        compose.Style
	CustomPrompt string
}

// GeneratedImage is one accumulated result, in call order.
type GeneratedImage struct {
	DataURI   string `json:"dataUri"`
	Prompt    string `json:"prompt"`
	Variation string `json:"variation"`
}

// Session is the workflow orchestrator for one client. All state is guarded
// by the mutex; the epoch counter rises on every new location selection and
// reset so late-arriving results from a superseded cycle are dropped instead
// of overwriting newer state.
type Session struct {
	deps Deps

	mu        sync.Mutex
	id        string
	createdAt time.Time
	lastSeen  time.Time
	epoch     uint64

	status   Status
	coords   *geo.Coordinates
	location *geo.LocationContext
	override bool
	images   []GeneratedImage
	errMsg   string
	params   *GenerateParams
	photo    *imagegen.ReferencePhoto
}

func newSession(id string, deps Deps) *Session {
	now := time.Now()
	return &Session{
		deps:      deps,
		id:        id,
		createdAt: now,
		lastSeen:  now,
		status:    StatusIdle,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SelectLocation starts a new resolution cycle at the given coordinates. It
// blocks until the resolver answers; callers that need asynchrony run it on
// their own goroutine. Selecting a location clears prior images, context and
// error, and resets the vague override.
func (s *Session) SelectLocation(ctx context.Context, coords geo.Coordinates) error {
	if !s.deps.Creds.Ready() {
		return ErrCredentialNotReady
	}
	key, err := s.deps.Creds.Key()
	if err != nil {
		return ErrCredentialNotReady
	}

	s.mu.Lock()
	if s.status == StatusGenerating {
		s.mu.Unlock()
		return ErrBusy
	}
	s.epoch++
	epoch := s.epoch
	s.status = StatusAnalyzing
	s.coords = &coords
	s.location = nil
	s.override = false
	s.images = nil
	s.errMsg = ""
	s.params = nil
	s.photo = nil
	s.touchLocked()
	s.mu.Unlock()

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	loc, err := s.deps.Resolver.Resolve(ctx, key, coords)
	if err != nil {
		s.fail(epoch, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// A newer selection superseded this cycle while it was in flight.
		return nil
	}
	s.location = loc
	s.status = StatusReady
	s.touchLocked()
	return nil
}

// SelectPOI restarts resolution at a nearby point of interest. This is a full
// cycle, not a shortcut: the POI's coordinates go through the resolver again.
func (s *Session) SelectPOI(ctx context.Context, poi geo.PointOfInterest) error {
	return s.SelectLocation(ctx, poi.Coordinates())
}

// OverrideVague accepts the exact clicked spot despite a vague
// classification. The override lasts until the next location selection.
func (s *Session) OverrideVague() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.location == nil {
		return ErrNoLocation
	}
	s.override = true
	s.touchLocked()
	return nil
}

// Generate runs the sequential shot-variation loop with fresh parameters.
// Results are appended one by one and remain visible if a later variation
// fails.
func (s *Session) Generate(ctx context.Context, params GenerateParams, photo imagegen.ReferencePhoto) error {
	if len(photo.Data) == 0 {
		return ErrMissingPhoto
	}

	s.mu.Lock()
	if s.status == StatusGenerating || s.status == StatusAnalyzing {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.status != StatusReady && s.status != StatusComplete {
		s.mu.Unlock()
		return ErrNotReadyToGenerate
	}
	if NeedsDisambiguation(s.location, s.override, len(s.images)) {
		s.mu.Unlock()
		return ErrVagueLocation
	}
	s.params = &params
	s.photo = &photo
	epoch := s.epoch
	s.status = StatusGenerating
	s.images = nil
	s.errMsg = ""
	s.touchLocked()
	s.mu.Unlock()

	return s.runGeneration(ctx, epoch)
}

// Regenerate re-runs the variation loop with the stored parameters, clearing
// prior images first. Available after a completed run and after a generation
// failure.
func (s *Session) Regenerate(ctx context.Context) error {
	s.mu.Lock()
	if s.status == StatusGenerating || s.status == StatusAnalyzing {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.params == nil || s.photo == nil {
		s.mu.Unlock()
		return ErrNoStoredParams
	}
	if s.location == nil {
		s.mu.Unlock()
		return ErrNoLocation
	}
	epoch := s.epoch
	s.status = StatusGenerating
	s.images = nil
	s.errMsg = ""
	s.touchLocked()
	s.mu.Unlock()

	return s.runGeneration(ctx, epoch)
}

func (s *Session) runGeneration(ctx context.Context, epoch uint64) error {
	key, err := s.deps.Creds.Key()
	if err != nil {
		s.fail(epoch, ErrCredentialNotReady)
		return ErrCredentialNotReady
	}

	s.mu.Lock()
	loc := s.location
	coords := s.coords
	params := s.params
	photo := s.photo
	s.mu.Unlock()
	if loc == nil || coords == nil || params == nil || photo == nil {
		s.fail(epoch, ErrNoLocation)
		return ErrNoLocation
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	for i := 0; i < TargetImageCount; i++ {
		variation := compose.ShotVariations[i%len(compose.ShotVariations)]
		instruction := compose.Build(loc, *coords, compose.Params{
			Era:          params.Era,
			Year:         params.Year,
			CustomPrompt: params.CustomPrompt,
			Style:        params.Style,
			Variation:    variation,
		})

		uri, err := s.deps.Generator.Generate(ctx, key, instruction, *photo)
		if err != nil {
			s.deps.Logger.Warn().Err(err).Int("variation", i+1).Str("session_id", s.id).Msg("session: generation failed")
			s.fail(epoch, err)
			return err
		}

		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			return nil
		}
		s.images = append(s.images, GeneratedImage{DataURI: uri, Prompt: instruction, Variation: variation})
		s.touchLocked()
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	s.status = StatusComplete
	s.touchLocked()
	return nil
}

// Reset returns the session to idle and clears everything, including the
// stored generation parameters.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.status = StatusIdle
	s.coords = nil
	s.location = nil
	s.override = false
	s.images = nil
	s.errMsg = ""
	s.params = nil
	s.photo = nil
	s.touchLocked()
}

// fail records a classified failure unless the cycle has been superseded.
// Already-accumulated images are deliberately retained. A rejected credential
// also clears the store so the client re-prompts for a key.
func (s *Session) fail(epoch uint64, err error) {
	if gemini.Classify(err) == gemini.KindInvalidCredential {
		s.deps.Creds.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.status = StatusError
	s.errMsg = UserMessage(err)
	s.touchLocked()
}

func (s *Session) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.deps.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.deps.Timeout)
}

func (s *Session) touchLocked() {
	s.lastSeen = time.Now()
}

// Snapshot is the JSON-renderable view of a session.
type Snapshot struct {
	ID                  string               `json:"id"`
	Status              Status               `json:"status"`
	Coordinates         *geo.Coordinates     `json:"coordinates,omitempty"`
	Location            *geo.LocationContext `json:"location,omitempty"`
	NeedsDisambiguation bool                 `json:"needsDisambiguation"`
	OverrideVague       bool                 `json:"overrideVague"`
	Images              []GeneratedImage     `json:"images"`
	Error               string               `json:"error,omitempty"`
}

// Snapshot returns a consistent copy of the observable session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:                  s.id,
		Status:              s.status,
		Coordinates:         s.coords,
		Location:            s.location,
		NeedsDisambiguation: NeedsDisambiguation(s.location, s.override, len(s.images)),
		OverrideVague:       s.override,
		Images:              append([]GeneratedImage(nil), s.images...),
		Error:               s.errMsg,
	}
	if snap.Images == nil {
		snap.Images = []GeneratedImage{}
	}
	return snap
}
