// Package resolver asks Gemini to identify and describe a clicked coordinate
// pair, classifying it as specific or vague.
package resolver

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"chronolens/internal/geo"
	"chronolens/internal/infra"
)

// TextClient is the slice of the Gemini facade the resolver consumes.
type TextClient interface {
	GroundedText(ctx context.Context, apiKey, prompt string) (string, error)
}

// Options configures the resolver service.
type Options struct {
	Client TextClient
	// Fallback switches the error policy from propagation to graceful
	// degradation: failures return a placeholder context instead of an error.
	Fallback bool
	Logger   *infra.Logger
}

// Service resolves coordinates into LocationContext records.
type Service struct {
	client   TextClient
	fallback bool
	logger   infra.Logger
}

// New constructs a resolver service.
func New(opts Options) *Service {
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Service{client: opts.Client, fallback: opts.Fallback, logger: logger}
}

// Resolve issues one grounded Gemini call and parses the JSON object out of
// the reply. Service and parse failures propagate unless fallback mode is on,
// in which case a degraded placeholder record is returned instead.
func (s *Service) Resolve(ctx context.Context, apiKey string, coords geo.Coordinates) (*geo.LocationContext, error) {
	raw, err := s.client.GroundedText(ctx, apiKey, buildResolvePrompt(coords))
	if err != nil {
		return s.degrade(coords, err)
	}
	loc, err := decodeContext(raw)
	if err != nil {
		return s.degrade(coords, err)
	}
	s.logger.Debug().
		Str("name", loc.Name).
		Bool("vague", loc.IsVague).
		Int("pois", len(loc.NearbyPOIs)).
		Msg("resolver: location resolved")
	return loc, nil
}

func (s *Service) degrade(coords geo.Coordinates, err error) (*geo.LocationContext, error) {
	if !s.fallback {
		return nil, err
	}
	s.logger.Warn().Err(err).Msg("resolver: falling back to placeholder context")
	return FallbackContext(coords), nil
}

// FallbackContext is the degraded record used when fallback mode masks a
// resolution failure.
func FallbackContext(c geo.Coordinates) *geo.LocationContext {
	return &geo.LocationContext{
		Name:                   "Unknown Location",
		Description:            fmt.Sprintf("An unidentified spot near %.4f, %.4f.", c.Lat, c.Lng),
		Weather:                geo.Weather{Temp: "Unknown", Condition: "Clear"},
		ClothingRecommendation: "Comfortable clothing",
		IsVague:                false,
	}
}
