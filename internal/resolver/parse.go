package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"chronolens/internal/geo"
)

// ErrMalformed indicates the model's reply did not contain a usable location
// payload.
var ErrMalformed = errors.New("resolver: malformed location payload")

// extractJSONObject pulls the first '{' through the last '}' span out of a
// reply that may be wrapped in prose or markdown fencing.
func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformed)
	}
	return raw[start : end+1], nil
}

// decodeContext parses a model reply into a LocationContext and normalizes it
// so the vague/POI invariant always holds.
func decodeContext(raw string) (*geo.LocationContext, error) {
	blob, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var loc geo.LocationContext
	if err := json.Unmarshal([]byte(blob), &loc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(loc.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrMalformed)
	}
	if !loc.IsVague {
		loc.NearbyPOIs = nil
	} else if len(loc.NearbyPOIs) > maxNearbyPOIs {
		loc.NearbyPOIs = loc.NearbyPOIs[:maxNearbyPOIs]
	}
	return &loc, nil
}
