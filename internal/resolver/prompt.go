package resolver

import (
	"fmt"

	"chronolens/internal/geo"
)

const maxNearbyPOIs = 3

func buildResolvePrompt(c geo.Coordinates) string {
	return fmt.Sprintf(`You are a precise reverse-geocoding and travel assistant. Using web search,
identify the exact place at latitude %.6f, longitude %.6f.

Classify the spot as vague when it is open ocean, open desert, dense
wilderness, or otherwise too generic to stage a photograph at. When the spot
is vague, list up to %d interesting named places near these coordinates that a
visitor could pick instead.

Estimate the current weather and suggest what a visitor should wear.

Respond with ONLY a single valid JSON object in this exact format (no
markdown, no explanation):
{
  "name": "Place name",
  "description": "One or two sentences about the place",
  "weather": {"temp": "18C", "condition": "Partly cloudy"},
  "clothingRecommendation": "Light jacket and comfortable shoes",
  "isVague": false,
  "nearbyPOIs": [{"name": "Nearby place", "lat": 0.0, "lng": 0.0}]
}

Include nearbyPOIs only when isVague is true. Keep weather values short and
human-readable; they are estimates, not measurements.`, c.Lat, c.Lng, maxNearbyPOIs)
}
