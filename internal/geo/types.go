// Package geo holds the coordinate and location records shared across the
// workflow packages.
package geo

// Coordinates is a WGS84 point picked on the map.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PointOfInterest is a named alternative near a vague location.
type PointOfInterest struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Coordinates converts the POI back into a map point so selecting one can
// restart a full resolution cycle.
func (p PointOfInterest) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lng: p.Lng}
}

// Weather carries free-text estimates, not measurements.
type Weather struct {
	Temp      string `json:"temp"`
	Condition string `json:"condition"`
}

// LocationContext is the resolved description of a clicked coordinate pair.
// It is replaced wholesale on every new selection and never mutated in place.
// NearbyPOIs is populated only when IsVague is true.
type LocationContext struct {
	Name                   string            `json:"name"`
	Description            string            `json:"description"`
	Weather                Weather           `json:"weather"`
	ClothingRecommendation string            `json:"clothingRecommendation"`
	IsVague                bool              `json:"isVague"`
	NearbyPOIs             []PointOfInterest `json:"nearbyPOIs,omitempty"`
}
