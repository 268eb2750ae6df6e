package resolver

import (
	"errors"
	"testing"
)

func TestDecodeContextStripsProseAndFencing(t *testing.T) {
	raw := "Sure! Here is the location data you asked for:\n```json\n" +
		`{"name":"Eiffel Tower","description":"Iron lattice tower in Paris.",` +
		`"weather":{"temp":"18C","condition":"Partly cloudy"},` +
		`"clothingRecommendation":"Light jacket","isVague":false}` +
		"\n```\nLet me know if you need anything else."

	loc, err := decodeContext(raw)
	if err != nil {
		t.Fatalf("decodeContext returned error: %v", err)
	}
	if loc.Name != "Eiffel Tower" {
		t.Fatalf("name = %q, want Eiffel Tower", loc.Name)
	}
	if loc.Weather.Condition != "Partly cloudy" {
		t.Fatalf("condition = %q, want Partly cloudy", loc.Weather.Condition)
	}
	if loc.IsVague {
		t.Fatalf("expected specific location")
	}
}

func TestDecodeContextNoJSON(t *testing.T) {
	_, err := decodeContext("I could not identify this location, sorry.")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestDecodeContextInvalidJSON(t *testing.T) {
	_, err := decodeContext(`{"name": "Broken`)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestDecodeContextMissingName(t *testing.T) {
	_, err := decodeContext(`{"description":"somewhere","isVague":false}`)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestDecodeContextEnforcesVagueInvariant(t *testing.T) {
	// POIs on a non-vague record are dropped.
	loc, err := decodeContext(`{"name":"Eiffel Tower","isVague":false,` +
		`"nearbyPOIs":[{"name":"Louvre","lat":48.86,"lng":2.33}]}`)
	if err != nil {
		t.Fatalf("decodeContext returned error: %v", err)
	}
	if len(loc.NearbyPOIs) != 0 {
		t.Fatalf("expected POIs dropped on specific location, got %d", len(loc.NearbyPOIs))
	}

	// More than three POIs on a vague record are trimmed.
	loc, err = decodeContext(`{"name":"Pacific Ocean","isVague":true,"nearbyPOIs":[` +
		`{"name":"A","lat":1,"lng":1},{"name":"B","lat":2,"lng":2},` +
		`{"name":"C","lat":3,"lng":3},{"name":"D","lat":4,"lng":4}]}`)
	if err != nil {
		t.Fatalf("decodeContext returned error: %v", err)
	}
	if len(loc.NearbyPOIs) != maxNearbyPOIs {
		t.Fatalf("POIs = %d, want %d", len(loc.NearbyPOIs), maxNearbyPOIs)
	}
}
