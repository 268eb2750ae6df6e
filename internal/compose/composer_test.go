package compose

import (
	"strings"
	"testing"

	"chronolens/internal/geo"
)

func eiffel() (*geo.LocationContext, geo.Coordinates) {
	return &geo.LocationContext{
		Name:    "Eiffel Tower",
		Weather: geo.Weather{Temp: "18C", Condition: "Partly cloudy"},
	}, geo.Coordinates{Lat: 48.8584, Lng: 2.2945}
}

func TestBuildIsDeterministic(t *testing.T) {
	loc, coords := eiffel()
	p := Params{
		Era:          EraPast,
		Year:         "1889",
		CustomPrompt: "holding a parasol",
		Style:        StyleCinematic,
		Variation:    ShotVariations[0],
	}
	first := Build(loc, coords, p)
	second := Build(loc, coords, p)
	if first != second {
		t.Fatalf("compose is not deterministic:\n%s\nvs\n%s", first, second)
	}
}

func TestBuildBCYear(t *testing.T) {
	loc, coords := eiffel()
	got := Build(loc, coords, Params{Era: EraPast, Year: "-500", Style: StyleRealistic, Variation: ShotVariations[0]})

	checks := []string{
		"500 B.C.",
		"no modern structures",
		"natural landscape",
		"primitive clothing",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("instruction missing %q:\n%s", expect, got)
		}
	}
	if strings.Contains(got, "the year -500") {
		t.Fatalf("negative year leaked through as a literal label:\n%s", got)
	}
}

func TestBuildModernYear(t *testing.T) {
	loc, coords := eiffel()
	got := Build(loc, coords, Params{Era: EraPast, Year: "1950", Style: StyleRealistic, Variation: ShotVariations[1]})

	if !strings.Contains(got, "the year 1950") {
		t.Fatalf("instruction missing year descriptor:\n%s", got)
	}
	if !strings.Contains(got, "consistent with the year 1950") {
		t.Fatalf("instruction missing era-accuracy clause:\n%s", got)
	}
}

func TestBuildFutureYear(t *testing.T) {
	loc, coords := eiffel()
	got := Build(loc, coords, Params{Era: EraFuture, Year: "2077", Style: StyleCinematic, Variation: ShotVariations[0]})

	if !strings.Contains(got, "the year 2077") {
		t.Fatalf("instruction missing year descriptor:\n%s", got)
	}
	if !strings.Contains(got, "speculative architecture") {
		t.Fatalf("instruction missing future clause:\n%s", got)
	}
}

func TestBuildUnparseableYearUsedVerbatim(t *testing.T) {
	loc, coords := eiffel()
	got := Build(loc, coords, Params{Era: EraPast, Year: "Iron Age", Style: StyleRealistic, Variation: ShotVariations[0]})
	if !strings.Contains(got, "the year Iron Age") {
		t.Fatalf("raw year label not used verbatim:\n%s", got)
	}
}

func TestBuildIncludesVariationWeatherAndPlaceholder(t *testing.T) {
	loc, coords := eiffel()
	got := Build(loc, coords, Params{Era: EraPresent, Style: StyleDocumentary, Variation: ShotVariations[1]})

	if !strings.Contains(got, ShotVariations[1]) {
		t.Fatalf("instruction missing variation label:\n%s", got)
	}
	if !strings.Contains(got, "Partly cloudy") {
		t.Fatalf("instruction missing weather condition:\n%s", got)
	}
	if !strings.Contains(got, noCustomInstructions) {
		t.Fatalf("instruction missing empty-custom-prompt placeholder:\n%s", got)
	}
	if !strings.Contains(got, "Documentary") {
		t.Fatalf("instruction missing style label:\n%s", got)
	}
	if !strings.Contains(got, "48.8584") || !strings.Contains(got, "2.2945") {
		t.Fatalf("instruction missing raw coordinates:\n%s", got)
	}
}

func TestTimeDescriptorWithoutYear(t *testing.T) {
	tests := []struct {
		era  Era
		want string
	}{
		{EraPast, "the past"},
		{EraPresent, "the present day"},
		{EraFuture, "the future"},
	}
	for _, tc := range tests {
		if got := timeDescriptor(tc.era, ""); got != tc.want {
			t.Fatalf("timeDescriptor(%q) = %q, want %q", tc.era, got, tc.want)
		}
	}
}

func TestFormatYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-10000", "10000 B.C."},
		{"-500", "500 B.C."},
		{"2077", "2077 A.D."},
		{"1889", "1889 A.D."},
		{"", ""},
		{"Iron Age", "Iron Age"},
	}
	for _, tc := range tests {
		if got := FormatYear(tc.in); got != tc.want {
			t.Fatalf("FormatYear(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseEraAndStyle(t *testing.T) {
	if _, err := ParseEra("medieval"); err == nil {
		t.Fatalf("expected error for unknown era")
	}
	if era, err := ParseEra("Past"); err != nil || era != EraPast {
		t.Fatalf("ParseEra(Past) = %v, %v", era, err)
	}
	if _, err := ParseStyle("impressionist"); err == nil {
		t.Fatalf("expected error for unknown style")
	}
	if style, err := ParseStyle("cinematic"); err != nil || style != StyleCinematic {
		t.Fatalf("ParseStyle(cinematic) = %v, %v", style, err)
	}
}
