// Package compose builds the image-editing instructions sent to the image
// model. Everything here is pure: identical inputs produce byte-identical
// text, which is what the tests lean on.
package compose

import (
	"fmt"
	"strconv"
	"strings"

	"chronolens/internal/geo"
)

// Era is the coarse time category governing prompt construction.
type Era string

const (
	EraPast    Era = "past"
	EraPresent Era = "present"
	EraFuture  Era = "future"
)

// ParseEra validates a client-supplied era string.
func ParseEra(s string) (Era, error) {
	switch Era(strings.ToLower(strings.TrimSpace(s))) {
	case EraPast:
		return EraPast, nil
	case EraPresent, "":
		return EraPresent, nil
	case EraFuture:
		return EraFuture, nil
	}
	return "", fmt.Errorf("unknown era %q", s)
}

// Style is one of the fixed visual-style labels.
type Style string

const (
	StyleRealistic   Style = "Realistic"
	StyleCinematic   Style = "Cinematic"
	StyleDocumentary Style = "Documentary"
)

// ParseStyle validates a client-supplied style string.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "realistic", "":
		return StyleRealistic, nil
	case "cinematic":
		return StyleCinematic, nil
	case "documentary":
		return StyleDocumentary, nil
	}
	return "", fmt.Errorf("unknown style %q", s)
}

// ShotVariations are the composition labels used to force visually distinct
// results across otherwise identical requests. Their order is the order the
// generated images arrive in.
var ShotVariations = []string{
	"Wide Angle Shot, subject small in frame, the environment dominating the composition",
	"Medium Shot, subject from the waist up, the landmark still clearly recognizable behind them",
}

const noCustomInstructions = "(no additional instructions provided)"

// Params are the user-chosen generation parameters for one shot variation.
type Params struct {
	Era          Era
	Year         string
	CustomPrompt string
	Style        Style
	Variation    string
}

// Build composes the full instruction text for one generation call.
func Build(loc *geo.LocationContext, coords geo.Coordinates, p Params) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Edit the reference photo so the person is standing at %s (%.4f, %.4f).\n",
		loc.Name, coords.Lat, coords.Lng)
	fmt.Fprintf(&b, "Time period: %s. %s\n", timeDescriptor(p.Era, p.Year), eraClause(p.Era, p.Year))
	fmt.Fprintf(&b, "Weather: %s.\n", loc.Weather.Condition)
	fmt.Fprintf(&b, "Composition: %s.\n", p.Variation)

	custom := strings.TrimSpace(p.CustomPrompt)
	if custom == "" {
		custom = noCustomInstructions
	}
	fmt.Fprintf(&b, "Additional instructions: %s\n", custom)

	b.WriteString("Keep the person's face and identity exactly as in the reference photo. ")
	b.WriteString("Change only their attire so it matches the era and the weather.\n")
	fmt.Fprintf(&b, "Visual style: %s. ", p.Style)
	b.WriteString("High resolution, realistic lighting, sharp focus. No overlays, no text, no watermarks, no borders.")

	return b.String()
}

// timeDescriptor renders the era/year pair as prose. A year parsing to a
// negative integer is treated as B.C.; an unparseable year is used verbatim
// as the label.
func timeDescriptor(era Era, year string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		switch era {
		case EraPast:
			return "the past"
		case EraFuture:
			return "the future"
		default:
			return "the present day"
		}
	}
	if n, err := strconv.Atoi(year); err == nil && n < 0 {
		return fmt.Sprintf("%d B.C.", -n)
	}
	return "the year " + year
}

func eraClause(era Era, year string) string {
	year = strings.TrimSpace(year)
	if n, err := strconv.Atoi(year); err == nil && n < 0 {
		return fmt.Sprintf("This is %d B.C. There must be no modern structures, no roads and no technology of any kind. "+
			"Show the natural landscape as it would plausibly have looked at these coordinates on that date. "+
			"Include an early human settlement only if one is historically plausible for this region in that period. "+
			"Any people wear primitive clothing appropriate to the region and era.", -n)
	}
	descriptor := timeDescriptor(era, year)
	if era == EraFuture {
		return fmt.Sprintf("Depict grounded, speculative architecture and technology plausibly tied to %s. Avoid fantasy elements.", descriptor)
	}
	return fmt.Sprintf("Architecture, vehicles, technology and signage must be consistent with %s.", descriptor)
}
