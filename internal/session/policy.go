package session

import "chronolens/internal/geo"

// NeedsDisambiguation is the vague-state predicate. A location blocks the
// generation controls only while it is classified vague, the user has not
// overridden the classification, and nothing has been generated yet.
func NeedsDisambiguation(loc *geo.LocationContext, override bool, generatedImages int) bool {
	return loc != nil && loc.IsVague && !override && generatedImages == 0
}
