package schema

import (
	"strings"
	"time"
	"unicode"
)

// CompactLabel removes all whitespace and lower-cases a taxonomy label,
// e.g. "Food adulteration" becomes "foodadulteration".
func CompactLabel(label string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, label))
}

// CollectionKey returns the normalized use-case/food-type key of a
// secondary-store collection name such as "FoodSpoilage_MincedPork_v2".
// ok is false when the name has fewer than two parts.
func CollectionKey(collection string) (key string, ok bool) {
	parts := strings.Split(collection, "_")
	if len(parts) < 2 {
		return "", false
	}
	return CompactLabel(parts[0]) + "_" + CompactLabel(parts[1]), true
}

// TaxonomyKey returns the normalized key of a measurement taxonomy pair.
func TaxonomyKey(useCase, foodType string) string {
	return CompactLabel(useCase) + "_" + CompactLabel(foodType)
}

// ExportTimestamp renders a creation time the way export file names carry it:
// date and time glued together with a numeric zone. Sub-second precision is
// always six digits and is omitted only when the time has no fraction.
func ExportTimestamp(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-0215:04:05-07:00")
	}
	return t.Format("2006-01-0215:04:05.000000-07:00")
}

// BundleName returns the archive base name of a requester folder.
func BundleName(requesterKey string) string {
	return strings.ReplaceAll(requesterKey, ".", "")
}
