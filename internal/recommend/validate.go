package recommend

import "github.com/sells-group/plan-advisor/internal/catalog"

// Cardinality bounds for every returned recommendation.
const (
	MinRecommendations = 3
	MaxRecommendations = 6
)

// ValidateIDs keeps catalog members in first-seen order without
// duplicates. ok is false when the result falls outside
// [MinRecommendations, MaxRecommendations]; callers must then discard the
// list rather than trim it.
func ValidateIDs(cat *catalog.Catalog, ids []string) (valid []string, ok bool) {
	valid = dedupeKnown(cat, ids)
	ok = len(valid) >= MinRecommendations && len(valid) <= MaxRecommendations
	return valid, ok
}

// Repair is the residual cardinality pass. It truncates to
// MaxRecommendations and pads to MinRecommendations with the most popular
// products not already present. A valid list is returned unchanged.
func Repair(cat *catalog.Catalog, ids []string) []string {
	out := dedupeKnown(cat, ids)
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	if len(out) >= MinRecommendations {
		return out
	}

	seen := make(map[string]bool, len(out))
	for _, id := range out {
		seen[id] = true
	}
	for _, p := range cat.ByPopularity() {
		if len(out) >= MinRecommendations {
			break
		}
		if !seen[p.ID] {
			out = append(out, p.ID)
			seen[p.ID] = true
		}
	}
	return out
}

func dedupeKnown(cat *catalog.Catalog, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !cat.Contains(id) {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
