package recommend

import (
	"slices"

	"github.com/sells-group/plan-advisor/internal/catalog"
	"github.com/sells-group/plan-advisor/internal/features"
	"github.com/sells-group/plan-advisor/internal/model"
)

// FallbackSize is the fixed length of a fallback recommendation.
const FallbackSize = 4

// Per-dimension weights added when a present criterion is satisfied.
const (
	weightAdvancedMedical = 2.0
	weightDefault         = 1.0
)

// ScoredCandidate is a product ranked by the fallback scorer.
type ScoredCandidate struct {
	Product     model.Product
	Score       float64
	HardMatches int
}

// Score rates p against crit. Absent criteria contribute nothing; the
// clamped popularity term is added for every product.
func Score(cache *features.Cache, p model.Product, crit model.Criteria) ScoredCandidate {
	f := cache.Get(p)
	sc := ScoredCandidate{Product: p, Score: popularityWeight(p.Popularity)}

	match := func(present, satisfied bool, weight float64) {
		if present && satisfied {
			sc.Score += weight
			sc.HardMatches++
		}
	}

	match(model.Wants(crit.NeedsAdvancedMedical), f.AdvancedMedical, weightAdvancedMedical)
	match(model.Wants(crit.WantsOutpatient), f.Outpatient, weightDefault)
	match(model.Wants(crit.PrefersHighMultiplier), f.HighMultiplier, weightDefault)
	match(model.Wants(crit.RequiresDeathBenefit), f.DeathBenefit, weightDefault)
	match(model.Wants(crit.PrefersHealthBonus), f.HealthBonus, weightDefault)
	match(len(crit.PreferredPaymentRoutes) > 0, intersects(crit.PreferredPaymentRoutes, f.PaymentRoutes), weightDefault)
	match(len(crit.PreferredPaymentFrequencies) > 0, intersects(crit.PreferredPaymentFrequencies, f.PaymentFrequencies), weightDefault)
	match(len(crit.RequiredIncludedRiders) > 0, containsAll(f.IncludedRiders, crit.RequiredIncludedRiders), weightDefault)

	return sc
}

// Rank scores every catalog product. Products with at least one hard match
// come first, ordered by descending score; catalog order breaks ties. When
// nothing matches, the ranking is pure descending popularity.
func Rank(cat *catalog.Catalog, cache *features.Cache, crit model.Criteria) []ScoredCandidate {
	products := cat.Products()
	scored := make([]ScoredCandidate, len(products))
	anyMatch := false
	for i, p := range products {
		scored[i] = Score(cache, p, crit)
		if scored[i].HardMatches > 0 {
			anyMatch = true
		}
	}

	if !anyMatch {
		slices.SortStableFunc(scored, func(a, b ScoredCandidate) int {
			return compareDesc(a.Product.Popularity, b.Product.Popularity)
		})
		return scored
	}

	slices.SortStableFunc(scored, func(a, b ScoredCandidate) int {
		am, bm := a.HardMatches > 0, b.HardMatches > 0
		if am != bm {
			if am {
				return -1
			}
			return 1
		}
		return compareDesc(a.Score, b.Score)
	})
	return scored
}

// Fallback returns the top FallbackSize product ids for crit.
func Fallback(cat *catalog.Catalog, cache *features.Cache, crit model.Criteria) []string {
	ranked := Rank(cat, cache, crit)
	n := min(FallbackSize, len(ranked))
	ids := make([]string, n)
	for i := range n {
		ids[i] = ranked[i].Product.ID
	}
	return ids
}

func popularityWeight(popularity float64) float64 {
	return max(0, min(1, popularity/100))
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func intersects[T comparable](want, have []T) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}
