package features

import (
	"fmt"
	"strings"

	"github.com/sells-group/plan-advisor/internal/model"
)

// Cache memoizes Infer for the lifetime of a single request. It is not
// safe for concurrent use; create one per request.
type Cache struct {
	byID map[string]Features
}

// NewCache returns an empty request-scoped cache.
func NewCache() *Cache {
	return &Cache{byID: make(map[string]Features)}
}

// Get returns the features for p, inferring them on first use.
func (c *Cache) Get(p model.Product) Features {
	if f, ok := c.byID[p.ID]; ok {
		return f
	}
	f := Infer(p)
	c.byID[p.ID] = f
	return f
}

// Summary is the compact per-product view embedded in the reasoning
// instruction and printed by the catalog command.
type Summary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Popularity float64 `json:"popularity"`
	Features
}

// Summarize builds the summary for p using the cache.
func (c *Cache) Summarize(p model.Product) Summary {
	return Summary{
		ID:         p.ID,
		Name:       p.Name,
		Popularity: p.Popularity,
		Features:   c.Get(p),
	}
}

// String renders a single-line summary.
func (s Summary) String() string {
	return fmt.Sprintf("%s | %s | pop=%.0f | advMed=%t outpatient=%t highMult=%t death=%t bonus=%t | routes=%s | freq=%s | riders=%s",
		s.ID, s.Name, s.Popularity,
		s.AdvancedMedical, s.Outpatient, s.HighMultiplier, s.DeathBenefit, s.HealthBonus,
		joinStrings(s.PaymentRoutes), joinStrings(s.PaymentFrequencies), strings.Join(s.IncludedRiders, ","),
	)
}

func joinStrings[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}
