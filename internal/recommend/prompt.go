package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/plan-advisor/internal/catalog"
	"github.com/sells-group/plan-advisor/internal/features"
	"github.com/sells-group/plan-advisor/internal/model"
)

const systemPrompt = `You are an insurance product advisor. You pick a shortlist of medical insurance products from a fixed catalog that best match a customer's stated preferences. Respond with exactly one JSON object and nothing else.`

// PromptInput carries everything embedded in the selector instruction.
type PromptInput struct {
	Criteria model.Criteria
	Profile  model.Profile
}

// BuildPrompt renders the user instruction for the reasoning service.
func BuildPrompt(cat *catalog.Catalog, cache *features.Cache, in PromptInput) (string, error) {
	criteriaJSON, err := json.Marshal(in.Criteria)
	if err != nil {
		return "", eris.Wrap(err, "recommend: marshal criteria")
	}

	var b strings.Builder
	b.WriteString("Customer criteria (absent fields mean no preference):\n")
	b.Write(criteriaJSON)
	b.WriteString("\n\nCustomer profile:\n")
	b.WriteString(buildProfileContext(in.Profile))
	b.WriteString("\n\nCatalog (id | name | popularity | features | payment routes | payment frequencies | included riders):\n")
	for _, p := range cat.Products() {
		b.WriteString("- ")
		b.WriteString(cache.Summarize(p).String())
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, `
Rules:
- Choose between %d and %d products (prefer 4 or 5). Never return an empty list and never return the whole catalog.
- Use only ids listed in the catalog above. Each id at most once.
- Restate the criteria you applied as aiCriteria using the same field names as the customer criteria.
- Keep the rationale to two short sentences.

Respond with only this JSON object:
{"productIds": ["..."], "aiCriteria": {...}, "rationale": "..."}`, MinRecommendations, MaxRecommendations)

	return b.String(), nil
}

func buildProfileContext(p model.Profile) string {
	var parts []string
	if p.Age != nil {
		parts = append(parts, fmt.Sprintf("- Age: %d", *p.Age))
	}
	if p.Gender != "" {
		parts = append(parts, fmt.Sprintf("- Gender: %s", p.Gender))
	}
	if p.DailyAmount != nil {
		parts = append(parts, fmt.Sprintf("- Desired daily hospitalization amount: %d", *p.DailyAmount))
	}
	if len(parts) == 0 {
		return "Not provided."
	}
	return strings.Join(parts, "\n")
}
