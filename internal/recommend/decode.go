package recommend

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"

	"github.com/sells-group/plan-advisor/internal/model"
)

// replySchema only requires productIds to be an array. Individual entries,
// aiCriteria and rationale are checked separately so a bad optional field
// does not discard the whole shortlist.
const replySchema = `{
  "type": "object",
  "required": ["productIds"],
  "properties": {
    "productIds": {"type": "array"}
  }
}`

const criteriaSchema = `{
  "type": "object",
  "properties": {
    "needsAdvancedMedical": {"type": "boolean"},
    "wantsOutpatient": {"type": "boolean"},
    "prefersHighMultiplier": {"type": "boolean"},
    "requiresDeathBenefit": {"type": "boolean"},
    "prefersHealthBonus": {"type": "boolean"},
    "preferredPaymentRoutes": {
      "type": "array",
      "items": {"type": "string", "enum": ["account", "creditCard"]}
    },
    "preferredPaymentFrequencies": {
      "type": "array",
      "items": {"type": "string", "enum": ["monthly", "semiannual", "annual"]}
    },
    "requiredIncludedRiders": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

var (
	compiledReplySchema    = mustSchema(replySchema)
	compiledCriteriaSchema = mustSchema(criteriaSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(eris.Wrap(err, "recommend: compile schema"))
	}
	return s
}

// Candidate is a decoded reasoning-service reply.
type Candidate struct {
	// ProductIDs holds the string entries of productIds in reply order,
	// before catalog validation.
	ProductIDs []string
	// Criteria is nil unless aiCriteria was a conforming object.
	Criteria     *model.Criteria
	Rationale    string
	HasRationale bool
}

type rawReply struct {
	ProductIDs []json.RawMessage `json:"productIds"`
	AICriteria json.RawMessage   `json:"aiCriteria"`
	Rationale  json.RawMessage   `json:"rationale"`
}

// DecodeReply extracts and validates the JSON object embedded in text.
func DecodeReply(text string) (*Candidate, error) {
	obj, ok := extractJSONObject(text)
	if !ok {
		return nil, eris.New("recommend: no json object in reply")
	}

	if err := validateAgainst(compiledReplySchema, obj); err != nil {
		return nil, eris.Wrap(err, "recommend: reply schema")
	}

	var raw rawReply
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, eris.Wrap(err, "recommend: parse reply")
	}

	cand := &Candidate{ProductIDs: make([]string, 0, len(raw.ProductIDs))}
	for _, entry := range raw.ProductIDs {
		if id, ok := jsonString(entry); ok {
			cand.ProductIDs = append(cand.ProductIDs, id)
		}
	}

	if len(raw.AICriteria) > 0 && validateAgainst(compiledCriteriaSchema, string(raw.AICriteria)) == nil {
		var c model.Criteria
		if err := json.Unmarshal(raw.AICriteria, &c); err == nil {
			cand.Criteria = &c
		}
	}

	if r, ok := jsonString(raw.Rationale); ok {
		cand.Rationale = strings.TrimSpace(r)
		cand.HasRationale = true
	}

	return cand, nil
}

// jsonString decodes raw only when it is a JSON string literal; null and
// other types are rejected.
func jsonString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func validateAgainst(schema *gojsonschema.Schema, doc string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return eris.Wrap(err, "recommend: validate")
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return eris.Errorf("recommend: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// extractJSONObject returns the first balanced {...} substring of text,
// ignoring braces inside JSON strings. Markdown code fences are stripped
// first. When no balanced object exists it falls back to the span between
// the first '{' and the last '}'.
func extractJSONObject(text string) (string, bool) {
	text = stripFences(strings.TrimSpace(text))

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	end := strings.LastIndexByte(text, '}')
	if end > start {
		return text[start : end+1], true
	}
	return "", false
}

func stripFences(text string) string {
	for _, fence := range []string{"```json", "```"} {
		if strings.HasPrefix(text, fence) {
			text = strings.TrimPrefix(text, fence)
			if idx := strings.LastIndex(text, "```"); idx >= 0 {
				text = text[:idx]
			}
			return strings.TrimSpace(text)
		}
	}
	return text
}
