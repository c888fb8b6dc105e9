package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/plan-advisor/internal/catalog"
	"github.com/sells-group/plan-advisor/pkg/anthropic"
)

// Popularity order of the embedded catalog:
// p001 p002 p009 p011 p003 p006 p007 p004 p005 p008 p010 p012.

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)
	return cat
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
		Usage:      anthropic.TokenUsage{InputTokens: 900, OutputTokens: 120},
	}
}

func assertValidRecommendation(t *testing.T, cat *catalog.Catalog, ids []string) {
	t.Helper()
	require.GreaterOrEqual(t, len(ids), MinRecommendations)
	require.LessOrEqual(t, len(ids), MaxRecommendations)
	seen := map[string]bool{}
	for _, id := range ids {
		require.True(t, cat.Contains(id), "unknown id %s", id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
