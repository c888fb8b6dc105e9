package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIDs(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name      string
		ids       []string
		wantValid []string
		wantOK    bool
	}{
		{"valid four", []string{"p003", "p001", "p007", "p010"}, []string{"p003", "p001", "p007", "p010"}, true},
		{"duplicate and unknown", []string{"p001", "p001", "p999"}, []string{"p001"}, false},
		{"dedupe keeps first seen", []string{"p002", "p001", "p002", "p003"}, []string{"p002", "p001", "p003"}, true},
		{"too long", []string{"p001", "p002", "p003", "p004", "p005", "p006", "p007"}, []string{"p001", "p002", "p003", "p004", "p005", "p006", "p007"}, false},
		{"exactly six", []string{"p001", "p002", "p003", "p004", "p005", "p006"}, []string{"p001", "p002", "p003", "p004", "p005", "p006"}, true},
		{"empty", nil, []string{}, false},
		{"case sensitive", []string{"P001", "p002", "p003"}, []string{"p002", "p003"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ValidateIDs(cat, tt.ids)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValid, got)
		})
	}
}

func TestRepair_ValidListUnchanged(t *testing.T) {
	cat := testCatalog(t)
	ids := []string{"p012", "p005", "p001", "p008"}

	got := Repair(cat, ids)
	assert.Equal(t, ids, got)
	assert.Equal(t, got, Repair(cat, got))
}

func TestRepair_Truncates(t *testing.T) {
	cat := testCatalog(t)
	got := Repair(cat, []string{"p012", "p011", "p010", "p009", "p008", "p007", "p006", "p005"})
	assert.Equal(t, []string{"p012", "p011", "p010", "p009", "p008", "p007"}, got)
}

func TestRepair_PadsByPopularity(t *testing.T) {
	cat := testCatalog(t)

	assert.Equal(t, []string{"p002", "p001", "p009"}, Repair(cat, []string{"p002"}))
	assert.Equal(t, []string{"p001", "p002", "p009"}, Repair(cat, nil))
	assert.Equal(t, []string{"p012", "p001", "p002"}, Repair(cat, []string{"p012", "p999", "p012"}))
}

func TestRepair_AlwaysSatisfiesBounds(t *testing.T) {
	cat := testCatalog(t)
	inputs := [][]string{
		nil,
		{"p999"},
		{"p001", "p001", "p001"},
		cat.IDs(),
		append(cat.IDs(), cat.IDs()...),
	}
	for _, in := range inputs {
		assertValidRecommendation(t, cat, Repair(cat, in))
	}
}
