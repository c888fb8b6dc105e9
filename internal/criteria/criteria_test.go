package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/plan-advisor/internal/model"
)

func TestExtract_Empty(t *testing.T) {
	assert.True(t, Extract(nil).IsEmpty())
	assert.True(t, Extract(model.Answers{}).IsEmpty())
	assert.True(t, Extract(model.Answers{"q1": {}, "q3": nil}).IsEmpty())
}

func TestExtract_UnknownCodesIgnored(t *testing.T) {
	got := Extract(model.Answers{
		"q1":  {"not_a_code"},
		"q99": {"advanced_med"},
		"q10": {"weekly"},
	})
	assert.True(t, got.IsEmpty())
}

func TestExtract_Q1Flags(t *testing.T) {
	got := Extract(model.Answers{"q1": {"advanced_med", "cancer_long", "income_drop", "family", "money_back"}})

	assert.True(t, model.Wants(got.NeedsAdvancedMedical))
	assert.True(t, model.Wants(got.PrefersHighMultiplier))
	assert.True(t, model.Wants(got.WantsOutpatient))
	assert.True(t, model.Wants(got.RequiresDeathBenefit))
	assert.True(t, model.Wants(got.PrefersHealthBonus))
	assert.Nil(t, got.PreferredPaymentRoutes)
}

func TestExtract_AbsentIsNotFalse(t *testing.T) {
	got := Extract(model.Answers{"q1": {"advanced_med"}})

	assert.NotNil(t, got.NeedsAdvancedMedical)
	assert.Nil(t, got.WantsOutpatient)
	assert.Nil(t, got.PrefersHighMultiplier)
	assert.Nil(t, got.RequiresDeathBenefit)
	assert.Nil(t, got.PrefersHealthBonus)
}

func TestExtract_PaymentQ3(t *testing.T) {
	tests := []struct {
		code  string
		route model.PaymentRoute
		freq  model.PaymentFrequency
	}{
		{"account_monthly", model.PaymentRouteAccount, model.FrequencyMonthly},
		{"account_annual", model.PaymentRouteAccount, model.FrequencyAnnual},
		{"card_monthly", model.PaymentRouteCreditCard, model.FrequencyMonthly},
		{"card_semiannual", model.PaymentRouteCreditCard, model.FrequencySemiannual},
		{"card_annual", model.PaymentRouteCreditCard, model.FrequencyAnnual},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Extract(model.Answers{"q3": {tt.code}})
			assert.Equal(t, []model.PaymentRoute{tt.route}, got.PreferredPaymentRoutes)
			assert.Equal(t, []model.PaymentFrequency{tt.freq}, got.PreferredPaymentFrequencies)
		})
	}
}

func TestExtract_Q3LastWriteWins(t *testing.T) {
	got := Extract(model.Answers{"q3": {"account_monthly", "card_annual"}})
	assert.Equal(t, []model.PaymentRoute{model.PaymentRouteCreditCard}, got.PreferredPaymentRoutes)
	assert.Equal(t, []model.PaymentFrequency{model.FrequencyAnnual}, got.PreferredPaymentFrequencies)
}

func TestExtract_Q10OverridesQ3Frequency(t *testing.T) {
	got := Extract(model.Answers{
		"q3":  {"account_monthly"},
		"q10": {"annual", "semiannual", "annual"},
	})
	assert.Equal(t, []model.PaymentRoute{model.PaymentRouteAccount}, got.PreferredPaymentRoutes)
	assert.Equal(t, []model.PaymentFrequency{model.FrequencyAnnual, model.FrequencySemiannual}, got.PreferredPaymentFrequencies)
}

func TestExtract_Q10UnknownKeepsQ3(t *testing.T) {
	got := Extract(model.Answers{
		"q3":  {"card_monthly"},
		"q10": {"weekly"},
	})
	assert.Equal(t, []model.PaymentFrequency{model.FrequencyMonthly}, got.PreferredPaymentFrequencies)
}

func TestExtract_Q8RidersOrderedAndDeduplicated(t *testing.T) {
	got := Extract(model.Answers{"q8": {"waiver", "women", "waiver", "lump_sum", "bogus"}})
	assert.Equal(t, []string{model.RiderWaiver, model.RiderWomenSpecific, model.RiderLumpSum}, got.RequiredIncludedRiders)
}

func TestExtract_Q5SetsFlags(t *testing.T) {
	got := Extract(model.Answers{"q5": {"death_benefit", "health_bonus"}})
	assert.True(t, model.Wants(got.RequiresDeathBenefit))
	assert.True(t, model.Wants(got.PrefersHealthBonus))
}

func TestExtract_Deterministic(t *testing.T) {
	answers := model.Answers{"q1": {"advanced_med"}, "q8": {"injury", "waiver"}, "q10": {"monthly"}}
	assert.Equal(t, Extract(answers), Extract(answers))
}

func TestQuestionIDs(t *testing.T) {
	assert.Equal(t, []string{"q1", "q3", "q5", "q8", "q10"}, QuestionIDs())
}
