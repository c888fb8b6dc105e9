// Package criteria turns raw questionnaire answers into a sparse
// model.Criteria record.
package criteria

import (
	"slices"

	"github.com/sells-group/plan-advisor/internal/model"
)

// rule applies one option code to the criteria being built.
type rule func(c *model.Criteria)

// question is a single entry of the lookup table.
type question struct {
	ID      string
	Options map[string]rule
}

// table is evaluated in order; later questions overwrite fields set by
// earlier ones.
var table = []question{
	{
		ID: "q1",
		Options: map[string]rule{
			"advanced_med": setFlag(func(c *model.Criteria) **bool { return &c.NeedsAdvancedMedical }),
			"cancer_long":  setFlag(func(c *model.Criteria) **bool { return &c.PrefersHighMultiplier }),
			"income_drop":  setFlag(func(c *model.Criteria) **bool { return &c.WantsOutpatient }),
			"family":       setFlag(func(c *model.Criteria) **bool { return &c.RequiresDeathBenefit }),
			"money_back":   setFlag(func(c *model.Criteria) **bool { return &c.PrefersHealthBonus }),
		},
	},
	{
		ID: "q3",
		Options: map[string]rule{
			"account_monthly": setPayment(model.PaymentRouteAccount, model.FrequencyMonthly),
			"account_annual":  setPayment(model.PaymentRouteAccount, model.FrequencyAnnual),
			"card_monthly":    setPayment(model.PaymentRouteCreditCard, model.FrequencyMonthly),
			"card_semiannual": setPayment(model.PaymentRouteCreditCard, model.FrequencySemiannual),
			"card_annual":     setPayment(model.PaymentRouteCreditCard, model.FrequencyAnnual),
		},
	},
	{
		ID: "q5",
		Options: map[string]rule{
			"death_benefit": setFlag(func(c *model.Criteria) **bool { return &c.RequiresDeathBenefit }),
			"health_bonus":  setFlag(func(c *model.Criteria) **bool { return &c.PrefersHealthBonus }),
		},
	},
	{
		ID: "q8",
		Options: map[string]rule{
			"advanced_medical":  addRider(model.RiderAdvancedMedical),
			"outpatient":        addRider(model.RiderOutpatient),
			"waiver":            addRider(model.RiderWaiver),
			"lump_sum":          addRider(model.RiderLumpSum),
			"injury":            addRider(model.RiderInjury),
			"disability_income": addRider(model.RiderDisabilityIncome),
			"women":             addRider(model.RiderWomenSpecific),
			"critical_illness":  addRider(model.RiderCriticalIllnessGroup),
		},
	},
}

// frequencyOverride is the q10 table. Its selections replace whatever q3
// set, as a whole set rather than per option.
var frequencyOverride = map[string]model.PaymentFrequency{
	"monthly":    model.FrequencyMonthly,
	"semiannual": model.FrequencySemiannual,
	"annual":     model.FrequencyAnnual,
}

// QuestionIDs returns the questions the extractor understands, in
// evaluation order.
func QuestionIDs() []string {
	ids := make([]string, 0, len(table)+1)
	for _, q := range table {
		ids = append(ids, q.ID)
	}
	return append(ids, "q10")
}

// Extract maps answers to Criteria. Absent questions and unknown option
// codes are ignored; Extract never fails.
func Extract(answers model.Answers) model.Criteria {
	var c model.Criteria

	for _, q := range table {
		for _, code := range answers[q.ID] {
			if apply, ok := q.Options[code]; ok {
				apply(&c)
			}
		}
	}

	var freqs []model.PaymentFrequency
	for _, code := range answers["q10"] {
		if f, ok := frequencyOverride[code]; ok && !slices.Contains(freqs, f) {
			freqs = append(freqs, f)
		}
	}
	if len(freqs) > 0 {
		c.PreferredPaymentFrequencies = freqs
	}

	return c
}

func setFlag(field func(c *model.Criteria) **bool) rule {
	return func(c *model.Criteria) {
		*field(c) = model.Bool(true)
	}
}

// setPayment overwrites both payment fields; the last selected q3 option
// wins.
func setPayment(route model.PaymentRoute, freq model.PaymentFrequency) rule {
	return func(c *model.Criteria) {
		c.PreferredPaymentRoutes = []model.PaymentRoute{route}
		c.PreferredPaymentFrequencies = []model.PaymentFrequency{freq}
	}
}

func addRider(keyword string) rule {
	return func(c *model.Criteria) {
		if !slices.Contains(c.RequiredIncludedRiders, keyword) {
			c.RequiredIncludedRiders = append(c.RequiredIncludedRiders, keyword)
		}
	}
}
