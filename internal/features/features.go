// Package features derives per-product features used to match products
// against user criteria. Every function here is pure.
package features

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/plan-advisor/internal/model"
)

// HighMultiplierThreshold is the smallest surgery multiplier counted as high.
const HighMultiplierThreshold = 10

// Name and tag markers. These are coarse lexical heuristics and only apply
// when the product has no structured override.
var (
	deathBenefitNameMarkers = []string{"life cover"}
	healthBonusNameMarkers  = []string{"return"}
	healthBonusTagMarkers   = []string{"money-back", "health rebate"}
)

// cardOnlyProducts can only be paid by credit card.
var cardOnlyProducts = map[string]bool{
	"p009": true,
	"p011": true,
}

// Features is the inferred view of a product, one field per criteria
// dimension.
type Features struct {
	AdvancedMedical    bool                     `json:"advancedMedical"`
	Outpatient         bool                     `json:"outpatient"`
	HighMultiplier     bool                     `json:"highMultiplier"`
	DeathBenefit       bool                     `json:"deathBenefit"`
	HealthBonus        bool                     `json:"healthBonus"`
	PaymentRoutes      []model.PaymentRoute     `json:"paymentRoutes"`
	PaymentFrequencies []model.PaymentFrequency `json:"paymentFrequencies"`
	IncludedRiders     []string                 `json:"includedRiders"`
}

// Infer computes all features for p.
func Infer(p model.Product) Features {
	return Features{
		AdvancedMedical:    HasAdvancedMedical(p),
		Outpatient:         HasOutpatient(p),
		HighMultiplier:     HasHighMultiplier(p),
		DeathBenefit:       HasDeathBenefit(p),
		HealthBonus:        HasHealthBonus(p),
		PaymentRoutes:      PaymentRoutes(p),
		PaymentFrequencies: PaymentFrequencies(p),
		IncludedRiders:     IncludedRiders(p),
	}
}

// HasAdvancedMedical reports whether the advanced medical rider is attached.
func HasAdvancedMedical(p model.Product) bool {
	return p.Riders != nil && p.Riders.AdvancedMedical
}

// HasOutpatient reports whether a positive outpatient daily benefit exists.
func HasOutpatient(p model.Product) bool {
	return p.Outpatient != nil && p.Outpatient.DailyAmount > 0
}

// HasHighMultiplier reports whether surgery pays by multiplier and any
// multiplier reaches HighMultiplierThreshold.
func HasHighMultiplier(p model.Product) bool {
	if p.Surgery.Method != model.SurgeryMethodMultiplier {
		return false
	}
	return slices.ContainsFunc(p.Surgery.Multipliers, func(m int) bool {
		return m >= HighMultiplierThreshold
	})
}

// HasDeathBenefit uses the structured flag when present, else the name.
func HasDeathBenefit(p model.Product) bool {
	if p.DeathBenefit != nil {
		return *p.DeathBenefit
	}
	return containsAny(fold(p.Name), deathBenefitNameMarkers)
}

// HasHealthBonus uses the structured flag when present, else tags and name.
func HasHealthBonus(p model.Product) bool {
	if p.HealthBonus != nil {
		return *p.HealthBonus
	}
	for _, tag := range p.Tags {
		if containsAny(fold(tag), healthBonusTagMarkers) {
			return true
		}
	}
	return containsAny(fold(p.Name), healthBonusNameMarkers)
}

// PaymentRoutes returns the accepted payment channels.
func PaymentRoutes(p model.Product) []model.PaymentRoute {
	if len(p.Payment.Routes) > 0 {
		return slices.Clone(p.Payment.Routes)
	}
	if cardOnlyProducts[p.ID] {
		return []model.PaymentRoute{model.PaymentRouteCreditCard}
	}
	return []model.PaymentRoute{model.PaymentRouteAccount, model.PaymentRouteCreditCard}
}

// PaymentFrequencies maps the stored payment mode to frequencies.
func PaymentFrequencies(p model.Product) []model.PaymentFrequency {
	switch p.Payment.Mode {
	case model.PaymentModeYearly:
		return []model.PaymentFrequency{model.FrequencyAnnual}
	default:
		return []model.PaymentFrequency{model.FrequencyMonthly}
	}
}

// IncludedRiders returns the rider keywords present on p, in vocabulary
// order.
func IncludedRiders(p model.Product) []string {
	out := []string{}
	r := p.Riders
	has := map[string]bool{
		model.RiderOutpatient: HasOutpatient(p),
	}
	if r != nil {
		has[model.RiderAdvancedMedical] = r.AdvancedMedical
		has[model.RiderWaiver] = r.Waiver
		has[model.RiderLumpSum] = r.LumpSum > 0
		has[model.RiderInjury] = r.Injury
		has[model.RiderDisabilityIncome] = r.DisabilityIncome
		has[model.RiderWomenSpecific] = r.WomenSpecific
		has[model.RiderCriticalIllnessGroup] = len(r.CriticalIllnessGroup) > 0
	}
	for _, kw := range model.RiderKeywords {
		if has[kw] {
			out = append(out, kw)
		}
	}
	return out
}

// fold normalises full-width characters and case so markers match
// regardless of how the catalog text was entered. A Caser is stateful, so
// one is built per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
