package model

import "slices"

// PaymentRoute is a premium payment channel.
type PaymentRoute string

const (
	PaymentRouteAccount    PaymentRoute = "account"
	PaymentRouteCreditCard PaymentRoute = "creditCard"
)

// PaymentFrequency is how often premiums are paid.
type PaymentFrequency string

const (
	FrequencyMonthly    PaymentFrequency = "monthly"
	FrequencySemiannual PaymentFrequency = "semiannual"
	FrequencyAnnual     PaymentFrequency = "annual"
)

// Rider keywords understood by the criteria and feature inference.
const (
	RiderAdvancedMedical      = "advanced-medical"
	RiderOutpatient           = "outpatient"
	RiderWaiver               = "waiver"
	RiderLumpSum              = "lump-sum"
	RiderInjury               = "injury"
	RiderDisabilityIncome     = "disability-income"
	RiderWomenSpecific        = "women-specific"
	RiderCriticalIllnessGroup = "critical-illness-group"
)

// RiderKeywords is the fixed rider vocabulary in display order.
var RiderKeywords = []string{
	RiderAdvancedMedical,
	RiderOutpatient,
	RiderWaiver,
	RiderLumpSum,
	RiderInjury,
	RiderDisabilityIncome,
	RiderWomenSpecific,
	RiderCriticalIllnessGroup,
}

// Criteria is the sparse set of preferences extracted from questionnaire
// answers. A nil pointer or nil slice means "no preference".
type Criteria struct {
	NeedsAdvancedMedical        *bool              `json:"needsAdvancedMedical,omitempty"`
	WantsOutpatient             *bool              `json:"wantsOutpatient,omitempty"`
	PrefersHighMultiplier       *bool              `json:"prefersHighMultiplier,omitempty"`
	RequiresDeathBenefit        *bool              `json:"requiresDeathBenefit,omitempty"`
	PrefersHealthBonus          *bool              `json:"prefersHealthBonus,omitempty"`
	PreferredPaymentRoutes      []PaymentRoute     `json:"preferredPaymentRoutes,omitempty"`
	PreferredPaymentFrequencies []PaymentFrequency `json:"preferredPaymentFrequencies,omitempty"`
	RequiredIncludedRiders      []string           `json:"requiredIncludedRiders,omitempty"`
}

// IsEmpty reports whether no preference is expressed at all.
func (c Criteria) IsEmpty() bool {
	return c.NeedsAdvancedMedical == nil &&
		c.WantsOutpatient == nil &&
		c.PrefersHighMultiplier == nil &&
		c.RequiresDeathBenefit == nil &&
		c.PrefersHealthBonus == nil &&
		len(c.PreferredPaymentRoutes) == 0 &&
		len(c.PreferredPaymentFrequencies) == 0 &&
		len(c.RequiredIncludedRiders) == 0
}

// Clone returns a deep copy so callers can mutate slices freely.
func (c Criteria) Clone() Criteria {
	out := c
	out.NeedsAdvancedMedical = cloneBool(c.NeedsAdvancedMedical)
	out.WantsOutpatient = cloneBool(c.WantsOutpatient)
	out.PrefersHighMultiplier = cloneBool(c.PrefersHighMultiplier)
	out.RequiresDeathBenefit = cloneBool(c.RequiresDeathBenefit)
	out.PrefersHealthBonus = cloneBool(c.PrefersHealthBonus)
	out.PreferredPaymentRoutes = slices.Clone(c.PreferredPaymentRoutes)
	out.PreferredPaymentFrequencies = slices.Clone(c.PreferredPaymentFrequencies)
	out.RequiredIncludedRiders = slices.Clone(c.RequiredIncludedRiders)
	return out
}

// Wants reports whether an optional flag is set to true.
func Wants(flag *bool) bool {
	return flag != nil && *flag
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
