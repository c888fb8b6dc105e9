package model

// SurgeryMethod describes how a surgery benefit is paid out.
type SurgeryMethod string

const (
	SurgeryMethodMultiplier SurgeryMethod = "multiplier" // Daily amount x multiplier
	SurgeryMethodFixed      SurgeryMethod = "fixed"      // Flat amount per surgery
)

// PaymentMode is the premium payment mode stored on a product.
type PaymentMode string

const (
	PaymentModeMonthly PaymentMode = "monthly"
	PaymentModeYearly  PaymentMode = "yearly"
)

// Product is a single insurance product in the catalog.
type Product struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	Popularity      float64         `json:"popularity" yaml:"popularity"`
	Hospitalization Hospitalization `json:"hospitalization" yaml:"hospitalization"`
	Surgery         Surgery         `json:"surgery" yaml:"surgery"`
	Outpatient      *Outpatient     `json:"outpatient,omitempty" yaml:"outpatient,omitempty"`
	Riders          *Riders         `json:"riders,omitempty" yaml:"riders,omitempty"`
	Payment         Payment         `json:"payment" yaml:"payment"`
	Tags            []string        `json:"tags,omitempty" yaml:"tags,omitempty"`

	// DeathBenefit and HealthBonus override the name/tag heuristics when set.
	DeathBenefit *bool `json:"deathBenefit,omitempty" yaml:"deathBenefit,omitempty"`
	HealthBonus  *bool `json:"healthBonus,omitempty" yaml:"healthBonus,omitempty"`
}

// Hospitalization holds the inpatient terms of a product.
type Hospitalization struct {
	DailyAmount int `json:"dailyAmount" yaml:"dailyAmount"`
	DaysLimit   int `json:"daysLimit" yaml:"daysLimit"`
}

// Surgery holds the surgery payout terms.
type Surgery struct {
	Method      SurgeryMethod `json:"method" yaml:"method"`
	Multipliers []int         `json:"multipliers,omitempty" yaml:"multipliers,omitempty"`
	FixedAmount int           `json:"fixedAmount,omitempty" yaml:"fixedAmount,omitempty"`
}

// Outpatient holds optional outpatient terms.
type Outpatient struct {
	DailyAmount int `json:"dailyAmount" yaml:"dailyAmount"`
}

// Riders lists optional riders attached to a product.
type Riders struct {
	AdvancedMedical      bool     `json:"advancedMedical,omitempty" yaml:"advancedMedical,omitempty"`
	Waiver               bool     `json:"waiver,omitempty" yaml:"waiver,omitempty"`
	LumpSum              int      `json:"lumpSum,omitempty" yaml:"lumpSum,omitempty"`
	Injury               bool     `json:"injury,omitempty" yaml:"injury,omitempty"`
	DisabilityIncome     bool     `json:"disabilityIncome,omitempty" yaml:"disabilityIncome,omitempty"`
	WomenSpecific        bool     `json:"womenSpecific,omitempty" yaml:"womenSpecific,omitempty"`
	CriticalIllnessGroup []string `json:"criticalIllnessGroup,omitempty" yaml:"criticalIllnessGroup,omitempty"`
}

// Payment holds premium payment hints.
type Payment struct {
	Mode   PaymentMode    `json:"mode" yaml:"mode"`
	Routes []PaymentRoute `json:"routes,omitempty" yaml:"routes,omitempty"`
}
