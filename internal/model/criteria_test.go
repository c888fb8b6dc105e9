package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriteria_IsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.False(t, Criteria{WantsOutpatient: Bool(true)}.IsEmpty())
	assert.False(t, Criteria{RequiredIncludedRiders: []string{RiderWaiver}}.IsEmpty())
	assert.True(t, Criteria{PreferredPaymentRoutes: []PaymentRoute{}}.IsEmpty())
}

func TestCriteria_Clone(t *testing.T) {
	orig := Criteria{
		NeedsAdvancedMedical:   Bool(true),
		PreferredPaymentRoutes: []PaymentRoute{PaymentRouteAccount},
		RequiredIncludedRiders: []string{RiderWaiver},
	}

	cp := orig.Clone()
	*cp.NeedsAdvancedMedical = false
	cp.PreferredPaymentRoutes[0] = PaymentRouteCreditCard
	cp.RequiredIncludedRiders = append(cp.RequiredIncludedRiders, RiderInjury)

	assert.True(t, *orig.NeedsAdvancedMedical)
	assert.Equal(t, []PaymentRoute{PaymentRouteAccount}, orig.PreferredPaymentRoutes)
	assert.Equal(t, []string{RiderWaiver}, orig.RequiredIncludedRiders)
}

func TestWants(t *testing.T) {
	assert.False(t, Wants(nil))
	assert.False(t, Wants(Bool(false)))
	assert.True(t, Wants(Bool(true)))
}
