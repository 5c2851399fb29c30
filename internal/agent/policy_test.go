package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartai/negotiation-platform/internal/model"
)

func profileByID(t *testing.T, id string) model.SellerProfile {
	t.Helper()
	p, ok := FindProfile(DefaultSellerProfiles, id)
	require.True(t, ok)
	return p
}

func TestGeneratePriceNeverBreaksFloor(t *testing.T) {
	policy := NewOfferPolicy(NewSeededRand(7), 0.8)

	for _, profile := range DefaultSellerProfiles {
		floor := profile.Inventory.BasePrice * 0.8
		for round := 1; round <= 6; round++ {
			for i := 0; i < 200; i++ {
				offer := policy.Generate(profile, "bamboo toothbrush", 1, "any takers?", round, model.PriorityPrice, model.NoVariant)
				assert.GreaterOrEqual(t, float64(offer.Price), floor-0.5,
					"%s round %d", profile.ID, round)
			}
		}
	}
}

func TestGenerateSingleSellerFloor(t *testing.T) {
	policy := NewOfferPolicy(NewSeededRand(11), 0.75)
	profile := profileByID(t, "seller_fast_trader")
	floor := profile.Inventory.BasePrice * 0.75

	for round := 1; round <= 4; round++ {
		for i := 0; i < 200; i++ {
			offer := policy.Generate(profile, "laptop stand", 1, "best price please", round, model.PriorityPrice, model.NoVariant)
			assert.GreaterOrEqual(t, float64(offer.Price), floor-0.5)
		}
	}
}

func TestGenerateDeliveryNeverBelowOneDay(t *testing.T) {
	policy := NewOfferPolicy(NewSeededRand(3), 0.8)
	profile := profileByID(t, "seller_fast_trader") // base 1 day

	for i := 0; i < 500; i++ {
		offer := policy.Generate(profile, "phone case", 10, "this is urgent, fast delivery needed", i%6+1, model.PrioritySpeed, model.NoVariant)
		assert.GreaterOrEqual(t, offer.DeliveryDays, 1)
	}
}

func TestGenerateCarbonFloorAndRounding(t *testing.T) {
	policy := NewOfferPolicy(NewSeededRand(19), 0.8)
	profile := profileByID(t, "seller_eco_premium")

	for i := 0; i < 200; i++ {
		offer := policy.Generate(profile, "toothbrush", 1, "hello", 1, model.PriorityCarbon, model.NoVariant)
		assert.GreaterOrEqual(t, offer.CarbonFootprint, 1.0)
		// Rounded to a single decimal.
		scaled := offer.CarbonFootprint * 10
		assert.InDelta(t, scaled, float64(int(scaled+0.5)), 1e-6)
	}
}

func TestGenerateConcessionTrend(t *testing.T) {
	policy := NewOfferPolicy(NewSeededRand(23), 0.8)
	profile := profileByID(t, "seller_budget") // very_high flexibility

	mean := func(round int) float64 {
		var sum float64
		const n = 300
		for i := 0; i < n; i++ {
			offer := policy.Generate(profile, "notebook", 1, "hello", round, model.PriorityPrice, model.NoVariant)
			sum += float64(offer.Price)
		}
		return sum / n
	}

	// Concessions accumulate per round, so later rounds average cheaper.
	assert.Greater(t, mean(1), mean(6))
}

func TestGenerateOfferIdentity(t *testing.T) {
	policy := NewOfferPolicy(NewSeededRand(1), 0.8)
	profile := profileByID(t, "seller_eco_premium")

	offer := policy.Generate(profile, "desk", 2, "hi", 1, model.PriorityPrice, model.NoVariant)
	assert.True(t, strings.HasPrefix(offer.ID, "offer_"))
	assert.Equal(t, "seller_eco_premium", offer.SellerID)
	assert.Equal(t, "EcoSupply", offer.SellerName)
	assert.Equal(t, []string{"B-Corp", "Carbon-Neutral", "Fair Trade"}, offer.Certifications)

	other := policy.Generate(profile, "desk", 2, "hi", 1, model.PriorityPrice, model.NoVariant)
	assert.NotEqual(t, offer.ID, other.ID)
}

func TestGenerateVariantMultipliers(t *testing.T) {
	profile := profileByID(t, "seller_fast_trader")
	variant := model.ProviderVariant{Name: "gemini", PriceMultiplier: 1.03, CarbonMultiplier: 1.05, DeliveryShift: 1}

	policy := NewOfferPolicy(NewSeededRand(5), 0.8)
	for i := 0; i < 200; i++ {
		offer := policy.Generate(profile, "mug", 1, "hello", 1, model.PriorityPrice, variant)
		// Floor scales with the variant price multiplier.
		assert.GreaterOrEqual(t, float64(offer.Price), profile.Inventory.BasePrice*0.8*1.03-0.5)
		assert.GreaterOrEqual(t, offer.DeliveryDays, 1)
	}
}

func TestGenerateCarbonFocusOrdering(t *testing.T) {
	eco := profileByID(t, "seller_eco_premium")
	budget := profileByID(t, "seller_budget")

	policy := NewOfferPolicy(NewSeededRand(29), 0.8)

	var ecoSum, budgetSum float64
	const n = 300
	for i := 0; i < n; i++ {
		ecoSum += policy.Generate(eco, "shirt", 1, "hi", 1, model.PriorityCarbon, model.NoVariant).CarbonFootprint
		budgetSum += policy.Generate(budget, "shirt", 1, "hi", 1, model.PriorityCarbon, model.NoVariant).CarbonFootprint
	}

	// Sustainability specialists sharpen their footprint under a carbon
	// priority while low-focus sellers drift slightly worse.
	assert.Less(t, ecoSum/n, 12.0*0.9)
	assert.Greater(t, budgetSum/n, 22.0*0.98)
}
