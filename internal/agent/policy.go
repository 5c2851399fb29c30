package agent

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/pkg/metrics"
)

// Per-round concession rate by flexibility tier. Hand-tuned constants;
// changing them changes observable negotiation outcomes.
var concessionRates = map[model.FlexibilityTier]float64{
	model.FlexVeryHigh: 0.08,
	model.FlexHigh:     0.06,
	model.FlexMedium:   0.04,
	model.FlexLow:      0.02,
}

// Probability a seller shortens delivery when the buyer optimizes for
// speed, by flexibility tier.
var speedResponseProb = map[model.FlexibilityTier]float64{
	model.FlexVeryHigh: 0.8,
	model.FlexHigh:     0.65,
	model.FlexMedium:   0.5,
	model.FlexLow:      0.35,
}

// Carbon specialization multiplier by sustainability focus, applied only
// when the buyer optimizes for carbon.
var carbonFocusMultiplier = map[model.SustainabilityTier]float64{
	model.SustainVeryHigh: 0.85,
	model.SustainHigh:     0.92,
	model.SustainMedium:   1.0,
	model.SustainLow:      1.05,
}

// OfferPolicy is the deterministic (pseudo-randomized) numeric model a
// seller runs every round. It is simulation logic, not text generation:
// no LLM call is involved.
type OfferPolicy struct {
	rng        Rand
	priceFloor float64
}

// NewOfferPolicy creates a policy with the given random source and price
// floor (fraction of base price the unit price never drops below).
func NewOfferPolicy(rng Rand, priceFloor float64) *OfferPolicy {
	if rng == nil {
		rng = NewRand()
	}
	if priceFloor <= 0 {
		priceFloor = 0.8
	}
	return &OfferPolicy{rng: rng, priceFloor: priceFloor}
}

// Generate computes a seller's next-round commercial terms.
func (p *OfferPolicy) Generate(
	profile model.SellerProfile,
	product string,
	quantity int,
	buyerMessage string,
	round int,
	priority model.Priority,
	variant model.ProviderVariant,
) model.Offer {
	unitPrice := p.unitPrice(profile, round, variant)
	days := p.deliveryDays(profile, buyerMessage, priority, variant)
	carbon := p.carbon(profile, quantity, priority, variant)

	metrics.OffersGenerated.WithLabelValues(profile.ID).Inc()

	return model.Offer{
		ID:              "offer_" + uuid.Must(uuid.NewV7()).String(),
		SellerID:        profile.ID,
		SellerName:      profile.Name,
		Price:           int(math.Round(unitPrice * float64(quantity))),
		CarbonFootprint: carbon,
		DeliveryDays:    days,
		Certifications:  profile.Inventory.Certifications,
	}
}

func (p *OfferPolicy) unitPrice(profile model.SellerProfile, round int, variant model.ProviderVariant) float64 {
	base := profile.Inventory.BasePrice
	rate := concessionRates[profile.Personality.NegotiationFlexibility]
	if rate == 0 {
		rate = concessionRates[model.FlexMedium]
	}

	stubbornness := p.rng.Float64()

	var factor float64
	switch {
	case round <= 2 && stubbornness < 0.15:
		// Early-round price test: ignore the concession and raise the
		// price by a uniform 0-5% instead.
		factor = 1 + p.rng.Float64()*0.05
	case stubbornness < 0.3:
		factor = 1 - float64(round)*rate*0.3
	case stubbornness < 0.6:
		factor = 1 - float64(round)*rate*0.7
	default:
		factor = 1 - float64(round)*rate
	}

	if factor < p.priceFloor {
		factor = p.priceFloor
	}

	variantMult := variant.PriceMultiplier
	if variantMult == 0 {
		variantMult = 1
	}

	// Small jitter so repeated runs don't produce identical offers.
	amp := 0.03 + p.rng.Float64()*0.03
	jitter := 1 + (p.rng.Float64()*2-1)*amp

	unit := base * factor * variantMult * jitter

	// The jitter must never push the price through the floor.
	if floor := base * p.priceFloor * variantMult; unit < floor {
		unit = floor
	}
	return unit
}

func (p *OfferPolicy) deliveryDays(profile model.SellerProfile, buyerMessage string, priority model.Priority, variant model.ProviderVariant) int {
	days := profile.Inventory.DeliveryDays + variant.DeliveryShift
	if days < 1 {
		days = 1
	}

	msg := strings.ToLower(buyerMessage)
	if strings.Contains(msg, "urgent") || strings.Contains(msg, "fast") {
		// 70% of sellers respond to urgency; the rest hold their schedule.
		if p.rng.Float64() < 0.7 {
			days -= 2
		}
	}

	if priority == model.PrioritySpeed {
		prob := speedResponseProb[profile.Personality.NegotiationFlexibility]
		if prob == 0 {
			prob = speedResponseProb[model.FlexMedium]
		}
		roll := p.rng.Float64()
		if roll < prob {
			days--
		} else if roll > 0.92 {
			days++
		}
	}

	if days < 1 {
		days = 1
	}
	return days
}

func (p *OfferPolicy) carbon(profile model.SellerProfile, quantity int, priority model.Priority, variant model.ProviderVariant) float64 {
	variantMult := variant.CarbonMultiplier
	if variantMult == 0 {
		variantMult = 1
	}

	amp := 0.02 + p.rng.Float64()*0.04
	jitter := 1 + (p.rng.Float64()*2-1)*amp

	perUnit := profile.Inventory.CarbonFootprint * variantMult * jitter

	if priority == model.PriorityCarbon {
		if mult, ok := carbonFocusMultiplier[profile.Personality.SustainabilityFocus]; ok {
			perUnit *= mult
		}
	}

	total := perUnit * float64(quantity)
	if total < 1 {
		total = 1
	}
	return math.Round(total*10) / 10
}
