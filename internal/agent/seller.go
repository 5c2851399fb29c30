package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cartai/negotiation-platform/internal/llm"
	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/pkg/logger"
)

// Seller produces seller-side offers and replies for any roster profile.
// Offer generation is the local stochastic policy; only the accompanying
// reply text involves the backing LLM.
type Seller struct {
	registry *llm.Registry
	policy   *OfferPolicy
	models   map[model.PricePoint]model.ModelRef
	logger   *logger.Logger
}

// NewSeller creates an LLM-backed seller agent. The models map assigns a
// backing model per price tier; a profile's own model label is used when
// no tier mapping exists.
func NewSeller(registry *llm.Registry, policy *OfferPolicy, models map[model.PricePoint]model.ModelRef, log *logger.Logger) *Seller {
	if policy == nil {
		policy = NewOfferPolicy(nil, 0.8)
	}
	if log == nil {
		log = logger.Global()
	}
	return &Seller{registry: registry, policy: policy, models: models, logger: log}
}

// Offer computes the profile's next-round commercial terms. Pure local
// arithmetic; never fails.
func (s *Seller) Offer(profile model.SellerProfile, product string, quantity int, buyerMessage string, round int, priority model.Priority, variant model.ProviderVariant) model.Offer {
	return s.policy.Generate(profile, product, quantity, buyerMessage, round, priority, variant)
}

// Reply produces the seller's natural-language response accompanying an
// offer. Degrades to a profile-keyed fallback on LLM failure.
func (s *Seller) Reply(ctx context.Context, profile model.SellerProfile, product string, quantity int, buyerMessage string, offer model.Offer, buyerName string) string {
	certs := strings.Join(offer.Certifications, ", ")
	if certs == "" {
		certs = "None"
	}

	prompt := fmt.Sprintf(`You are %s, a seller with these characteristics:
- Sustainability focus: %s
- Price point: %s
- Your current offer: $%d total, %.0fkg CO2, %d days delivery
- Your certifications: %s
- Your tactics: %s

Product: %d %s

Buyer (%s) said: "%s"

Respond as this seller in 1-2 sentences. Address the buyer by their name "%s". Be strategic, stay in character, and highlight your strengths.
Keep it under 50 words. Be persuasive but not pushy.`,
		profile.Name, profile.Personality.SustainabilityFocus, profile.Personality.PricePoint,
		offer.Price, offer.CarbonFootprint, offer.DeliveryDays, certs,
		strings.Join(profile.Tactics, "; "),
		quantity, product, buyerName, buyerMessage, buyerName)

	ref := s.modelFor(profile)
	if content := complete(ctx, s.registry, ref, "seller", prompt, 0.8, s.logger); content != "" {
		return content
	}

	return fallbackReply(profile, offer, quantity, product, buyerName)
}

// ModelFor exposes the backing model label used for a profile's replies.
func (s *Seller) ModelFor(profile model.SellerProfile) model.ModelRef {
	return s.modelFor(profile)
}

func (s *Seller) modelFor(profile model.SellerProfile) model.ModelRef {
	if ref, ok := s.models[profile.Personality.PricePoint]; ok && ref != "" {
		return ref
	}
	return profile.Model
}

func fallbackReply(profile model.SellerProfile, offer model.Offer, quantity int, product, buyerName string) string {
	switch {
	case profile.Personality.SustainabilityFocus == model.SustainVeryHigh:
		return fmt.Sprintf("Dear %s, we offer premium sustainable %s with %s certifications at $%d.",
			buyerName, product, strings.Join(offer.Certifications, " & "), offer.Price)
	case profile.Personality.PricePoint == model.PriceBudget:
		return fmt.Sprintf("Dear %s, best price in the market - $%d for %d units. Ready to ship in %d days!",
			buyerName, offer.Price, quantity, offer.DeliveryDays)
	default:
		plural := ""
		if offer.DeliveryDays > 1 {
			plural = "s"
		}
		return fmt.Sprintf("Dear %s, we can deliver %d %s in %d day%s for $%d.",
			buyerName, quantity, product, offer.DeliveryDays, plural, offer.Price)
	}
}
