package agent

import (
	"github.com/cartai/negotiation-platform/internal/model"
)

// DefaultSellerProfiles is the built-in seller roster. Base terms and
// tactics shape both the offer policy and prompt construction.
var DefaultSellerProfiles = []model.SellerProfile{
	{
		ID:    "seller_eco_premium",
		Name:  "EcoSupply",
		Model: "gpt-4o",
		Personality: model.Personality{
			SustainabilityFocus:    model.SustainVeryHigh,
			PricePoint:             model.PricePremium,
			NegotiationFlexibility: model.FlexMedium,
		},
		Inventory: model.Inventory{
			BasePrice:       120,
			CarbonFootprint: 12,
			DeliveryDays:    5,
			Certifications:  []string{"B-Corp", "Carbon-Neutral", "Fair Trade"},
		},
		Tactics: []string{
			"Emphasize quality and certifications",
			"Provide detailed carbon breakdowns",
			"Willing to slightly reduce price for bulk orders",
		},
	},
	{
		ID:    "seller_fast_trader",
		Name:  "QuickShip",
		Model: "gpt-4o-mini",
		Personality: model.Personality{
			SustainabilityFocus:    model.SustainMedium,
			PricePoint:             model.PriceMid,
			NegotiationFlexibility: model.FlexVeryHigh,
		},
		Inventory: model.Inventory{
			BasePrice:       95,
			CarbonFootprint: 18,
			DeliveryDays:    1,
			Certifications:  []string{"ISO-14001"},
		},
		Tactics: []string{
			"Lead with speed and convenience",
			"Aggressive price matching",
			"Offer tiered delivery options",
		},
	},
	{
		ID:    "seller_budget",
		Name:  "ValueGreen",
		Model: "gpt-4o-mini",
		Personality: model.Personality{
			SustainabilityFocus:    model.SustainLow,
			PricePoint:             model.PriceBudget,
			NegotiationFlexibility: model.FlexVeryHigh,
		},
		Inventory: model.Inventory{
			BasePrice:       75,
			CarbonFootprint: 22,
			DeliveryDays:    10,
			Certifications:  []string{},
		},
		Tactics: []string{
			"Undercut all competitors on price",
			"Bulk discount offers",
			"Fast to respond and adapt",
		},
	},
}

// FindProfile returns the roster profile with the given ID.
func FindProfile(roster []model.SellerProfile, id string) (model.SellerProfile, bool) {
	for _, p := range roster {
		if p.ID == id {
			return p, true
		}
	}
	return model.SellerProfile{}, false
}

// ProviderConfig names the models and the offer-term multipliers one
// backing-model configuration uses. Multipliers let side-by-side provider
// runs produce visibly different terms.
type ProviderConfig struct {
	ID           string
	Name         string
	BuyerModel   model.ModelRef
	SellerModels map[model.PricePoint]model.ModelRef
	Variant      model.ProviderVariant
}

// ProviderConfigs are the selectable provider variants for comparison
// runs.
var ProviderConfigs = map[string]ProviderConfig{
	"openrouter": {
		ID:         "openrouter",
		Name:       "OpenAI GPT",
		BuyerModel: "gpt-4o-mini",
		SellerModels: map[model.PricePoint]model.ModelRef{
			model.PricePremium: "gpt-4o",
			model.PriceMid:     "gpt-4o-mini",
			model.PriceBudget:  "gpt-4o-mini",
		},
		Variant: model.ProviderVariant{Name: "openrouter", PriceMultiplier: 1.0, CarbonMultiplier: 1.0},
	},
	"anthropic": {
		ID:         "anthropic",
		Name:       "Anthropic Claude",
		BuyerModel: "claude-3-haiku-20240307",
		SellerModels: map[model.PricePoint]model.ModelRef{
			model.PricePremium: "claude-3-5-sonnet-20241022",
			model.PriceMid:     "claude-3-5-haiku-20241022",
			model.PriceBudget:  "claude-3-haiku-20240307",
		},
		Variant: model.ProviderVariant{Name: "anthropic", PriceMultiplier: 0.98, CarbonMultiplier: 0.96},
	},
	"gemini": {
		ID:         "gemini",
		Name:       "Sherlock",
		BuyerModel: "gpt-4o-mini",
		SellerModels: map[model.PricePoint]model.ModelRef{
			model.PricePremium: "gpt-4o",
			model.PriceMid:     "gpt-4o-mini",
			model.PriceBudget:  "gpt-4o-mini",
		},
		Variant: model.ProviderVariant{Name: "gemini", PriceMultiplier: 1.03, CarbonMultiplier: 1.05, DeliveryShift: 1},
	},
}

// ProviderConfigFor returns the named provider config, defaulting to
// openrouter for unknown names.
func ProviderConfigFor(name string) ProviderConfig {
	if cfg, ok := ProviderConfigs[name]; ok {
		return cfg
	}
	return ProviderConfigs["openrouter"]
}

// BuyerConfigFor derives buyer constraints and style from the chosen
// priority and per-unit budget.
func BuyerConfigFor(priority model.Priority, budget float64) model.BuyerConfig {
	switch priority {
	case model.PrioritySpeed:
		return model.BuyerConfig{
			PrimaryGoal:      "minimize_delivery_time",
			MaxPrice:         budget * 1.3,
			MaxDays:          2,
			NegotiationStyle: "urgent",
		}
	case model.PriorityCarbon:
		maxCarbon := 15.0
		return model.BuyerConfig{
			PrimaryGoal:      "minimize_carbon",
			MaxPrice:         budget * 1.1,
			MaxCarbon:        &maxCarbon,
			MaxDays:          14,
			NegotiationStyle: "analytical",
		}
	default:
		return model.BuyerConfig{
			PrimaryGoal:      "minimize_price",
			MaxPrice:         budget,
			MaxDays:          7,
			NegotiationStyle: "aggressive",
		}
	}
}
