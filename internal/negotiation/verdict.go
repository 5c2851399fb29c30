package negotiation

import (
	"fmt"
	"math"

	"github.com/cartai/negotiation-platform/internal/model"
)

// Budget-ratio thresholds for the single-seller verdict. Hand-tuned in
// the product; kept exactly rather than re-derived.
const (
	ratioBuyerWin   = 0.85
	ratioFairLow    = 0.95
	ratioFairHigh   = 1.05
	ratioSellerEdge = 1.15
)

// ClassifyOutcome classifies a single-seller negotiation by the ratio of
// final price to total budget and renders the matching rationale.
func ClassifyOutcome(priority model.Priority, finalOffer model.Offer, budget float64, quantity int) (model.Verdict, string) {
	budgetTotal := budget * float64(quantity)
	pricePerUnit := float64(finalOffer.Price) / float64(quantity)
	priceRatio := pricePerUnit / budget

	name := finalOffer.SellerName
	days := finalOffer.DeliveryDays
	carbon := finalOffer.CarbonFootprint

	switch {
	case priceRatio <= ratioBuyerWin:
		saved := int(math.Round(budgetTotal - float64(finalOffer.Price)))
		pct := int(math.Round((1 - priceRatio) * 100))
		return model.VerdictBuyer, fmt.Sprintf(
			"Excellent negotiation! %s agreed to $%d (%d%% under your budget). You saved $%d with %d days delivery and %.0fkg CO2 footprint. %s made concessions to win your business.",
			name, finalOffer.Price, pct, saved, days, carbon, name)

	case priceRatio <= ratioFairLow:
		pct := int(math.Round((1 - priceRatio) * 100))
		return model.VerdictFair, fmt.Sprintf(
			"Good negotiation! %s offered $%d (%d%% under budget). Fair deal with %d days delivery and %.0fkg CO2. Both parties made reasonable compromises.",
			name, finalOffer.Price, pct, days, carbon)

	case priceRatio <= ratioFairHigh:
		return model.VerdictFair, fmt.Sprintf(
			"%s held firm at $%d (near your $%d budget). They maintained their pricing but delivered on %d days and %.0fkg CO2. Market-rate deal.",
			name, finalOffer.Price, int(math.Round(budgetTotal)), days, carbon)

	case priceRatio <= ratioSellerEdge:
		pct := int(math.Round((priceRatio - 1) * 100))
		quality := "quality"
		if len(finalOffer.Certifications) > 0 {
			quality = "certified quality"
		}
		return model.VerdictSeller, fmt.Sprintf(
			"%s stayed strong at $%d (%d%% over your $%d budget). They defended their premium pricing for %d-day delivery and %.0fkg CO2. Consider if the %s justifies the premium.",
			name, finalOffer.Price, pct, int(math.Round(budgetTotal)), days, carbon, quality)

	default:
		pct := int(math.Round((priceRatio - 1) * 100))
		var bet string
		switch priority {
		case model.PrioritySpeed:
			bet = fmt.Sprintf("fast %d-day delivery", days)
		case model.PriorityCarbon:
			bet = fmt.Sprintf("low %.0fkg carbon footprint", carbon)
		default:
			bet = "quality and certifications"
		}
		return model.VerdictSeller, fmt.Sprintf(
			"%s held firm at $%d (%d%% over budget). They maintained premium pricing, betting on their %s. They won this negotiation by not backing down.",
			name, finalOffer.Price, pct, bet)
	}
}
