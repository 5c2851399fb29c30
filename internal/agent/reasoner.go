package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cartai/negotiation-platform/internal/llm"
	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/pkg/logger"
)

// Reasoner explains the final decision of a multi-seller run. Like the
// other text generators it never fails: LLM trouble degrades to a
// deterministic priority-keyed sentence.
type Reasoner struct {
	registry *llm.Registry
	model    model.ModelRef
	logger   *logger.Logger
}

// NewReasoner creates an LLM-backed decision explainer.
func NewReasoner(registry *llm.Registry, modelRef model.ModelRef, log *logger.Logger) *Reasoner {
	if log == nil {
		log = logger.Global()
	}
	return &Reasoner{registry: registry, model: modelRef, logger: log}
}

// Reasoning produces a short explanation of why the winner won under the
// given priority.
func (r *Reasoner) Reasoning(ctx context.Context, priority model.Priority, winner model.Offer, alternatives []model.Offer) string {
	certs := strings.Join(winner.Certifications, ", ")
	if certs == "" {
		certs = "None"
	}

	var altLines []string
	for _, o := range alternatives {
		altLines = append(altLines, fmt.Sprintf("%s: $%d, %.0fkg CO2, %d days", o.SellerName, o.Price, o.CarbonFootprint, o.DeliveryDays))
	}

	prompt := fmt.Sprintf(`You are explaining a purchasing decision to a user who prioritized "%s".

Winning offer: %s
- Price: $%d
- Carbon: %.0fkg CO2
- Delivery: %d days
- Certifications: %s

Alternatives considered:
%s

Explain in 2-3 sentences why %s won based on the "%s" priority.
Be specific about trade-offs. Keep it under 80 words.`,
		priority, winner.SellerName, winner.Price, winner.CarbonFootprint,
		winner.DeliveryDays, certs, strings.Join(altLines, "\n"), winner.SellerName, priority)

	if content := complete(ctx, r.registry, r.model, "reasoner", prompt, 0.9, r.logger); content != "" {
		return content
	}

	switch priority {
	case model.PrioritySpeed:
		plural := ""
		if winner.DeliveryDays > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%s won with the fastest delivery time of %d day%s, meeting your urgent needs while maintaining reasonable pricing.",
			winner.SellerName, winner.DeliveryDays, plural)
	case model.PriorityCarbon:
		return fmt.Sprintf("%s had the lowest carbon footprint at %.0fkg CO2 with verified %s certifications, making it the most sustainable choice.",
			winner.SellerName, winner.CarbonFootprint, strings.Join(winner.Certifications, " and "))
	default:
		return fmt.Sprintf("%s offered the best value at $%d, saving you money while meeting delivery requirements and maintaining quality standards.",
			winner.SellerName, winner.Price)
	}
}
