package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cartai/negotiation-platform/internal/llm"
	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/pkg/logger"
	"github.com/cartai/negotiation-platform/pkg/metrics"
)

// Buyer produces the buyer side of a negotiation. Implementations never
// return errors: a failed backing call degrades to a deterministic
// priority-keyed fallback string so the engine's control flow stays
// error-free on agent failures.
type Buyer struct {
	registry    *llm.Registry
	model       model.ModelRef
	totalRounds int
	logger      *logger.Logger
}

// NewBuyer creates an LLM-backed buyer agent.
func NewBuyer(registry *llm.Registry, modelRef model.ModelRef, totalRounds int, log *logger.Logger) *Buyer {
	if totalRounds <= 0 {
		totalRounds = 6
	}
	if log == nil {
		log = logger.Global()
	}
	return &Buyer{registry: registry, model: modelRef, totalRounds: totalRounds, logger: log}
}

// Model returns the buyer's backing model label.
func (b *Buyer) Model() model.ModelRef {
	return b.model
}

// OpeningRequest produces the first-round outbound message.
func (b *Buyer) OpeningRequest(ctx context.Context, product string, quantity int, priority model.Priority, cfg model.BuyerConfig, buyerName string) string {
	priorityDescriptions := map[model.Priority]string{
		model.PrioritySpeed:  "fastest possible delivery",
		model.PriorityCarbon: "lowest environmental impact with verified sustainability",
		model.PriorityPrice:  "best price while maintaining quality",
	}

	var carbonLine string
	if cfg.MaxCarbon != nil {
		carbonLine = fmt.Sprintf("Target carbon: Under %.0fkg CO2\n", *cfg.MaxCarbon)
	}

	prompt := fmt.Sprintf(`You are a professional buyer agent representing %s.

Product needed: %d %s
Primary priority: %s
Budget: $%.0f
%sMax delivery time: %d days

Write a clear, professional opening request to sellers (2-3 sentences).
Start with "Dear Seller," and sign off with "Best regards, %s".
Emphasize your priority (%s) and be specific about requirements.
Keep it under 60 words total.`,
		buyerName, quantity, product, priorityDescriptions[priority],
		cfg.MaxPrice, carbonLine, cfg.MaxDays, buyerName, priority)

	if content := complete(ctx, b.registry, b.model, "buyer", prompt, 0.8, b.logger); content != "" {
		return content
	}

	switch priority {
	case model.PrioritySpeed:
		return fmt.Sprintf("Dear Seller, I am seeking %d %s with fastest possible delivery (ideally 1-2 days). Budget is flexible for speed. Please confirm availability and delivery within 7 days. Best regards, %s", quantity, product, buyerName)
	case model.PriorityCarbon:
		return fmt.Sprintf("Dear Seller, Seeking %d %s with lowest carbon footprint. Must have verified sustainability certifications. Willing to wait for eco-friendly options. Best regards, %s", quantity, product, buyerName)
	default:
		return fmt.Sprintf("Dear Seller, I need %d %s at best possible price. Must deliver within %d days. Best regards, %s", quantity, product, cfg.MaxDays, buyerName)
	}
}

// Counter produces a strategic response given the current slate of
// offers. Tolerates a singleton offer set for single-seller mode.
func (b *Buyer) Counter(ctx context.Context, product string, quantity int, priority model.Priority, cfg model.BuyerConfig, offers []model.Offer, round int, buyerName string) string {
	best := bestByPriority(offers, priority)

	var offerLines []string
	for _, o := range offers {
		certs := strings.Join(o.Certifications, ", ")
		if certs == "" {
			certs = "No certs"
		}
		offerLines = append(offerLines,
			fmt.Sprintf("%s: $%d, %.0fkg CO2, %d days, [%s]", o.SellerName, o.Price, o.CarbonFootprint, o.DeliveryDays, certs))
	}

	prompt := fmt.Sprintf(`You are a strategic buyer agent representing %s. Round %d/%d of negotiation.

Your priority: %s
Your budget cap: $%.0f, max delivery: %d days
Product: %d %s

Current offers:
%s

Current best offer (by your priority): %s

Task: Respond strategically to push for better terms on your PRIMARY goal (%s).
- Reference specific sellers and their offers
- Be persuasive but professional
- Keep under 50 words

Your response:`,
		buyerName, round, b.totalRounds, priority, cfg.MaxPrice, cfg.MaxDays,
		quantity, product, strings.Join(offerLines, "\n"), best.SellerName, priority)

	if content := complete(ctx, b.registry, b.model, "buyer", prompt, 0.85, b.logger); content != "" {
		return content
	}

	switch {
	case priority == model.PrioritySpeed && best.DeliveryDays > 1:
		return fmt.Sprintf("@%s - Can you deliver faster than %d days? We need this urgently.", best.SellerName, best.DeliveryDays)
	case priority == model.PriorityCarbon:
		return fmt.Sprintf("@%s - Your carbon footprint looks good. Can you provide detailed breakdown and certifications?", best.SellerName)
	default:
		return fmt.Sprintf("@%s - Competitive price, but can you go lower? We're comparing multiple suppliers.", best.SellerName)
	}
}

// bestByPriority picks the offer minimizing the priority metric, first
// seen winning ties. Callers guarantee a non-empty slice.
func bestByPriority(offers []model.Offer, priority model.Priority) model.Offer {
	best := offers[0]
	for _, o := range offers[1:] {
		switch priority {
		case model.PrioritySpeed:
			if o.DeliveryDays < best.DeliveryDays {
				best = o
			}
		case model.PriorityCarbon:
			if o.CarbonFootprint < best.CarbonFootprint {
				best = o
			}
		default:
			if o.Price < best.Price {
				best = o
			}
		}
	}
	return best
}

// complete runs one LLM call with a single fallback-model retry. Returns
// an empty string when both attempts fail so callers can degrade to their
// canned response.
func complete(ctx context.Context, registry *llm.Registry, ref model.ModelRef, role, prompt string, temperature float64, log *logger.Logger) string {
	if registry == nil {
		metrics.AgentFallbacksTotal.WithLabelValues(role).Inc()
		return ""
	}

	client := registry.ClientFor(ref)
	if client == nil {
		metrics.AgentFallbacksTotal.WithLabelValues(role).Inc()
		return ""
	}

	req := &llm.CompletionRequest{
		Model:       string(ref),
		Messages:    []llm.ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   256,
		Temperature: temperature,
	}

	start := time.Now()
	resp, err := client.Complete(ctx, req)
	if err == nil && resp.Content != "" {
		metrics.RecordAgentCall(role, resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
		return strings.TrimSpace(resp.Content)
	}
	metrics.RecordAgentCall(role, string(ref), "error", time.Since(start).Seconds(), 0, 0)
	log.Warn("agent call failed, trying fallback model", "role", role, "model", ref, "error", err)

	if fallback := registry.Fallback(client); fallback != nil && fallback != client {
		start = time.Now()
		resp, err = fallback.Complete(ctx, &llm.CompletionRequest{
			Messages:    req.Messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
		if err == nil && resp.Content != "" {
			metrics.RecordAgentCall(role, resp.Model, "fallback", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
			return strings.TrimSpace(resp.Content)
		}
	}

	metrics.AgentFallbacksTotal.WithLabelValues(role).Inc()
	return ""
}
