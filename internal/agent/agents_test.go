package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartai/negotiation-platform/internal/llm"
	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/pkg/logger"
)

// failingClient always errors, forcing the fallback retry and then the
// canned response.
type failingClient struct{}

func (failingClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return nil, errors.New("upstream unavailable")
}
func (failingClient) Name() string     { return "failing" }
func (failingClient) Models() []string { return nil }

func TestBuyerDegradesWhenAllClientsFail(t *testing.T) {
	registry := llm.NewRegistry(failingClient{}, failingClient{})
	buyer := NewBuyer(registry, "gpt-4o-mini", 6, logger.NewNop())

	cfg := BuyerConfigFor(model.PriorityPrice, 100)
	msg := buyer.OpeningRequest(context.Background(), "toothbrush", 50, model.PriorityPrice, cfg, "Alex")
	assert.Equal(t,
		"Dear Seller, I need 50 toothbrush at best possible price. Must deliver within 7 days. Best regards, Alex",
		msg)
}

func TestBuyerOpeningRequestFallbacks(t *testing.T) {
	buyer := NewBuyer(nil, "gpt-4o-mini", 6, logger.NewNop())
	ctx := context.Background()

	tests := []struct {
		priority model.Priority
		want     string
	}{
		{model.PrioritySpeed, "fastest possible delivery"},
		{model.PriorityCarbon, "lowest carbon footprint"},
		{model.PriorityPrice, "best possible price"},
	}

	for _, tt := range tests {
		cfg := BuyerConfigFor(tt.priority, 100)
		msg := buyer.OpeningRequest(ctx, "toothbrush", 50, tt.priority, cfg, "Alex")
		assert.Contains(t, msg, tt.want, tt.priority)
		assert.Contains(t, msg, "Dear Seller,")
		assert.Contains(t, msg, "Best regards, Alex")
	}
}

func TestBuyerCounterFallbackTargetsBest(t *testing.T) {
	buyer := NewBuyer(nil, "gpt-4o-mini", 6, logger.NewNop())
	ctx := context.Background()

	offers := []model.Offer{
		{ID: "a", SellerName: "EcoSupply", Price: 110, CarbonFootprint: 11, DeliveryDays: 5},
		{ID: "b", SellerName: "ValueGreen", Price: 70, CarbonFootprint: 21, DeliveryDays: 9},
	}

	cfg := BuyerConfigFor(model.PriorityPrice, 100)
	msg := buyer.Counter(ctx, "toothbrush", 50, model.PriorityPrice, cfg, offers, 2, "Alex")
	assert.Contains(t, msg, "@ValueGreen")
	assert.Contains(t, msg, "go lower")

	cfg = BuyerConfigFor(model.PriorityCarbon, 100)
	msg = buyer.Counter(ctx, "toothbrush", 50, model.PriorityCarbon, cfg, offers, 2, "Alex")
	assert.Contains(t, msg, "@EcoSupply")
	assert.Contains(t, msg, "carbon")
}

func TestBuyerCounterSingleOffer(t *testing.T) {
	buyer := NewBuyer(nil, "gpt-4o-mini", 4, logger.NewNop())

	offers := []model.Offer{
		{ID: "only", SellerName: "QuickShip", Price: 90, CarbonFootprint: 18, DeliveryDays: 2},
	}
	cfg := BuyerConfigFor(model.PrioritySpeed, 100)
	msg := buyer.Counter(context.Background(), "laptop stand", 3, model.PrioritySpeed, cfg, offers, 1, "Dana")
	assert.Contains(t, msg, "@QuickShip")
}

func TestSellerReplyFallbackByProfile(t *testing.T) {
	seller := NewSeller(nil, NewOfferPolicy(NewSeededRand(1), 0.8), nil, logger.NewNop())
	ctx := context.Background()

	eco, _ := FindProfile(DefaultSellerProfiles, "seller_eco_premium")
	budget, _ := FindProfile(DefaultSellerProfiles, "seller_budget")
	fast, _ := FindProfile(DefaultSellerProfiles, "seller_fast_trader")

	offer := model.Offer{Price: 4000, DeliveryDays: 5, Certifications: eco.Inventory.Certifications}
	msg := seller.Reply(ctx, eco, "toothbrush", 50, "hello", offer, "Alex")
	assert.Contains(t, msg, "premium sustainable")
	assert.Contains(t, msg, "B-Corp & Carbon-Neutral & Fair Trade")

	offer = model.Offer{Price: 3000, DeliveryDays: 10}
	msg = seller.Reply(ctx, budget, "toothbrush", 50, "hello", offer, "Alex")
	assert.Contains(t, msg, "best price in the market")

	offer = model.Offer{Price: 4500, DeliveryDays: 1}
	msg = seller.Reply(ctx, fast, "toothbrush", 50, "hello", offer, "Alex")
	assert.Contains(t, msg, "in 1 day for $4500")
}

func TestSellerModelForTierMapping(t *testing.T) {
	models := map[model.PricePoint]model.ModelRef{
		model.PricePremium: "claude-3-5-sonnet-20241022",
	}
	seller := NewSeller(nil, nil, models, logger.NewNop())

	eco, _ := FindProfile(DefaultSellerProfiles, "seller_eco_premium")
	fast, _ := FindProfile(DefaultSellerProfiles, "seller_fast_trader")

	assert.Equal(t, model.ModelRef("claude-3-5-sonnet-20241022"), seller.ModelFor(eco))
	// No tier mapping falls back to the profile's own model label.
	assert.Equal(t, fast.Model, seller.ModelFor(fast))
}

func TestReasonerFallbacks(t *testing.T) {
	reasoner := NewReasoner(nil, "gpt-4o", logger.NewNop())
	ctx := context.Background()

	winner := model.Offer{
		SellerName:      "EcoSupply",
		Price:           5500,
		CarbonFootprint: 10,
		DeliveryDays:    5,
		Certifications:  []string{"B-Corp", "Fair Trade"},
	}

	msg := reasoner.Reasoning(ctx, model.PriorityCarbon, winner, nil)
	assert.Contains(t, msg, "lowest carbon footprint")
	assert.Contains(t, msg, "B-Corp and Fair Trade")

	msg = reasoner.Reasoning(ctx, model.PrioritySpeed, winner, nil)
	assert.Contains(t, msg, "fastest delivery time of 5 days")

	msg = reasoner.Reasoning(ctx, model.PriorityPrice, winner, nil)
	assert.Contains(t, msg, "best value at $5500")
}

func TestBuyerConfigFor(t *testing.T) {
	speed := BuyerConfigFor(model.PrioritySpeed, 100)
	assert.Equal(t, 130.0, speed.MaxPrice)
	assert.Equal(t, 2, speed.MaxDays)
	assert.Equal(t, "urgent", speed.NegotiationStyle)
	assert.Nil(t, speed.MaxCarbon)

	carbon := BuyerConfigFor(model.PriorityCarbon, 100)
	assert.InDelta(t, 110.0, carbon.MaxPrice, 1e-9)
	require.NotNil(t, carbon.MaxCarbon)
	assert.Equal(t, 15.0, *carbon.MaxCarbon)
	assert.Equal(t, 14, carbon.MaxDays)

	price := BuyerConfigFor(model.PriorityPrice, 100)
	assert.Equal(t, 100.0, price.MaxPrice)
	assert.Equal(t, 7, price.MaxDays)
	assert.Equal(t, "aggressive", price.NegotiationStyle)
}

func TestProviderConfigFor(t *testing.T) {
	cfg := ProviderConfigFor("anthropic")
	assert.Equal(t, "anthropic", cfg.ID)
	assert.Equal(t, 0.98, cfg.Variant.PriceMultiplier)

	// Unknown providers fall back to the default.
	cfg = ProviderConfigFor("nonsense")
	assert.Equal(t, "openrouter", cfg.ID)

	cfg = ProviderConfigFor("gemini")
	assert.Equal(t, 1, cfg.Variant.DeliveryShift)
}

func TestFindProfile(t *testing.T) {
	p, ok := FindProfile(DefaultSellerProfiles, "seller_budget")
	require.True(t, ok)
	assert.Equal(t, "ValueGreen", p.Name)

	_, ok = FindProfile(DefaultSellerProfiles, "seller_missing")
	assert.False(t, ok)
}
