package negotiation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartai/negotiation-platform/internal/agent"
	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/pkg/logger"
)

// testAgents builds agents with no LLM registry so every text method
// takes its deterministic fallback path.
func testAgents(rounds int) Agents {
	log := logger.NewNop()
	return Agents{
		Buyer:    agent.NewBuyer(nil, "gpt-4o-mini", rounds, log),
		Seller:   agent.NewSeller(nil, agent.NewOfferPolicy(agent.NewSeededRand(42), 0.8), nil, log),
		Reasoner: agent.NewReasoner(nil, "gpt-4o", log),
	}
}

func collectUpdates(updates *[]model.NegotiationUpdate) UpdateFunc {
	return func(u model.NegotiationUpdate) {
		*updates = append(*updates, u)
	}
}

func multiConfig(priority model.Priority) Config {
	return Config{
		Product:   "bamboo toothbrush",
		Quantity:  50,
		Budget:    100,
		Priority:  priority,
		BuyerName: "Customer",
		Roster:    agent.DefaultSellerProfiles,
		Rounds:    6,
		Logger:    logger.NewNop(),
	}
}

func TestRunMultiSellerEventCounts(t *testing.T) {
	var updates []model.NegotiationUpdate

	result, err := RunMultiSeller(context.Background(), multiConfig(model.PriorityPrice), testAgents(6), collectUpdates(&updates))
	require.NoError(t, err)
	require.NotNil(t, result)

	var messages, metrics, completes int
	for _, u := range updates {
		switch u.Type {
		case model.UpdateMessage:
			messages++
		case model.UpdateMetric:
			metrics++
		case model.UpdateComplete:
			completes++
		}
	}

	// 6 rounds over 3 sellers: one buyer message plus one message per
	// seller each round.
	assert.Equal(t, 24, messages)
	assert.Equal(t, 6, metrics)
	assert.Equal(t, 1, completes)

	// The complete event is terminal and carries the returned result.
	last := updates[len(updates)-1]
	require.Equal(t, model.UpdateComplete, last.Type)
	assert.Equal(t, result, last.Result)
}

func TestRunMultiSellerProgressMonotone(t *testing.T) {
	var updates []model.NegotiationUpdate

	_, err := RunMultiSeller(context.Background(), multiConfig(model.PriorityCarbon), testAgents(6), collectUpdates(&updates))
	require.NoError(t, err)

	prev := 0.0
	count := 0
	for _, u := range updates {
		if u.Type != model.UpdateMetric {
			continue
		}
		require.NotNil(t, u.CurrentBest)
		assert.GreaterOrEqual(t, u.Progress, prev)
		prev = u.Progress
		count++
	}
	require.Equal(t, 6, count)
	assert.InDelta(t, 100.0, prev, 1e-9)
}

func TestRunMultiSellerPricePriorityWinner(t *testing.T) {
	var updates []model.NegotiationUpdate

	result, err := RunMultiSeller(context.Background(), multiConfig(model.PriorityPrice), testAgents(6), collectUpdates(&updates))
	require.NoError(t, err)

	// ValueGreen's price band never overlaps the others under the 80%
	// floor, so it always wins on price.
	assert.Equal(t, "seller_budget", result.Winner.SellerID)
	assert.LessOrEqual(t, len(result.Alternatives), 2)
	for _, alt := range result.Alternatives {
		assert.NotEqual(t, result.Winner.ID, alt.ID)
	}
	assert.GreaterOrEqual(t, result.CarbonSaved, 0.0)
	assert.GreaterOrEqual(t, result.CarbonSavedInMiles, 0)
	assert.Equal(t, 6, result.TotalRounds)
	assert.NotEmpty(t, result.Reasoning)
	assert.Empty(t, result.Verdict)
}

func TestRunMultiSellerFallbackMessages(t *testing.T) {
	var updates []model.NegotiationUpdate

	_, err := RunMultiSeller(context.Background(), multiConfig(model.PriorityPrice), testAgents(6), collectUpdates(&updates))
	require.NoError(t, err)

	// No LLM configured: the opening message is the canned price-priority
	// request, verbatim.
	require.Equal(t, model.UpdateMessage, updates[0].Type)
	assert.Equal(t,
		"Dear Seller, I need 50 bamboo toothbrush at best possible price. Must deliver within 7 days. Best regards, Customer",
		updates[0].Message.Content)

	for _, u := range updates {
		if u.Type != model.UpdateMessage {
			continue
		}
		assert.NotEmpty(t, u.Message.Content)
		assert.NotEmpty(t, u.Message.ID)
		if u.Message.Role == model.RoleSeller {
			require.NotNil(t, u.Message.Offer)
			assert.Equal(t, u.Message.SellerID, u.Message.Offer.SellerID)
		} else {
			assert.Nil(t, u.Message.Offer)
		}
	}
}

func TestRunMultiSellerValidation(t *testing.T) {
	cfg := multiConfig(model.PriorityPrice)
	cfg.Product = ""

	_, err := RunMultiSeller(context.Background(), cfg, testAgents(6), nil)
	assert.Error(t, err)

	cfg = multiConfig(model.PriorityPrice)
	cfg.Priority = "cheapest"
	_, err = RunMultiSeller(context.Background(), cfg, testAgents(6), nil)
	assert.Error(t, err)

	cfg = multiConfig(model.PriorityPrice)
	cfg.Quantity = 0
	_, err = RunMultiSeller(context.Background(), cfg, testAgents(6), nil)
	assert.Error(t, err)
}

func TestRunMultiSellerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var updates []model.NegotiationUpdate
	_, err := RunMultiSeller(ctx, multiConfig(model.PriorityPrice), testAgents(6), collectUpdates(&updates))
	require.Error(t, err)

	for _, u := range updates {
		assert.NotEqual(t, model.UpdateComplete, u.Type)
	}
}

func singleConfig() Config {
	return Config{
		Product:   "laptop stand",
		Quantity:  3,
		Budget:    100,
		Priority:  model.PriorityPrice,
		BuyerName: "Dana",
		Roster:    agent.DefaultSellerProfiles,
		Rounds:    4,
		SellerID:  "seller_fast_trader",
		Logger:    logger.NewNop(),
	}
}

func TestRunSingleSellerEventShape(t *testing.T) {
	var updates []model.NegotiationUpdate

	err := RunSingleSeller(context.Background(), singleConfig(), testAgents(4), collectUpdates(&updates))
	require.NoError(t, err)

	var messages, metrics, completes int
	var result *model.NegotiationResult
	for _, u := range updates {
		switch u.Type {
		case model.UpdateMessage:
			messages++
		case model.UpdateMetric:
			metrics++
		case model.UpdateComplete:
			completes++
			result = u.Result
		}
	}

	// Opening, then per round a seller message, with a buyer counter after
	// every round but the last.
	assert.Equal(t, 8, messages)
	assert.Equal(t, 4, metrics)
	require.Equal(t, 1, completes)

	require.NotNil(t, result)
	assert.Equal(t, "seller_fast_trader", result.Winner.SellerID)
	assert.NotEmpty(t, result.Verdict)
	assert.Contains(t, []model.Verdict{model.VerdictBuyer, model.VerdictFair, model.VerdictSeller}, result.Verdict)
	assert.Empty(t, result.Alternatives)
	assert.Zero(t, result.CarbonSaved)
	assert.Equal(t, 4, result.TotalRounds)
}

func TestRunSingleSellerUnknownSeller(t *testing.T) {
	cfg := singleConfig()
	cfg.SellerID = "seller_nobody"

	var updates []model.NegotiationUpdate
	err := RunSingleSeller(context.Background(), cfg, testAgents(4), collectUpdates(&updates))
	require.ErrorIs(t, err, ErrUnknownSeller)
	assert.Empty(t, updates)
}

func TestRunSingleSellerDefaultsRounds(t *testing.T) {
	cfg := singleConfig()
	cfg.Rounds = 0

	var metrics int
	err := RunSingleSeller(context.Background(), cfg, testAgents(4), func(u model.NegotiationUpdate) {
		if u.Type == model.UpdateMetric {
			metrics++
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 4, metrics)
}
