package negotiation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cartai/negotiation-platform/internal/agent"
	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/pkg/logger"
)

// ErrUnknownSeller signals a single-seller config referencing a seller id
// missing from the roster. Fatal before any agent call is made.
var ErrUnknownSeller = errors.New("negotiation: unknown seller")

// BuyerAgent is the buyer capability contract. Implementations absorb
// their own transient failures: text methods never error, returning a
// deterministic fallback instead.
type BuyerAgent interface {
	OpeningRequest(ctx context.Context, product string, quantity int, priority model.Priority, cfg model.BuyerConfig, buyerName string) string
	Counter(ctx context.Context, product string, quantity int, priority model.Priority, cfg model.BuyerConfig, offers []model.Offer, round int, buyerName string) string
	Model() model.ModelRef
}

// SellerAgent is the seller capability contract. Offer generation is
// local deterministic arithmetic and never fails; Reply follows the same
// fallback discipline as the buyer methods.
type SellerAgent interface {
	Offer(profile model.SellerProfile, product string, quantity int, buyerMessage string, round int, priority model.Priority, variant model.ProviderVariant) model.Offer
	Reply(ctx context.Context, profile model.SellerProfile, product string, quantity int, buyerMessage string, offer model.Offer, buyerName string) string
	ModelFor(profile model.SellerProfile) model.ModelRef
}

// DecisionReasoner explains the final multi-seller decision.
type DecisionReasoner interface {
	Reasoning(ctx context.Context, priority model.Priority, winner model.Offer, alternatives []model.Offer) string
}

// Agents bundles the injected agent implementations for one run.
type Agents struct {
	Buyer    BuyerAgent
	Seller   SellerAgent
	Reasoner DecisionReasoner
}

// UpdateFunc receives every event of a run, synchronously and in causal
// order.
type UpdateFunc func(model.NegotiationUpdate)

// Config holds the immutable per-run inputs.
type Config struct {
	Product   string
	Quantity  int
	Budget    float64
	Priority  model.Priority
	BuyerName string
	Roster    []model.SellerProfile

	// Rounds defaults to 6 in multi-seller mode and 4 in single-seller
	// mode when zero.
	Rounds int

	// Variant applies provider-comparison multipliers to generated
	// offers. Zero value means no adjustment.
	Variant model.ProviderVariant

	// SellerID selects the counterparty in single-seller mode.
	SellerID string

	// StepDelay paces the stream between message emissions; RoundDelay
	// after each metric. Purely cosmetic, zero disables pacing.
	StepDelay  time.Duration
	RoundDelay time.Duration

	Logger *logger.Logger
}

func (c *Config) validate() error {
	if c.Product == "" {
		return errors.New("negotiation: product is required")
	}
	if c.Quantity <= 0 {
		return errors.New("negotiation: quantity must be positive")
	}
	if c.Budget <= 0 {
		return errors.New("negotiation: budget must be positive")
	}
	if !c.Priority.Valid() {
		return fmt.Errorf("negotiation: invalid priority %q", c.Priority)
	}
	if len(c.Roster) == 0 {
		return errors.New("negotiation: seller roster is empty")
	}
	return nil
}

// engine owns one run's mutable state: the offer history and transcript
// are written by exactly one engine instance.
type engine struct {
	cfg       Config
	agents    Agents
	onUpdate  UpdateFunc
	buyerCfg  model.BuyerConfig
	allOffers []model.Offer
	messages  []model.AgentMessage
	log       *logger.Logger
}

func newEngine(cfg Config, agents Agents, onUpdate UpdateFunc) *engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Global()
	}
	if onUpdate == nil {
		onUpdate = func(model.NegotiationUpdate) {}
	}
	return &engine{
		cfg:      cfg,
		agents:   agents,
		onUpdate: onUpdate,
		buyerCfg: agent.BuyerConfigFor(cfg.Priority, cfg.Budget),
		log:      log,
	}
}

// RunMultiSeller drives a full multi-seller negotiation: R fixed rounds
// of buyer message plus per-seller offer and reply, a metric event per
// round, and a final ranked decision. The returned result is the same
// value carried by the terminal complete event.
func RunMultiSeller(ctx context.Context, cfg Config, agents Agents, onUpdate UpdateFunc) (*model.NegotiationResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 6
	}

	e := newEngine(cfg, agents, onUpdate)
	return e.runMulti(ctx)
}

// RunSingleSeller negotiates with exactly one roster seller and derives a
// buyer/seller/fair verdict from the price-to-budget ratio. Completion is
// signaled only via the complete event.
func RunSingleSeller(ctx context.Context, cfg Config, agents Agents, onUpdate UpdateFunc) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 4
	}

	if _, ok := agent.FindProfile(cfg.Roster, cfg.SellerID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSeller, cfg.SellerID)
	}

	e := newEngine(cfg, agents, onUpdate)
	return e.runSingle(ctx)
}

func (e *engine) runMulti(ctx context.Context) (*model.NegotiationResult, error) {
	start := time.Now()
	rounds := e.cfg.Rounds

	// Round 1: buyer opening request.
	opening := e.agents.Buyer.OpeningRequest(ctx, e.cfg.Product, e.cfg.Quantity, e.cfg.Priority, e.buyerCfg, e.cfg.BuyerName)
	if err := e.emitBuyerMessage(ctx, opening); err != nil {
		return nil, err
	}

	buyerMessage := opening
	for round := 1; round <= rounds; round++ {
		if round > 1 {
			buyerMessage = e.agents.Buyer.Counter(ctx, e.cfg.Product, e.cfg.Quantity, e.cfg.Priority, e.buyerCfg, e.allOffers, round, e.cfg.BuyerName)
			if err := e.emitBuyerMessage(ctx, buyerMessage); err != nil {
				return nil, err
			}
		}

		for _, profile := range e.cfg.Roster {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			offer := e.agents.Seller.Offer(profile, e.cfg.Product, e.cfg.Quantity, buyerMessage, round, e.cfg.Priority, e.cfg.Variant)
			reply := e.agents.Seller.Reply(ctx, profile, e.cfg.Product, e.cfg.Quantity, buyerMessage, offer, e.cfg.BuyerName)

			e.allOffers = append(e.allOffers, offer)
			if err := e.emitSellerMessage(ctx, profile, reply, offer); err != nil {
				return nil, err
			}
		}

		best, err := BestOffer(LatestOffers(e.allOffers, e.cfg.Roster), e.cfg.Priority)
		if err != nil {
			return nil, err
		}
		progress := float64(round) / float64(rounds) * 100
		if err := e.emitMetric(ctx, best, progress); err != nil {
			return nil, err
		}
	}

	result, err := e.finalDecision(ctx, time.Since(start))
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.onUpdate(model.NegotiationUpdate{Type: model.UpdateComplete, Result: result})

	e.log.Info("negotiation complete",
		"winner", result.Winner.SellerID,
		"rounds", result.TotalRounds,
		"duration_s", result.Duration,
	)
	return result, nil
}

func (e *engine) finalDecision(ctx context.Context, elapsed time.Duration) (*model.NegotiationResult, error) {
	latest := LatestOffers(e.allOffers, e.cfg.Roster)

	winner, err := BestOffer(latest, e.cfg.Priority)
	if err != nil {
		return nil, err
	}
	alternatives := Alternatives(latest, winner, e.cfg.Priority)

	industryAvg := IndustryAverage(e.cfg.Product)
	perUnit := winner.CarbonFootprint / float64(e.cfg.Quantity)
	carbonSaved := CarbonSavings(perUnit, industryAvg) * float64(e.cfg.Quantity)

	reasoning := e.agents.Reasoner.Reasoning(ctx, e.cfg.Priority, winner, alternatives)

	return &model.NegotiationResult{
		Winner:             winner,
		Reasoning:          reasoning,
		CarbonSaved:        carbonSaved,
		CarbonSavedInMiles: CarbonToMiles(carbonSaved),
		Alternatives:       alternatives,
		TotalRounds:        e.cfg.Rounds,
		Duration:           int(elapsed.Seconds()),
	}, nil
}

func (e *engine) runSingle(ctx context.Context) error {
	start := time.Now()
	rounds := e.cfg.Rounds

	profile, _ := agent.FindProfile(e.cfg.Roster, e.cfg.SellerID)

	opening := e.agents.Buyer.OpeningRequest(ctx, e.cfg.Product, e.cfg.Quantity, e.cfg.Priority, e.buyerCfg, e.cfg.BuyerName)
	if err := e.emitBuyerMessage(ctx, opening); err != nil {
		return err
	}

	var currentOffer model.Offer
	for round := 1; round <= rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		offer := e.agents.Seller.Offer(profile, e.cfg.Product, e.cfg.Quantity, opening, round, e.cfg.Priority, model.NoVariant)
		currentOffer = offer

		// Metric goes out before the reply so the client sees terms move
		// while the reply text is still being generated.
		progress := float64(round) / float64(rounds) * 100
		if err := e.emitMetric(ctx, offer, progress); err != nil {
			return err
		}

		reply := e.agents.Seller.Reply(ctx, profile, e.cfg.Product, e.cfg.Quantity, opening, offer, e.cfg.BuyerName)
		if err := e.emitSellerMessage(ctx, profile, reply, offer); err != nil {
			return err
		}

		if round < rounds {
			counter := e.agents.Buyer.Counter(ctx, e.cfg.Product, e.cfg.Quantity, e.cfg.Priority, e.buyerCfg, []model.Offer{offer}, round, e.cfg.BuyerName)
			if err := e.emitBuyerMessage(ctx, counter); err != nil {
				return err
			}
		}
	}

	verdict, reasoning := ClassifyOutcome(e.cfg.Priority, currentOffer, e.cfg.Budget, e.cfg.Quantity)

	// No competing baseline in single-seller mode: sustainability savings
	// are reported as zero, not omitted.
	result := &model.NegotiationResult{
		Winner:       currentOffer,
		Reasoning:    reasoning,
		Alternatives: []model.Offer{},
		TotalRounds:  rounds,
		Duration:     int(time.Since(start).Seconds()),
		Verdict:      verdict,
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	e.onUpdate(model.NegotiationUpdate{Type: model.UpdateComplete, Result: result})

	e.log.Info("single-seller negotiation complete",
		"seller", profile.ID,
		"verdict", verdict,
		"final_price", currentOffer.Price,
	)
	return nil
}

func (e *engine) emitBuyerMessage(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := e.record(model.AgentMessage{
		Role:    model.RoleBuyer,
		Content: content,
		Model:   e.agents.Buyer.Model(),
	})
	e.onUpdate(model.NegotiationUpdate{Type: model.UpdateMessage, Message: msg})
	return e.pause(ctx, e.cfg.StepDelay)
}

func (e *engine) emitSellerMessage(ctx context.Context, profile model.SellerProfile, content string, offer model.Offer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o := offer
	msg := e.record(model.AgentMessage{
		Role:       model.RoleSeller,
		Content:    content,
		SellerID:   profile.ID,
		SellerName: profile.Name,
		Model:      e.agents.Seller.ModelFor(profile),
		Offer:      &o,
	})
	e.onUpdate(model.NegotiationUpdate{Type: model.UpdateMessage, Message: msg})
	return e.pause(ctx, e.cfg.StepDelay)
}

func (e *engine) emitMetric(ctx context.Context, best model.Offer, progress float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := best
	e.onUpdate(model.NegotiationUpdate{Type: model.UpdateMetric, CurrentBest: &b, Progress: progress})
	return e.pause(ctx, e.cfg.RoundDelay)
}

func (e *engine) record(msg model.AgentMessage) *model.AgentMessage {
	msg.ID = uuid.Must(uuid.NewV7()).String()
	msg.CreatedAt = time.Now()
	e.messages = append(e.messages, msg)
	return &e.messages[len(e.messages)-1]
}

func (e *engine) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
