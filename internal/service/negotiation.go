// Package service provides business logic for the negotiation platform.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cartai/negotiation-platform/internal/agent"
	"github.com/cartai/negotiation-platform/internal/config"
	"github.com/cartai/negotiation-platform/internal/llm"
	"github.com/cartai/negotiation-platform/internal/model"
	natsclient "github.com/cartai/negotiation-platform/internal/nats"
	"github.com/cartai/negotiation-platform/internal/negotiation"
	"github.com/cartai/negotiation-platform/pkg/logger"
	"github.com/cartai/negotiation-platform/pkg/metrics"
)

// reasoningModel backs the final-decision explanation.
const reasoningModel = model.ModelRef("claude-3-opus-20240229")

// NegotiationService runs negotiations and persists their transcripts.
type NegotiationService struct {
	streamManager *natsclient.StreamManager
	registry      *llm.Registry
	cfg           *config.Config
	logger        *logger.Logger
}

// NewNegotiationService creates a new negotiation service. streamManager
// may be nil, in which case transcripts are not persisted.
func NewNegotiationService(streamManager *natsclient.StreamManager, registry *llm.Registry, cfg *config.Config, log *logger.Logger) *NegotiationService {
	return &NegotiationService{
		streamManager: streamManager,
		registry:      registry,
		cfg:           cfg,
		logger:        log,
	}
}

// RunMulti executes a full multi-seller negotiation, forwarding every
// update to onUpdate and appending the transcript to JetStream.
func (s *NegotiationService) RunMulti(ctx context.Context, req *model.NegotiateRequest, onUpdate negotiation.UpdateFunc) (*model.NegotiationResult, error) {
	runID := uuid.Must(uuid.NewV7()).String()
	provider := agent.ProviderConfigFor(req.Provider)

	buyerName := req.UserName
	if buyerName == "" {
		buyerName = "Customer"
	}

	agents := negotiation.Agents{
		Buyer:    agent.NewBuyer(s.registry, provider.BuyerModel, s.cfg.MultiSellerRounds, s.logger),
		Seller:   agent.NewSeller(s.registry, agent.NewOfferPolicy(nil, 0.80), provider.SellerModels, s.logger),
		Reasoner: agent.NewReasoner(s.registry, reasoningModel, s.logger),
	}

	cfg := negotiation.Config{
		Product:    req.Product,
		Quantity:   req.Quantity,
		Budget:     req.Budget,
		Priority:   req.Priority,
		BuyerName:  buyerName,
		Roster:     agent.DefaultSellerProfiles,
		Rounds:     s.cfg.MultiSellerRounds,
		Variant:    provider.Variant,
		StepDelay:  s.cfg.StepDelay,
		RoundDelay: s.cfg.RoundDelay,
		Logger:     s.logger,
	}

	start := time.Now()
	result, err := negotiation.RunMultiSeller(ctx, cfg, agents, s.persisting(ctx, runID, onUpdate))

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordNegotiation("multi", string(req.Priority), status, time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}

	s.logger.Info("negotiation run finished",
		"run_id", runID,
		"provider", provider.ID,
		"winner", result.Winner.SellerID,
	)
	return result, nil
}

// RunSingle executes a single-seller negotiation against the selected
// store; completion is signaled only via the complete event.
func (s *NegotiationService) RunSingle(ctx context.Context, req *model.NegotiateStoreRequest, onUpdate negotiation.UpdateFunc) error {
	runID := uuid.Must(uuid.NewV7()).String()

	buyerName := req.UserName
	if buyerName == "" {
		buyerName = "Customer"
	}

	buyerModel := req.BuyerModel
	if buyerModel == "" {
		buyerModel = agent.ProviderConfigFor("").BuyerModel
	}

	agents := negotiation.Agents{
		Buyer:  agent.NewBuyer(s.registry, buyerModel, s.cfg.SingleSellerRounds, s.logger),
		Seller: agent.NewSeller(s.registry, agent.NewOfferPolicy(nil, 0.75), nil, s.logger),
	}

	cfg := negotiation.Config{
		Product:    req.Product,
		Quantity:   req.Quantity,
		Budget:     req.Budget,
		Priority:   req.Priority,
		BuyerName:  buyerName,
		Roster:     agent.DefaultSellerProfiles,
		Rounds:     s.cfg.SingleSellerRounds,
		SellerID:   req.StoreID,
		StepDelay:  s.cfg.StepDelay,
		RoundDelay: s.cfg.RoundDelay,
		Logger:     s.logger,
	}

	start := time.Now()
	err := negotiation.RunSingleSeller(ctx, cfg, agents, s.persisting(ctx, runID, onUpdate))

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordNegotiation("single", string(req.Priority), status, time.Since(start).Seconds())

	return err
}

// persisting wraps an update sink so every transcript message and the
// final result are appended to the negotiations stream. Persistence is
// best-effort: a JetStream failure never aborts a live run.
func (s *NegotiationService) persisting(ctx context.Context, runID string, next negotiation.UpdateFunc) negotiation.UpdateFunc {
	return func(update model.NegotiationUpdate) {
		if s.streamManager != nil {
			switch update.Type {
			case model.UpdateMessage:
				msg := *update.Message
				msg.RunID = runID
				if _, err := s.streamManager.PublishMessage(ctx, &msg); err != nil {
					s.logger.Warn("failed to persist transcript message", "run_id", runID, "error", err)
				}
			case model.UpdateComplete:
				if _, err := s.streamManager.PublishResult(ctx, runID, update.Result); err != nil {
					s.logger.Warn("failed to persist result", "run_id", runID, "error", err)
				}
			}
		}
		if next != nil {
			next(update)
		}
	}
}
