package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/internal/store"
	"github.com/cartai/negotiation-platform/pkg/logger"
	"github.com/cartai/negotiation-platform/pkg/metrics"
)

// ConversationService handles saved-conversation operations.
type ConversationService struct {
	store  *store.BoltStore
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(st *store.BoltStore, log *logger.Logger) *ConversationService {
	return &ConversationService{store: st, logger: log}
}

// Save persists a new conversation for a tenant.
func (s *ConversationService) Save(ctx context.Context, tenantID string, req *model.SaveConversationRequest) (*model.SavedConversation, error) {
	now := time.Now()

	conv := &model.SavedConversation{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TenantID:    tenantID,
		Title:       req.Title,
		CreatedAt:   now,
		LastUpdated: now,
		Product:     req.Product,
		Quantity:    req.Quantity,
		Budget:      req.Budget,
		Priority:    req.Priority,
		Messages:    req.Messages,
		Result:      req.Result,
	}

	if err := s.store.Save(conv); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	metrics.ConversationsSaved.WithLabelValues(tenantID).Inc()
	s.logger.Info("conversation saved", "conversation_id", conv.ID, "tenant_id", tenantID)

	return conv, nil
}

// Get retrieves a conversation by ID.
func (s *ConversationService) Get(ctx context.Context, tenantID, id string) (*model.SavedConversation, error) {
	return s.store.Get(tenantID, id)
}

// List retrieves a tenant's conversations, newest first.
func (s *ConversationService) List(ctx context.Context, tenantID string, limit int) (*model.ListConversationsResponse, error) {
	convs, err := s.store.List(tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	return &model.ListConversationsResponse{
		Conversations: convs,
		Total:         len(convs),
	}, nil
}

// Delete removes a conversation.
func (s *ConversationService) Delete(ctx context.Context, tenantID, id string) error {
	return s.store.Delete(tenantID, id)
}
