package model

import (
	"time"
)

// SavedConversation is a persisted shopping session: the user's extracted
// requirements plus the negotiation transcript and result, if a run
// completed.
type SavedConversation struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	Product  string   `json:"product,omitempty"`
	Quantity int      `json:"quantity,omitempty"`
	Budget   float64  `json:"budget,omitempty"`
	Priority Priority `json:"priority,omitempty"`

	Messages []AgentMessage     `json:"messages,omitempty"`
	Result   *NegotiationResult `json:"result,omitempty"`
}

// SaveConversationRequest is the request to persist a conversation.
type SaveConversationRequest struct {
	Title    string             `json:"title"`
	Product  string             `json:"product,omitempty"`
	Quantity int                `json:"quantity,omitempty"`
	Budget   float64            `json:"budget,omitempty"`
	Priority Priority           `json:"priority,omitempty"`
	Messages []AgentMessage     `json:"messages,omitempty"`
	Result   *NegotiationResult `json:"result,omitempty"`
}

// ListConversationsResponse is the response for listing saved
// conversations, newest first.
type ListConversationsResponse struct {
	Conversations []SavedConversation `json:"conversations"`
	Total         int                 `json:"total"`
}
