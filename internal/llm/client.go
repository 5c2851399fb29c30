// Package llm provides LLM client interfaces and implementations.
package llm

import (
	"context"
	"strings"

	"github.com/cartai/negotiation-platform/internal/model"
)

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	default:
		return NewOpenAIClient(apiKey)
	}
}

// Registry resolves opaque model refs to one of the injected clients.
// The ref itself is never interpreted beyond choosing a provider.
type Registry struct {
	openai    Client
	anthropic Client
}

// NewRegistry creates a registry over the supplied clients. Either client
// may be nil; resolution falls back to whichever is available.
func NewRegistry(openaiClient, anthropicClient Client) *Registry {
	return &Registry{openai: openaiClient, anthropic: anthropicClient}
}

// ClientFor returns the client backing the given model ref.
func (r *Registry) ClientFor(ref model.ModelRef) Client {
	name := strings.ToLower(string(ref))
	if strings.Contains(name, "claude") || strings.HasPrefix(name, "anthropic") {
		if r.anthropic != nil {
			return r.anthropic
		}
	}
	if r.openai != nil {
		return r.openai
	}
	return r.anthropic
}

// Fallback returns the alternate client for one retry after the primary
// fails, or nil if there is no alternate.
func (r *Registry) Fallback(primary Client) Client {
	if primary == r.openai {
		return r.anthropic
	}
	return r.openai
}
