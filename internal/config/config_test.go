package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 6, cfg.MultiSellerRounds)
	assert.Equal(t, 4, cfg.SingleSellerRounds)
	assert.Equal(t, 300*time.Millisecond, cfg.StepDelay)
	assert.Equal(t, 600*time.Millisecond, cfg.RoundDelay)
	assert.Equal(t, "data/conversations.db", cfg.ConversationDBPath)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("NEGOTIATION_ROUNDS", "3")
	t.Setenv("NEGOTIATION_STEP_DELAY", "50ms")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, 3, cfg.MultiSellerRounds)
	assert.Equal(t, 50*time.Millisecond, cfg.StepDelay)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("NEGOTIATION_ROUNDS", "lots")
	t.Setenv("NEGOTIATION_ROUND_DELAY", "soon")

	cfg := Load()
	assert.Equal(t, 6, cfg.MultiSellerRounds)
	assert.Equal(t, 600*time.Millisecond, cfg.RoundDelay)
}
