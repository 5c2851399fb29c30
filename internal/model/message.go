package model

import (
	"time"
)

// Role identifies which side of the negotiation produced a message.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// AgentMessage is one turn of dialogue in a negotiation transcript.
// Messages are produced once and never mutated; the transcript is the
// ordered sequence of all messages for a run.
type AgentMessage struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id,omitempty"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	SellerID   string    `json:"seller_id,omitempty"`
	SellerName string    `json:"seller_name,omitempty"`
	Model      ModelRef  `json:"model,omitempty"`
	Offer      *Offer    `json:"offer,omitempty"`

	// JetStream metadata, populated on read.
	Sequence uint64 `json:"sequence,omitempty"`
}
