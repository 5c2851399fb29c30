package model

// Verdict classifies who came out ahead in a single-seller negotiation.
type Verdict string

const (
	VerdictBuyer  Verdict = "buyer"
	VerdictSeller Verdict = "seller"
	VerdictFair   Verdict = "fair"
)

// NegotiationResult is the terminal artifact of a run. Created exactly
// once, at the end of a run; immutable thereafter.
type NegotiationResult struct {
	Winner             Offer   `json:"winner"`
	Reasoning          string  `json:"reasoning"`
	CarbonSaved        float64 `json:"carbon_saved"`
	CarbonSavedInMiles int     `json:"carbon_saved_in_miles"`
	Alternatives       []Offer `json:"alternatives"`
	TotalRounds        int     `json:"total_rounds"`
	Duration           int     `json:"duration"`
	Verdict            Verdict `json:"verdict,omitempty"`
}

// UpdateType discriminates negotiation update events.
type UpdateType string

const (
	UpdateMessage  UpdateType = "message"
	UpdateMetric   UpdateType = "metric"
	UpdateComplete UpdateType = "complete"
)

// NegotiationUpdate is one event pushed to the update channel during a
// run. Exactly one of the payload fields is set depending on Type.
type NegotiationUpdate struct {
	Type        UpdateType         `json:"type"`
	Message     *AgentMessage      `json:"message,omitempty"`
	CurrentBest *Offer             `json:"current_best,omitempty"`
	Progress    float64            `json:"progress,omitempty"`
	Result      *NegotiationResult `json:"result,omitempty"`
}

// NegotiateRequest is the payload for POST /api/v1/negotiate.
type NegotiateRequest struct {
	Product  string   `json:"product"`
	Quantity int      `json:"quantity"`
	Budget   float64  `json:"budget"`
	Priority Priority `json:"priority"`
	UserName string   `json:"user_name,omitempty"`
	Provider string   `json:"provider,omitempty"`
}

// NegotiateStoreRequest is the payload for POST /api/v1/negotiate/store,
// the single-seller variant.
type NegotiateStoreRequest struct {
	Product    string   `json:"product"`
	Quantity   int      `json:"quantity"`
	Budget     float64  `json:"budget"`
	Priority   Priority `json:"priority"`
	UserName   string   `json:"user_name,omitempty"`
	StoreID    string   `json:"store_id"`
	BuyerModel ModelRef `json:"buyer_model,omitempty"`
}
