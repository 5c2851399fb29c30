// Package model defines data structures for the negotiation platform.
package model

// Priority is the single optimization objective a negotiation run is
// evaluated against.
type Priority string

const (
	PrioritySpeed  Priority = "speed"
	PriorityCarbon Priority = "carbon"
	PriorityPrice  Priority = "price"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PrioritySpeed, PriorityCarbon, PriorityPrice:
		return true
	}
	return false
}

// ModelRef is an opaque label naming a backing LLM. The engine never
// inspects it beyond selecting among injected generator implementations.
type ModelRef string

// Offer is an immutable snapshot of one seller's terms at a point in time.
// Price is the total for the requested quantity; CarbonFootprint is the
// aggregate kg CO2e for the order.
type Offer struct {
	ID              string   `json:"id"`
	SellerID        string   `json:"seller_id"`
	SellerName      string   `json:"seller_name"`
	Price           int      `json:"price"`
	CarbonFootprint float64  `json:"carbon_footprint"`
	DeliveryDays    int      `json:"delivery_days"`
	Certifications  []string `json:"certifications"`
	TrustScore      *float64 `json:"trust_score,omitempty"`
}

// FlexibilityTier controls how aggressively a seller concedes price
// per round.
type FlexibilityTier string

const (
	FlexVeryHigh FlexibilityTier = "very_high"
	FlexHigh     FlexibilityTier = "high"
	FlexMedium   FlexibilityTier = "medium"
	FlexLow      FlexibilityTier = "low"
)

// SustainabilityTier is a seller's declared sustainability focus level.
type SustainabilityTier string

const (
	SustainVeryHigh SustainabilityTier = "very_high"
	SustainHigh     SustainabilityTier = "high"
	SustainMedium   SustainabilityTier = "medium"
	SustainLow      SustainabilityTier = "low"
)

// PricePoint is a seller's market positioning.
type PricePoint string

const (
	PricePremium PricePoint = "premium"
	PriceMid     PricePoint = "mid"
	PriceBudget  PricePoint = "budget"
)

// Personality characterizes how a seller negotiates.
type Personality struct {
	SustainabilityFocus    SustainabilityTier `json:"sustainability_focus"`
	PricePoint             PricePoint         `json:"price_point"`
	NegotiationFlexibility FlexibilityTier    `json:"negotiation_flexibility"`
}

// Inventory holds a seller's base commercial terms per unit.
type Inventory struct {
	BasePrice       float64  `json:"base_price"`
	CarbonFootprint float64  `json:"carbon_footprint"`
	DeliveryDays    int      `json:"delivery_days"`
	Certifications  []string `json:"certifications"`
}

// SellerProfile is the static characterization of one seller. Tactics are
// used only for prompt construction and are opaque to the engine.
type SellerProfile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Model       ModelRef    `json:"model"`
	Personality Personality `json:"personality"`
	Inventory   Inventory   `json:"inventory"`
	Tactics     []string    `json:"tactics"`
}

// BuyerConfig is derived from the user's priority and budget and shapes
// buyer-agent behavior.
type BuyerConfig struct {
	PrimaryGoal      string   `json:"primary_goal"`
	MaxPrice         float64  `json:"max_price"`
	MaxCarbon        *float64 `json:"max_carbon,omitempty"`
	MaxDays          int      `json:"max_days"`
	NegotiationStyle string   `json:"negotiation_style"`
}

// ProviderVariant is a per-run multiplier set simulating differences
// between alternative backing-model configurations.
type ProviderVariant struct {
	Name             string  `json:"name"`
	PriceMultiplier  float64 `json:"price_multiplier"`
	CarbonMultiplier float64 `json:"carbon_multiplier"`
	DeliveryShift    int     `json:"delivery_shift"`
}

// NoVariant is the identity variant used when no provider comparison is
// running (single-seller mode, tests).
var NoVariant = ProviderVariant{Name: "none", PriceMultiplier: 1, CarbonMultiplier: 1}
