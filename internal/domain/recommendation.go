package domain

import "strings"

// Decision is the qualitative reorder decision returned by the reasoning service
type Decision string

const (
	DecisionReorder Decision = "reorder"
	DecisionHold    Decision = "hold"
	DecisionMonitor Decision = "monitor"
	DecisionUnknown Decision = "unknown"
	DecisionError   Decision = "error"
)

// RiskTier is the stockout risk tier
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

const (
	DefaultDaysUntilStockout      = 30
	DefaultSuggestedOrderQuantity = 0
	DefaultTTLHours               = 24
	DefaultRiskTier               = RiskMedium
)

var decisionAliases = map[string]Decision{
	"reorder": DecisionReorder,
	"yes":     DecisionReorder,
	"hold":    DecisionHold,
	"no":      DecisionHold,
	"monitor": DecisionMonitor,
	"unknown": DecisionUnknown,
	"error":   DecisionError,
}

// ParseDecision maps a free-form decision label (case-insensitive) to a Decision.
// Unrecognised labels map to DecisionUnknown.
func ParseDecision(label string) Decision {
	if d, ok := decisionAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return d
	}
	return DecisionUnknown
}

// ParseRiskTier maps a label to a RiskTier, reporting whether it was recognised.
func ParseRiskTier(label string) (RiskTier, bool) {
	switch RiskTier(strings.ToLower(strings.TrimSpace(label))) {
	case RiskLow:
		return RiskLow, true
	case RiskMedium:
		return RiskMedium, true
	case RiskHigh:
		return RiskHigh, true
	}
	return DefaultRiskTier, false
}

// RecommendationResult is the typed reply of the reasoning service
type RecommendationResult struct {
	Decision               Decision `json:"reorderRecommendation"`
	SuggestedOrderQuantity int      `json:"suggestedOrderQuantity"`
	StockoutRisk           RiskTier `json:"stockoutRisk"`
	DaysUntilStockout      int      `json:"daysUntilStockout"`
	Reasoning              string   `json:"reasoning"`
	TTLHours               int      `json:"ttlHours"`
}

// DefaultRecommendation returns a result carrying every numeric default.
func DefaultRecommendation(decision Decision, reasoning string) RecommendationResult {
	return RecommendationResult{
		Decision:               decision,
		SuggestedOrderQuantity: DefaultSuggestedOrderQuantity,
		StockoutRisk:           DefaultRiskTier,
		DaysUntilStockout:      DefaultDaysUntilStockout,
		Reasoning:              reasoning,
		TTLHours:               DefaultTTLHours,
	}
}

// Informative reports whether the result came from a parsed reply rather
// than a failure sentinel.
func (r RecommendationResult) Informative() bool {
	return r.Decision != DecisionError && r.Decision != DecisionUnknown
}
