package advisor

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
)

var errNoJSONObject = errors.New("advisor: reply has no JSON object")

// extractObject returns the JSON object embedded in a reply, tolerating
// markdown code fences and surrounding prose.
func extractObject(reply string) (map[string]json.RawMessage, error) {
	text := stripCodeFence(strings.TrimSpace(reply))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err == nil && fields != nil {
		return fields, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, errNoJSONObject
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNoJSONObject
	}
	return fields, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// drop an optional language tag on the opening fence
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// parseRecommendation decodes every field independently; a field that is
// missing or malformed falls back to its default without affecting the rest.
func parseRecommendation(reply string) (domain.RecommendationResult, error) {
	fields, err := extractObject(reply)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	result := domain.DefaultRecommendation(domain.DecisionUnknown, "")

	if label, ok := stringField(fields, "reorderRecommendation"); ok {
		result.Decision = domain.ParseDecision(label)
	}
	if label, ok := stringField(fields, "stockoutRisk"); ok {
		result.StockoutRisk, _ = domain.ParseRiskTier(label)
	}
	if reasoning, ok := stringField(fields, "reasoning"); ok {
		result.Reasoning = reasoning
	}
	if n, ok := intField(fields, "suggestedOrderQuantity"); ok {
		result.SuggestedOrderQuantity = max(n, 0)
	}
	if n, ok := intField(fields, "daysUntilStockout"); ok {
		result.DaysUntilStockout = max(n, 0)
	}
	if n, ok := intField(fields, "ttlHours"); ok && n > 0 {
		result.TTLHours = n
	}

	return result, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// intField accepts JSON numbers and numeric strings.
func intField(fields map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
