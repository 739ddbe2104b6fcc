// Package advisor turns a reconciled forecast input into a typed reorder
// recommendation, and runs free-form chat about a product, by calling the
// external reasoning service.
package advisor

import (
	"context"
	"errors"
	"strings"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/llm"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSalesWindowDays = 30

	reasoningCallFailed  = "Failed to get AI analysis: "
	reasoningUnparseable = "Failed to get recommendation from AI"

	ChatEmptyReply = "I apologize, but I couldn't generate a response. Please try again."
	ChatCallFailed = "I'm experiencing technical difficulties. Please try again later."
)

// Completer is the single remote call the bridge depends on.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

type Bridge struct {
	completer       Completer
	salesWindowDays int
}

func NewBridge(completer Completer, salesWindowDays int) *Bridge {
	if salesWindowDays <= 0 {
		salesWindowDays = DefaultSalesWindowDays
	}
	return &Bridge{completer: completer, salesWindowDays: salesWindowDays}
}

// RequestRecommendation asks the reasoning service for a reorder decision.
// It never fails: call errors and unreadable replies come back as sentinel
// results carrying the numeric defaults.
func (b *Bridge) RequestRecommendation(ctx context.Context, input domain.ForecastInput) domain.RecommendationResult {
	prompt := buildAnalysisPrompt(input, b.salesWindowDays)

	reply, err := b.completer.Complete(ctx, []llm.Message{{Role: domain.RoleUser, Content: prompt}})
	if err != nil {
		log.Error().Err(err).Str("sku", input.SKU).Msg("advisor: reasoning call failed")
		return domain.DefaultRecommendation(domain.DecisionError, reasoningCallFailed+err.Error())
	}

	result, err := parseRecommendation(reply)
	if err != nil {
		log.Warn().Err(err).Str("sku", input.SKU).Msg("advisor: unparseable recommendation reply")
		return domain.DefaultRecommendation(domain.DecisionUnknown, reasoningUnparseable)
	}

	return result
}

// Chat continues a conversation about a product. Unless the history opens
// with a system message, the product context and an acknowledgement are
// prepended so the service always sees the facts first.
func (b *Bridge) Chat(ctx context.Context, history []domain.ChatMessage, input domain.ForecastInput) string {
	messages := make([]llm.Message, 0, len(history)+2)
	if len(history) == 0 || history[0].Role != domain.RoleSystem {
		messages = append(messages,
			llm.Message{Role: domain.RoleUser, Content: buildProductContext(input, b.salesWindowDays)},
			llm.Message{Role: domain.RoleAssistant, Content: acknowledgement(input.ProductName)},
		)
	}
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := b.completer.Complete(ctx, messages)
	if errors.Is(err, llm.ErrEmptyReply) {
		return ChatEmptyReply
	}
	if err != nil {
		log.Error().Err(err).Str("sku", input.SKU).Msg("advisor: chat call failed")
		return ChatCallFailed
	}
	if strings.TrimSpace(reply) == "" {
		return ChatEmptyReply
	}
	return reply
}
