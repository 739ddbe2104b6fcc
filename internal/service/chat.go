package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/metrics"
	"github.com/andresuchdata/reorder-advisor/internal/repository"
	"github.com/rs/zerolog/log"
)

type ChatResponder interface {
	Chat(ctx context.Context, history []domain.ChatMessage, input domain.ForecastInput) string
}

type ChatService struct {
	aggregator Aggregator
	responder  ChatResponder
	sessions   repository.ChatSessionRepository
	defaultTTL time.Duration
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewChatService(
	aggregator Aggregator,
	responder ChatResponder,
	sessions repository.ChatSessionRepository,
	defaultTTLHours int,
	m *metrics.Metrics,
) *ChatService {
	if defaultTTLHours <= 0 {
		defaultTTLHours = domain.DefaultTTLHours
	}
	return &ChatService{
		aggregator: aggregator,
		responder:  responder,
		sessions:   sessions,
		defaultTTL: time.Duration(defaultTTLHours) * time.Hour,
		metrics:    m,
		now:        time.Now,
	}
}

func (s *ChatService) Chat(ctx context.Context, sku string, messages []domain.ChatMessage) (*domain.ChatReply, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, fmt.Errorf("sku is required: %w", domain.ErrInvalidInput)
	}

	input, err := s.aggregator.Aggregate(ctx, sku)
	if err != nil {
		return nil, err
	}

	return &domain.ChatReply{
		Response:  s.responder.Chat(ctx, messages, input),
		Role:      domain.RoleAssistant,
		Timestamp: s.now().UTC(),
	}, nil
}

// GetSession returns an empty view when no unexpired session exists.
func (s *ChatService) GetSession(ctx context.Context, sku string) (*domain.ChatSessionView, error) {
	session, err := s.sessions.FindActiveBySKU(ctx, sku)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ChatSessionView{Messages: []domain.ChatMessage{}}, nil
	}
	if err != nil {
		return nil, err
	}

	messages, err := session.Messages()
	if err != nil {
		return nil, fmt.Errorf("decode chat session %s: %w", sku, err)
	}
	expiresAt := session.ExpiresAt
	return &domain.ChatSessionView{Messages: messages, ExpiresAt: &expiresAt}, nil
}

// SaveSession stores the conversation, replacing any previous one for the SKU.
// A non-positive ttlHours selects the configured default.
func (s *ChatService) SaveSession(ctx context.Context, sku string, messages []domain.ChatMessage, ttlHours int) (time.Time, error) {
	if strings.TrimSpace(sku) == "" {
		return time.Time{}, fmt.Errorf("sku is required: %w", domain.ErrInvalidInput)
	}

	ttl := s.defaultTTL
	if ttlHours > 0 {
		ttl = time.Duration(ttlHours) * time.Hour
	}
	expiresAt := s.now().UTC().Add(ttl)

	if _, err := s.sessions.Save(ctx, sku, messages, expiresAt); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

func (s *ChatService) DeleteSession(ctx context.Context, sku string) error {
	return s.sessions.DeleteBySKU(ctx, sku)
}

func (s *ChatService) CleanupExpired(ctx context.Context) (int64, error) {
	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	s.metrics.RecordExpiredSessions(deleted)
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("chat: expired sessions removed")
	} else {
		log.Debug().Msg("chat: no expired sessions to remove")
	}
	return deleted, nil
}

// RunCleanup removes expired sessions every interval until ctx is done.
func (s *ChatService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CleanupExpired(ctx); err != nil {
				log.Error().Err(err).Msg("chat: session cleanup failed")
			}
		}
	}
}
