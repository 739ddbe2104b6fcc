package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
)

const chatSessionColumns = `id, sku, session_data, expires_at, created_at, updated_at`

// chatSessionRow scans session_data as text so the buffer is owned by the row.
type chatSessionRow struct {
	ID          int64     `db:"id"`
	SKU         string    `db:"sku"`
	SessionData string    `db:"session_data"`
	ExpiresAt   time.Time `db:"expires_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row chatSessionRow) toDomain() *domain.ChatSession {
	return &domain.ChatSession{
		ID:          row.ID,
		SKU:         row.SKU,
		SessionData: json.RawMessage(row.SessionData),
		ExpiresAt:   row.ExpiresAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type chatSessionRepository struct {
	db *DB
}

func NewChatSessionRepository(db *DB) *chatSessionRepository {
	return &chatSessionRepository{db: db}
}

func (r *chatSessionRepository) FindActiveBySKU(ctx context.Context, sku string) (*domain.ChatSession, error) {
	query := `
		SELECT ` + chatSessionColumns + `
		FROM chat_sessions
		WHERE sku = $1 AND expires_at > NOW()
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var row chatSessionRow
	if err := r.db.GetContext(ctx, &row, query, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chat session %s: %w", sku, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chat session %s: %w", sku, err)
	}
	return row.toDomain(), nil
}

func (r *chatSessionRepository) Save(ctx context.Context, sku string, messages []domain.ChatMessage, expiresAt time.Time) (*domain.ChatSession, error) {
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat session: %w", err)
	}

	query := `
		INSERT INTO chat_sessions (sku, session_data, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (sku)
		DO UPDATE SET
			session_data = EXCLUDED.session_data,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
		RETURNING ` + chatSessionColumns

	var row chatSessionRow
	if err := r.db.QueryRowxContext(ctx, query, sku, string(data), expiresAt.UTC()).StructScan(&row); err != nil {
		return nil, fmt.Errorf("failed to save chat session %s: %w", sku, err)
	}
	return row.toDomain(), nil
}

func (r *chatSessionRepository) DeleteBySKU(ctx context.Context, sku string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE sku = $1`, sku); err != nil {
		return fmt.Errorf("failed to delete chat session %s: %w", sku, err)
	}
	return nil
}

func (r *chatSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired chat sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted chat sessions: %w", err)
	}
	return n, nil
}
