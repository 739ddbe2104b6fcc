// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
)

type ProductRepository interface {
	// FindBySKU returns domain.ErrNotFound when the SKU is not in the catalog.
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	UpsertBySKU(ctx context.Context, product *domain.Product) (int64, error)
}

type ChatSessionRepository interface {
	// FindActiveBySKU returns the newest unexpired session, or domain.ErrNotFound.
	FindActiveBySKU(ctx context.Context, sku string) (*domain.ChatSession, error)
	Save(ctx context.Context, sku string, messages []domain.ChatMessage, expiresAt time.Time) (*domain.ChatSession, error)
	DeleteBySKU(ctx context.Context, sku string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
