package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
)

const productColumns = `id, sku, product_name, cogs, lead_time_days, created_at, updated_at`

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product_data WHERE sku = $1`

	var p domain.Product
	if err := r.db.GetContext(ctx, &p, query, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", sku, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", sku, err)
	}
	return &p, nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product_data ORDER BY sku`

	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) UpsertBySKU(ctx context.Context, p *domain.Product) (int64, error) {
	query := `
		INSERT INTO product_data (sku, product_name, cogs, lead_time_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (sku)
		DO UPDATE SET
			product_name = EXCLUDED.product_name,
			cogs = EXCLUDED.cogs,
			lead_time_days = EXCLUDED.lead_time_days,
			updated_at = NOW()
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowxContext(ctx, query, p.SKU, p.Name, p.UnitCost, p.LeadTimeDays).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
	}
	return id, nil
}
