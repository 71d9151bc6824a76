package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campuseats/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, store_id::text, name, COALESCE(description, ''), COALESCE(category, ''), price_cents, COALESCE(image_url, ''), available, created_at`

func (r *postgresRepo) ListByStore(ctx context.Context, storeID string) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE store_id = $1 ORDER BY category, name`
	rows, err := r.pool.Query(ctx, q, storeID)
	if err != nil {
		r.logger.Printf("product repo: list store_id=%s error=%v", storeID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.ImageURL, &p.Available, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.ImageURL, &p.Available, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (store_id, name, description, category, price_cents, image_url, available)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (store_id, name) DO UPDATE
SET description = EXCLUDED.description,
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    image_url = EXCLUDED.image_url,
    available = EXCLUDED.available
RETURNING ` + productColumns + `
`
	var out domain.Product
	if err := r.pool.QueryRow(ctx, q, p.StoreID, p.Name, p.Description, p.Category, p.PriceCents, p.ImageURL, p.Available).Scan(
		&out.ID, &out.StoreID, &out.Name, &out.Description, &out.Category, &out.PriceCents, &out.ImageURL, &out.Available, &out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
