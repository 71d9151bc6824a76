package store

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

const storeColumns = `id::text, COALESCE(vendor_id::text, ''), name, COALESCE(description, ''), COALESCE(logo_url, ''), created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Store, error) {
	q := `SELECT ` + storeColumns + ` FROM stores ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("store repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.VendorID, &s.Name, &s.Description, &s.LogoURL, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	q := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	return r.fetch(ctx, q, id)
}

func (r *postgresRepo) GetByVendor(ctx context.Context, vendorID string) (*domain.Store, error) {
	q := `SELECT ` + storeColumns + ` FROM stores WHERE vendor_id = $1`
	return r.fetch(ctx, q, vendorID)
}

func (r *postgresRepo) Create(ctx context.Context, s domain.Store) (*domain.Store, error) {
	const q = `
INSERT INTO stores (vendor_id, name, description, logo_url)
VALUES (NULLIF($1, '')::uuid, $2, $3, $4)
RETURNING id::text, COALESCE(vendor_id::text, ''), name, COALESCE(description, ''), COALESCE(logo_url, ''), created_at
`
	var out domain.Store
	if err := r.pool.QueryRow(ctx, q, s.VendorID, s.Name, s.Description, s.LogoURL).Scan(
		&out.ID, &out.VendorID, &out.Name, &out.Description, &out.LogoURL, &out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) fetch(ctx context.Context, q string, args ...interface{}) (*domain.Store, error) {
	var s domain.Store
	err := r.pool.QueryRow(ctx, q, args...).Scan(&s.ID, &s.VendorID, &s.Name, &s.Description, &s.LogoURL, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
