package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
	ImageURL    string
}

type storeSeed struct {
	Name        string
	Description string
	LogoURL     string
	Products    []productSeed
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool, "admin@campuseats.local", "Admin1234"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	stores := []storeSeed{
		{
			Name:        "FASPeCC",
			Description: "Main campus canteen",
			Products: []productSeed{
				{Name: "Budget Meal A", Description: "Rice with chicken adobo", Category: "budget-meals", PriceCents: 6500},
				{Name: "Budget Meal B", Description: "Rice with pork sisig", Category: "budget-meals", PriceCents: 7000},
				{Name: "Siomai Rice", Description: "4pc siomai over rice", Category: "snacks", PriceCents: 4550},
				{Name: "Buffet Plate", Description: "Unlimited rice buffet", Category: "buffet", PriceCents: 15000},
			},
		},
		{
			Name:        "France Bistro",
			Description: "Coffee and snack corner by the library",
			Products: []productSeed{
				{Name: "Iced Coffee", Description: "Cold brewed, 16oz", Category: "drinks", PriceCents: 8500},
				{Name: "Clubhouse Sandwich", Description: "Triple decker on wheat", Category: "snacks", PriceCents: 12000},
				{Name: "Carbonara", Description: "Creamy pasta with bacon bits", Category: "pasta", PriceCents: 9500},
			},
		},
	}

	for _, s := range stores {
		storeID, err := ensureStore(ctx, pool, s)
		if err != nil {
			return fmt.Errorf("ensure store %s: %w", s.Name, err)
		}
		for _, p := range s.Products {
			if err := upsertProduct(ctx, pool, storeID, p); err != nil {
				return fmt.Errorf("upsert product %s: %w", p.Name, err)
			}
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO users (email, password_hash, first_name, role)
VALUES ($1, $2, 'Admin', 'admin')
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}

func ensureStore(ctx context.Context, pool *pgxpool.Pool, s storeSeed) (string, error) {
	const q = `
INSERT INTO stores (name, description, logo_url)
VALUES ($1, $2, NULLIF($3, ''))
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, s.Name, s.Description, s.LogoURL).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, storeID string, p productSeed) error {
	const q = `
INSERT INTO products (store_id, name, description, category, price_cents, image_url)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
ON CONFLICT (store_id, name) DO UPDATE
SET description = EXCLUDED.description,
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents
`
	_, err := pool.Exec(ctx, q, storeID, p.Name, p.Description, p.Category, p.PriceCents, p.ImageURL)
	return err
}
