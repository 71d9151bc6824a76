package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/redis/go-redis/v9"

	"campuseats/internal/domain"
)

const keyPrefix = "shoppingCart:"

type redisRepo struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedis builds a Repository backed by a Redis JSON snapshot per owner.
func NewRedis(client *redis.Client, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &redisRepo{client: client, logger: logger}
}

func (r *redisRepo) Load(ctx context.Context, owner string) (*domain.Cart, error) {
	raw, err := r.client.Get(ctx, keyPrefix+owner).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewCart(), nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		r.logger.Printf("cart repo: malformed snapshot owner=%s error=%v, starting empty", owner, err)
		return domain.NewCart(), nil
	}
	if cart.Order == nil {
		cart.Order = []domain.LineItem{}
	}
	if cart.Reserve == nil {
		cart.Reserve = []domain.LineItem{}
	}
	return &cart, nil
}

func (r *redisRepo) Save(ctx context.Context, owner string, cart *domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+owner, raw, 0).Err(); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}
