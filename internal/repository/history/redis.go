package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"campuseats/internal/domain"
)

const keyPrefix = "orderHistory:"

type redisRepo struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedis builds a Repository backed by one Redis JSON array per owner.
func NewRedis(client *redis.Client, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &redisRepo{client: client, logger: logger}
}

func (r *redisRepo) List(ctx context.Context, owner string) ([]domain.Transaction, error) {
	return r.load(ctx, keyPrefix+owner)
}

func (r *redisRepo) Append(ctx context.Context, owner string, txs ...domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	key := keyPrefix + owner
	existing, err := r.load(ctx, key)
	if err != nil {
		return err
	}
	return r.save(ctx, key, append(existing, txs...))
}

func (r *redisRepo) UpdateStatus(ctx context.Context, owner, ref string, status domain.Status) (*domain.Transaction, error) {
	key := keyPrefix + owner
	txs, err := r.load(ctx, key)
	if err != nil {
		return nil, err
	}
	idx := matchTransaction(txs, ref)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	txs[idx].Status = status
	if err := r.save(ctx, key, txs); err != nil {
		return nil, err
	}
	updated := txs[idx]
	return &updated, nil
}

func (r *redisRepo) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	var (
		cursor uint64
		out    []domain.Transaction
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan order history: %w", err)
		}
		for _, key := range keys {
			txs, err := r.load(ctx, key)
			if err != nil {
				return nil, err
			}
			owner := strings.TrimPrefix(key, keyPrefix)
			for i := range txs {
				if txs[i].Owner == "" {
					txs[i].Owner = owner
				}
			}
			out = append(out, txs...)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

func (r *redisRepo) load(ctx context.Context, key string) ([]domain.Transaction, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Transaction{}, nil
		}
		return nil, fmt.Errorf("load order history: %w", err)
	}
	var txs []domain.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		r.logger.Printf("history repo: malformed log key=%s error=%v, starting empty", key, err)
		return []domain.Transaction{}, nil
	}
	return txs, nil
}

func (r *redisRepo) save(ctx context.Context, key string, txs []domain.Transaction) error {
	raw, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save order history: %w", err)
	}
	return nil
}

// matchTransaction prefers an id match; records appended before ids existed
// are matched by their timestamp instead.
func matchTransaction(txs []domain.Transaction, ref string) int {
	for i := range txs {
		if txs[i].ID != "" && txs[i].ID == ref {
			return i
		}
	}
	ts, err := time.Parse(time.RFC3339Nano, ref)
	if err != nil {
		return -1
	}
	for i := range txs {
		if txs[i].ID == "" && txs[i].Timestamp.Equal(ts) {
			return i
		}
	}
	return -1
}
