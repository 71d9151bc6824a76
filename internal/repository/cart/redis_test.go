package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"campuseats/internal/domain"
)

func testClient(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not reachable at %s: %v", url, err)
	}
	return client
}

func TestRedisRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := testClient(ctx, t)
	defer client.Close()
	repo := NewRedis(client, nil)

	owner := "test-cart-roundtrip"
	defer client.Del(ctx, keyPrefix+owner)

	cart := domain.NewCart()
	cart.Add(domain.LineItem{ID: "p1", StoreID: "s1", Name: "Budget Meal A", PriceCents: 6500}, 2)
	cart.Add(domain.LineItem{ID: "p2", StoreID: "s2", PriceCents: 15000, Type: domain.BucketReserve}, 1)

	if err := repo.Save(ctx, owner, cart); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx, owner)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Order) != 1 || len(loaded.Reserve) != 1 {
		t.Fatalf("unexpected buckets: order=%d reserve=%d", len(loaded.Order), len(loaded.Reserve))
	}
	if loaded.Order[0].Quantity != 2 || loaded.Subtotal() != 28000 {
		t.Fatalf("unexpected contents: %+v", loaded)
	}
}

func TestRedisRepoMissingKeyIsEmptyCart(t *testing.T) {
	ctx := context.Background()
	client := testClient(ctx, t)
	defer client.Close()
	repo := NewRedis(client, nil)

	cart, err := repo.Load(ctx, "test-cart-never-saved")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cart.Empty() {
		t.Fatalf("expected empty cart for missing key")
	}
	if cart.Order == nil || cart.Reserve == nil {
		t.Fatalf("both buckets must be initialized")
	}
}

func TestRedisRepoMalformedSnapshotFallsBack(t *testing.T) {
	ctx := context.Background()
	client := testClient(ctx, t)
	defer client.Close()
	repo := NewRedis(client, nil)

	owner := "test-cart-malformed"
	defer client.Del(ctx, keyPrefix+owner)

	if err := client.Set(ctx, keyPrefix+owner, "{not json", 0).Err(); err != nil {
		t.Fatalf("seed malformed snapshot: %v", err)
	}

	cart, err := repo.Load(ctx, owner)
	if err != nil {
		t.Fatalf("malformed snapshot must not error: %v", err)
	}
	if !cart.Empty() {
		t.Fatalf("expected fallback to empty cart")
	}
}
