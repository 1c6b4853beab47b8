package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { r.Close() })
	return r, mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRedisSetGet(t *testing.T) {
	ctx := context.Background()
	r, mr := setupRedis(t)

	if err := r.Set(ctx, "k", payload{Name: "a", Count: 2}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	if err := r.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("got %+v", got)
	}

	mr.FastForward(2 * time.Minute)
	if err := r.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("expired Get err = %v, want ErrMiss", err)
	}
}

func TestRedisDeletePattern(t *testing.T) {
	ctx := context.Background()
	r, mr := setupRedis(t)

	for _, k := range []string{"cache:o1:/api/journal?", "cache:o1:/api/journal?page=2", "cache:o2:/api/journal?"} {
		if err := r.Set(ctx, k, "x", time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if err := r.DeletePattern(ctx, ResponsePattern("o1", "/api/journal")); err != nil {
		t.Fatalf("DeletePattern: %v", err)
	}

	if mr.Exists("cache:o1:/api/journal?") || mr.Exists("cache:o1:/api/journal?page=2") {
		t.Error("owner o1 keys should be gone")
	}
	if !mr.Exists("cache:o2:/api/journal?") {
		t.Error("owner o2 key should survive")
	}
}

func TestRedisIncrementCounterSetsTTL(t *testing.T) {
	ctx := context.Background()
	r, mr := setupRedis(t)

	for i := int64(1); i <= 3; i++ {
		n, err := r.IncrementCounter(ctx, "rl", time.Minute)
		if err != nil {
			t.Fatalf("IncrementCounter: %v", err)
		}
		if n != i {
			t.Errorf("count = %d, want %d", n, i)
		}
	}

	if ttl := mr.TTL("rl"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
}

func TestNopAlwaysMisses(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var v int
	if err := c.Get(ctx, "k", &v); !errors.Is(err, ErrMiss) {
		t.Errorf("Get err = %v, want ErrMiss", err)
	}
}
