package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if got.IsAwaiting() || got.Phase != PhaseIdle {
		t.Fatalf("unknown key should be idle, got %+v", got)
	}

	if err := s.Set(ctx, "42", Awaiting("lecture text")); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "42")
	if !got.IsAwaiting() || got.SourceText != "lecture text" {
		t.Fatalf("after set: %+v", got)
	}

	other, _ := s.Get(ctx, "43")
	if other.IsAwaiting() {
		t.Fatal("states must be keyed per user")
	}

	if err := s.Delete(ctx, "42"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "42")
	if got.IsAwaiting() || got.SourceText != "" {
		t.Fatalf("after delete: %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	_ = client.Del(ctx, keyPrefix+"42", keyPrefix+"43").Err()

	s := NewRedisStore(client, time.Minute)
	exerciseStore(t, s)

	_ = s.Set(ctx, "42", Awaiting("x"))
	ttl, err := client.TTL(ctx, keyPrefix+"42").Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl=%v err=%v", ttl, err)
	}
	_ = s.Delete(ctx, "42")
}
