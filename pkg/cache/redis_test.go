package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), DisableIdentity: true})
	c := NewRedisCacheFromClient(client)
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestRedisCacheGetSet(t *testing.T) {
	ctx := context.Background()
	_, c := newTestRedis(t)

	data, hit, err := c.Get(ctx, "missing")
	if err != nil || hit || data != nil {
		t.Fatalf("Get(missing) = %q, %v, %v; want a clean miss", data, hit, err)
	}

	if err := c.Set(ctx, "svg", []byte("<svg></svg>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err = c.Get(ctx, "svg")
	if err != nil || !hit || string(data) != "<svg></svg>" {
		t.Errorf("Get(svg) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "svg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "svg"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	if err := c.Set(ctx, "short", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if got := mr.TTL("short"); got != time.Minute {
		t.Errorf("TTL(short) = %v, want 1m", got)
	}

	for _, ttl := range []time.Duration{0, -time.Second} {
		key := fmt.Sprintf("forever%d", ttl)
		if err := c.Set(ctx, key, []byte("v"), ttl); err != nil {
			t.Fatal(err)
		}
		if got := mr.TTL(key); got != 0 {
			t.Errorf("TTL(%s) = %v, want no expiry", key, got)
		}
	}

	mr.FastForward(2 * time.Minute)
	if _, hit, err := c.Get(ctx, "short"); hit || err != nil {
		t.Errorf("expired entry: hit=%v err=%v, want a miss", hit, err)
	}
	if _, hit, _ := c.Get(ctx, "forever0"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	keyer := NewDefaultKeyer()
	scoped := NewScopedKeyer(keyer, "tenant:")

	// More than one UNLINK batch.
	const n = 2*clearBatch + 7
	for i := 0; i < n; i++ {
		key := keyer.ArtifactKey(ArtifactKeyOpts{Format: "svg", Value: fmt.Sprint(i)})
		if err := mr.Set(key, "x"); err != nil {
			t.Fatal(err)
		}
	}
	scopedKey := scoped.ArtifactKey(ArtifactKeyOpts{Format: "txt", Value: "x"})
	if err := c.Set(ctx, scopedKey, []byte("x"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := mr.Set("session:abc", "keep"); err != nil {
		t.Fatal(err)
	}

	removed, err := c.(Clearer).Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != n+1 {
		t.Errorf("Clear removed %d, want %d", removed, n+1)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "session:abc" {
		t.Errorf("keys left = %v, want only session:abc", keys)
	}

	if removed, err := c.(Clearer).Clear(ctx); removed != 0 || err != nil {
		t.Errorf("second Clear = %d, %v; want 0, nil", removed, err)
	}
}

func TestRedisCacheServerError(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	mr.SetError("ERR injected failure")
	_, hit, err := c.Get(ctx, "k")
	if hit || err == nil {
		t.Fatalf("Get = hit %v, err %v; want the server error", hit, err)
	}
	if errors.Is(err, ErrNetwork) || IsRetryable(err) {
		t.Errorf("server replies should not be retried as network errors: %v", err)
	}

	mr.SetError("")
	if _, _, err := c.Get(ctx, "k"); err != nil {
		t.Errorf("Get after recovery: %v", err)
	}
}
