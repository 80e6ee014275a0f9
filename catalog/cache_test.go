package catalog

import (
	"testing"
	"time"

	"comanda/rdx"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	old := rdx.Conn
	rdx.Conn = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdx.Conn.Close()
		rdx.Conn = old
	})
	return mr
}

func TestMenuCacheRoundtrip(t *testing.T) {
	mr := withTestRedis(t)

	payload := `{"categories":[],"products":{}}`
	if err := rdx.SetWithExpiry(menuCacheKey, payload, menuCacheTTL); err != nil {
		t.Fatalf("SetWithExpiry: %v", err)
	}

	got, err := rdx.RdxGet(menuCacheKey)
	if err != nil {
		t.Fatalf("RdxGet: %v", err)
	}
	if got != payload {
		t.Errorf("cached menu = %q, want %q", got, payload)
	}
	if ttl := mr.TTL(menuCacheKey); ttl <= 0 || ttl > menuCacheTTL {
		t.Errorf("menu cached with ttl %v, want (0, %v]", ttl, menuCacheTTL)
	}
}

func TestMenuCacheInvalidation(t *testing.T) {
	mr := withTestRedis(t)

	if err := rdx.SetWithExpiry(menuCacheKey, "stale menu", time.Minute); err != nil {
		t.Fatalf("SetWithExpiry: %v", err)
	}

	invalidateMenuCache()

	if mr.Exists(menuCacheKey) {
		t.Error("menu cache key survived invalidation")
	}
	if _, err := rdx.RdxGet(menuCacheKey); err != redis.Nil {
		t.Errorf("expected redis.Nil after invalidation, got %v", err)
	}
}
