package keystoreauth

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hentaiOS/platform-system-security/permission"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func buildCachedEngine(t *testing.T, backend Backend) (*Engine, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	engine, err := New().
		WithBackend(backend).
		WithRedis(rdb).
		WithNamespaceCache(true).
		Build()
	if err != nil {
		mr.Close()
		t.Fatalf("Build failed: %v", err)
	}
	return engine, mr, func() {
		engine.Close()
		mr.Close()
	}
}

func TestNamespaceCacheAvoidsRepeatResolution(t *testing.T) {
	counting := &countingBackend{inner: newFixtureBackend()}
	engine, _, done := buildCachedEngine(t, counting)
	defer done()

	ctx := context.Background()
	key := KeyDescriptor{Domain: DomainSELinux, Namespace: voldNamespace}

	if err := engine.CheckKeyPermission(ctx, ctxSystemServer, permission.KeyPermUse, key, nil); err != nil {
		t.Fatalf("first check failed: %v", err)
	}
	if err := engine.CheckKeyPermission(ctx, ctxSystemServer, permission.KeyPermUse, key, nil); err != nil {
		t.Fatalf("second check failed: %v", err)
	}

	if got := counting.resolveCalls.Load(); got != 1 {
		t.Fatalf("backend resolve calls = %d, want 1", got)
	}

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricNamespaceCacheMiss]; got != 1 {
		t.Fatalf("cache misses = %d, want 1", got)
	}
	if got := snap.Counters[MetricNamespaceCacheHit]; got != 1 {
		t.Fatalf("cache hits = %d, want 1", got)
	}
}

func TestNamespaceCacheExpiryFallsBackToBackend(t *testing.T) {
	counting := &countingBackend{inner: newFixtureBackend()}
	engine, mr, done := buildCachedEngine(t, counting)
	defer done()

	ctx := context.Background()
	key := KeyDescriptor{Domain: DomainSELinux, Namespace: voldNamespace}

	if err := engine.CheckKeyPermission(ctx, ctxSystemServer, permission.KeyPermUse, key, nil); err != nil {
		t.Fatalf("first check failed: %v", err)
	}

	mr.FastForward(defaultConfig().Cache.TTL * 2)

	if err := engine.CheckKeyPermission(ctx, ctxSystemServer, permission.KeyPermUse, key, nil); err != nil {
		t.Fatalf("check after expiry failed: %v", err)
	}
	if got := counting.resolveCalls.Load(); got != 2 {
		t.Fatalf("backend resolve calls = %d, want 2", got)
	}
}

func TestNamespaceCacheRedisDownDegradesToBackend(t *testing.T) {
	counting := &countingBackend{inner: newFixtureBackend()}
	engine, mr, done := buildCachedEngine(t, counting)
	defer done()

	mr.Close()

	ctx := context.Background()
	key := KeyDescriptor{Domain: DomainSELinux, Namespace: voldNamespace}

	for i := 0; i < 2; i++ {
		if err := engine.CheckKeyPermission(ctx, ctxSystemServer, permission.KeyPermUse, key, nil); err != nil {
			t.Fatalf("check %d failed with redis down: %v", i, err)
		}
	}
	if got := counting.resolveCalls.Load(); got != 2 {
		t.Fatalf("backend resolve calls = %d, want 2", got)
	}
}

func TestNamespaceCacheDisabledWithoutRedis(t *testing.T) {
	_, err := New().
		WithBackend(newFixtureBackend()).
		WithNamespaceCache(true).
		Build()
	if err == nil {
		t.Fatal("expected build to fail without a redis client")
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrBackend) {
		t.Fatalf("build error must not be a verdict error: %v", err)
	}
}
