package keystoreauth

import (
	"context"
	"testing"

	"github.com/hentaiOS/platform-system-security/permission"
)

func TestBuildRequiresBackend(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected build without backend to fail")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	builder := New().WithBackend(newFixtureBackend())

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second build on the same builder to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Audit.BufferSize = -1

	if _, err := New().WithConfig(cfg).WithBackend(newFixtureBackend()).Build(); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
}

func TestBuilderConfigIsolation(t *testing.T) {
	cfg := defaultConfig()
	cfg.Audit.IncludeAllowed = false

	sink := &countingSink{}
	engine, err := New().
		WithConfig(cfg).
		WithBackend(newFixtureBackend()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Mutating the caller's copy after Build must not affect the engine.
	cfg.Audit.IncludeAllowed = true

	if err := engine.CheckKeystorePermission(context.Background(), ctxSystemServer, permission.KeystorePermLock); err != nil {
		t.Fatalf("allow check failed: %v", err)
	}
	engine.Close()

	if got := sink.Count(); got != 0 {
		t.Fatalf("sink received %d events, want 0", got)
	}
}

func TestBuilderMetricsToggles(t *testing.T) {
	engine, err := New().
		WithBackend(newFixtureBackend()).
		WithMetricsEnabled(false).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.CheckKeystorePermission(context.Background(), ctxSystemServer, permission.KeystorePermLock); err != nil {
		t.Fatalf("allow check failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricKeystoreCheckAllowed]; got != 0 {
		t.Fatalf("expected disabled metrics to stay zero, got %d", got)
	}
}
