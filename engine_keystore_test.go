package keystoreauth

import (
	"context"
	"errors"
	"testing"

	"github.com/hentaiOS/platform-system-security/permission"
)

func TestCheckKeystorePermissionAllowsPrivilegedCaller(t *testing.T) {
	engine, done := buildTestEngine(t, newFixtureBackend())
	defer done()

	ctx := context.Background()
	for _, perm := range permission.AllKeystorePerms() {
		if err := engine.CheckKeystorePermission(ctx, ctxSystemServer, perm); err != nil {
			t.Fatalf("expected %q to be allowed for system_server: %v", perm.Name(), err)
		}
	}
}

func TestCheckKeystorePermissionDeniesUnprivilegedCaller(t *testing.T) {
	engine, done := buildTestEngine(t, newFixtureBackend())
	defer done()

	ctx := context.Background()
	for _, perm := range permission.AllKeystorePerms() {
		err := engine.CheckKeystorePermission(ctx, ctxShell, perm)
		if err == nil {
			t.Fatalf("expected %q to be denied for shell", perm.Name())
		}
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected permission denied for %q, got %v", perm.Name(), err)
		}
	}
}

func TestCheckKeystorePermissionBackendFault(t *testing.T) {
	engine, done := buildTestEngine(t, faultBackend{err: errors.New("policy database unavailable")})
	defer done()

	err := engine.CheckKeystorePermission(context.Background(), ctxSystemServer, permission.KeystorePermLock)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("fault must not read as a deny verdict: %v", err)
	}
}

func TestCheckKeystorePermissionNilEngine(t *testing.T) {
	var engine *Engine
	err := engine.CheckKeystorePermission(context.Background(), ctxShell, permission.KeystorePermGetState)
	if !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected engine not ready, got %v", err)
	}
}

func TestCheckKeystorePermissionMetrics(t *testing.T) {
	engine, done := buildTestEngine(t, newFixtureBackend())
	defer done()

	ctx := context.Background()
	if err := engine.CheckKeystorePermission(ctx, ctxSystemServer, permission.KeystorePermLock); err != nil {
		t.Fatalf("allow check failed: %v", err)
	}
	if err := engine.CheckKeystorePermission(ctx, ctxShell, permission.KeystorePermLock); err == nil {
		t.Fatal("expected deny")
	}

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricKeystoreCheckAllowed]; got != 1 {
		t.Fatalf("allowed counter = %d, want 1", got)
	}
	if got := snap.Counters[MetricKeystoreCheckDenied]; got != 1 {
		t.Fatalf("denied counter = %d, want 1", got)
	}
}
