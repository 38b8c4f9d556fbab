package keystoreauth

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/hentaiOS/platform-system-security/permission"
)

const (
	ctxKeystore     SecurityContext = "u:r:keystore:s0"
	ctxSystemServer SecurityContext = "u:r:system_server:s0"
	ctxShell        SecurityContext = "u:r:shell:s0"
	ctxVoldKey      SecurityContext = "u:object_r:vold_key:s0"
)

const voldNamespace int64 = 100

func keyPermNames() []string {
	perms := permission.AllKeyPerms()
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name())
	}
	return names
}

func keystorePermNames() []string {
	perms := permission.AllKeystorePerms()
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name())
	}
	return names
}

// newFixtureBackend builds the rule table shared by most engine tests:
// system_server is fully privileged against both the service context and
// the vold namespace, shell may only read and use app keys.
func newFixtureBackend() *StaticBackend {
	b := NewStaticBackend(ctxKeystore)
	b.AddNamespace(voldNamespace, ctxVoldKey)

	b.AllowAll(ctxSystemServer, ctxKeystore, classKeystore, keystorePermNames())
	b.AllowAll(ctxSystemServer, ctxKeystore, classKeystoreKey, keyPermNames())
	b.AllowAll(ctxSystemServer, ctxVoldKey, classKeystoreKey, keyPermNames())

	b.AllowAll(ctxShell, ctxKeystore, classKeystoreKey, []string{
		permission.KeyPermGetInfo.Name(),
		permission.KeyPermUse.Name(),
	})

	return b
}

func buildTestEngine(t *testing.T, backend Backend) (*Engine, func()) {
	t.Helper()

	engine, err := New().WithBackend(backend).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return engine, engine.Close
}

// countingBackend wraps another Backend and counts calls per method, so
// tests can assert which paths touch the oracle at all.
type countingBackend struct {
	inner Backend

	ownCalls     atomic.Int64
	resolveCalls atomic.Int64
	checkCalls   atomic.Int64
}

func (b *countingBackend) OwnContext(ctx context.Context) (SecurityContext, error) {
	b.ownCalls.Add(1)
	return b.inner.OwnContext(ctx)
}

func (b *countingBackend) ResolveNamespace(ctx context.Context, namespace int64) (SecurityContext, error) {
	b.resolveCalls.Add(1)
	return b.inner.ResolveNamespace(ctx, namespace)
}

func (b *countingBackend) CheckAccess(ctx context.Context, caller, target SecurityContext, class, permission string) error {
	b.checkCalls.Add(1)
	return b.inner.CheckAccess(ctx, caller, target, class, permission)
}

// faultBackend fails every method with the configured error, standing in
// for an unreachable policy oracle.
type faultBackend struct {
	err error
}

func (b faultBackend) OwnContext(context.Context) (SecurityContext, error) {
	return "", b.err
}

func (b faultBackend) ResolveNamespace(context.Context, int64) (SecurityContext, error) {
	return "", b.err
}

func (b faultBackend) CheckAccess(context.Context, SecurityContext, SecurityContext, string, string) error {
	return b.err
}
