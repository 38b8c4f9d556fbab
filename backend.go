package keystoreauth

import (
	"context"
	"fmt"
	"sync"
)

// Backend is the mandatory-access-control collaborator consulted by the
// engine. Implementations may block on I/O or kernel queries; every method
// takes a context for that reason, though the engine itself imposes no
// timeout.
//
// CheckAccess returns nil for an allow verdict, an error wrapping
// [ErrPermissionDenied] for a deny verdict, and any other error for an
// oracle fault. OwnContext and ResolveNamespace report faults (including
// unknown namespaces) as plain errors; the engine classifies them as
// [ErrBackend].
type Backend interface {
	OwnContext(ctx context.Context) (SecurityContext, error)
	ResolveNamespace(ctx context.Context, namespace int64) (SecurityContext, error)
	CheckAccess(ctx context.Context, caller, target SecurityContext, class, permission string) error
}

type staticRule struct {
	caller SecurityContext
	target SecurityContext
	class  string
	perm   string
}

// StaticBackend is an in-memory [Backend] driven by an explicit rule
// table. It exists for tests, fixtures, and load generation; production
// deployments wire a real policy oracle instead.
//
// The zero value is not usable; construct with [NewStaticBackend]. All
// methods are safe for concurrent use once the rule table is populated.
type StaticBackend struct {
	own SecurityContext

	mu         sync.RWMutex
	namespaces map[int64]SecurityContext
	rules      map[staticRule]struct{}
}

// NewStaticBackend creates a rule-table backend whose OwnContext answer is
// own.
func NewStaticBackend(own SecurityContext) *StaticBackend {
	return &StaticBackend{
		own:        own,
		namespaces: make(map[int64]SecurityContext),
		rules:      make(map[staticRule]struct{}),
	}
}

// AddNamespace maps a namespace id to its target context.
func (b *StaticBackend) AddNamespace(namespace int64, target SecurityContext) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.namespaces[namespace] = target
}

// Allow records an allow rule for the (caller, target, class, permission)
// tuple. Tuples without a rule are denied.
func (b *StaticBackend) Allow(caller, target SecurityContext, class, permission string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rules[staticRule{caller: caller, target: target, class: class, perm: permission}] = struct{}{}
}

// AllowAll records allow rules for every listed permission of one class.
func (b *StaticBackend) AllowAll(caller, target SecurityContext, class string, permissions []string) {
	for _, p := range permissions {
		b.Allow(caller, target, class, p)
	}
}

// OwnContext implements [Backend].
func (b *StaticBackend) OwnContext(context.Context) (SecurityContext, error) {
	return b.own, nil
}

// ResolveNamespace implements [Backend]. Unknown namespaces are a lookup
// fault, mirroring the not-found behavior of a real policy backend.
func (b *StaticBackend) ResolveNamespace(_ context.Context, namespace int64) (SecurityContext, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	target, ok := b.namespaces[namespace]
	if !ok {
		return "", fmt.Errorf("namespace %d not found", namespace)
	}
	return target, nil
}

// CheckAccess implements [Backend].
func (b *StaticBackend) CheckAccess(_ context.Context, caller, target SecurityContext, class, permission string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.rules[staticRule{caller: caller, target: target, class: class, perm: permission}]; ok {
		return nil
	}
	return fmt.Errorf("%w: %s may not %s %s %s", ErrPermissionDenied, caller, permission, class, target)
}
