package keystoreauth

import (
	"context"
	"fmt"
	"time"

	"github.com/hentaiOS/platform-system-security/permission"
)

// CheckGrantPermission decides whether the caller may grant the requested
// permission set on the given key to another principal.
//
// The target context is resolved from the key's domain: DomainApp checks
// against the service's own context, DomainSELinux against the key's
// namespace. No other domain supports granting; anything else is a caller
// contract violation reported as [ErrSystem].
//
// The caller must itself hold the class-level "grant" permission on the
// target. Independent of the caller's privilege, a requested set that
// contains KeyPermGrant is always denied: the grant permission cannot be
// delegated. The remaining permissions are checked against the backend in
// ascending bit order and the first deny aborts the operation.
func (e *Engine) CheckGrantPermission(ctx context.Context, caller SecurityContext, requested permission.KeyPermSet, key KeyDescriptor) error {
	if e == nil || e.backend == nil {
		return ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricCheckLatency, time.Since(start)) }()
	}

	var (
		target SecurityContext
		err    error
	)
	switch key.Domain {
	case DomainApp:
		target, err = e.ownContext(ctx)
	case DomainSELinux:
		target, err = e.resolveNamespace(ctx, key.Namespace)
	default:
		err = fmt.Errorf("%w: cannot grant for domain %v", ErrSystem, key.Domain)
	}
	if err != nil {
		e.recordOutcome(MetricGrantCheckAllowed, MetricGrantCheckDenied, err)
		e.emitDecision(ctx, auditEventGrantCheck, caller, "", classKeystoreKey, "", &key, err, nil)
		return err
	}

	if err := e.checkAccess(ctx, caller, target, classKeystoreKey, permission.KeyPermGrant.Name()); err != nil {
		err = fmt.Errorf("grant permission is required when granting: %w", err)
		e.recordOutcome(MetricGrantCheckAllowed, MetricGrantCheckDenied, err)
		e.emitDecision(ctx, auditEventGrantCheck, caller, target, classKeystoreKey, permission.KeyPermGrant.Name(), &key, err, nil)
		return err
	}

	// The grant permission itself can never be delegated, no matter how
	// privileged the caller is. Decided locally, before any backend call
	// for that permission.
	if requested.IncludesPerm(permission.KeyPermGrant) {
		err := fmt.Errorf("grant permission cannot be granted: %w", ErrPermissionDenied)
		e.metricInc(MetricGrantOfGrantRejected)
		e.recordOutcome(MetricGrantCheckAllowed, MetricGrantCheckDenied, err)
		e.emitDecision(ctx, auditEventGrantOfGrantReject, caller, target, classKeystoreKey, permission.KeyPermGrant.Name(), &key, err, nil)
		return err
	}

	it := requested.Iterator()
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		if err := e.checkAccess(ctx, caller, target, classKeystoreKey, p.Name()); err != nil {
			err = fmt.Errorf("granting %q: the caller may have tried to grant a permission it does not hold: %w", p.Name(), err)
			e.recordOutcome(MetricGrantCheckAllowed, MetricGrantCheckDenied, err)
			e.emitDecision(ctx, auditEventGrantCheck, caller, target, classKeystoreKey, p.Name(), &key, err, nil)
			return err
		}
	}

	e.recordOutcome(MetricGrantCheckAllowed, MetricGrantCheckDenied, nil)
	e.emitDecision(ctx, auditEventGrantCheck, caller, target, classKeystoreKey, "", &key, nil, func() map[string]string {
		return map[string]string{
			"requested": fmt.Sprintf("%#x", uint32(requested)),
		}
	})
	return nil
}
