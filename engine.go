package keystoreauth

import (
	"context"
	"errors"
	"fmt"
)

// Security class names spoken to the backend. Part of the wire contract
// with the policy; never rename without backend-side coordination.
const (
	classKeystore    = "keystore2"
	classKeystoreKey = "keystore2_key"
)

// Engine defines a public type used by keystoreauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config  Config
	backend Backend
	nsCache *namespaceCache
	audit   *auditDispatcher
	metrics *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditDroppedVerdicts reports lost deny and fault events specifically.
// These are never shed under buffer pressure, so a nonzero value points at
// caller cancellation or shutdown racing in-flight decisions.
func (e *Engine) AuditDroppedVerdicts() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.DroppedVerdicts()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// recordOutcome classifies err into the per-entry-point allow/deny
// counters or the shared system/backend fault counters.
func (e *Engine) recordOutcome(allowID, denyID MetricID, err error) {
	switch {
	case err == nil:
		e.metricInc(allowID)
	case errors.Is(err, ErrPermissionDenied):
		e.metricInc(denyID)
	case errors.Is(err, ErrSystem):
		e.metricInc(MetricSystemError)
	default:
		e.metricInc(MetricBackendError)
	}
}

// ownContext resolves the service's own security context, the check target
// for DomainApp keys and all service-level permissions.
func (e *Engine) ownContext(ctx context.Context) (SecurityContext, error) {
	target, err := e.backend.OwnContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: resolve own context: %v", ErrBackend, err)
	}
	return target, nil
}

// resolveNamespace resolves a policy namespace to its target context,
// consulting the optional Redis cache first. Cache faults degrade to a
// plain backend lookup; a stale entry can only outlive a policy reload by
// the configured TTL.
func (e *Engine) resolveNamespace(ctx context.Context, namespace int64) (SecurityContext, error) {
	if e.nsCache != nil {
		if target, ok := e.nsCache.Get(ctx, namespace); ok {
			e.metricInc(MetricNamespaceCacheHit)
			return target, nil
		}
		e.metricInc(MetricNamespaceCacheMiss)
	}

	target, err := e.backend.ResolveNamespace(ctx, namespace)
	if err != nil {
		return "", fmt.Errorf("%w: resolve namespace %d: %v", ErrBackend, namespace, err)
	}

	if e.nsCache != nil {
		e.nsCache.Put(ctx, namespace, target)
	}
	return target, nil
}

// checkAccess queries the backend oracle for one (caller, target, class,
// permission) tuple. Deny verdicts pass through carrying
// [ErrPermissionDenied]; anything else from the oracle is classified as
// [ErrBackend].
func (e *Engine) checkAccess(ctx context.Context, caller, target SecurityContext, class string, permissionName string) error {
	err := e.backend.CheckAccess(ctx, caller, target, class, permissionName)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) {
		return err
	}
	return fmt.Errorf("%w: check access %s %q: %v", ErrBackend, class, permissionName, err)
}
