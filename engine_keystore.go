package keystoreauth

import (
	"context"
	"fmt"
	"time"

	"github.com/hentaiOS/platform-system-security/permission"
)

// CheckKeystorePermission decides whether the caller may perform the given
// service-level operation. The check target is always the service's own
// security context as reported by the backend.
//
// A nil return is an allow verdict. A deny verdict wraps
// [ErrPermissionDenied]; a context-resolution or oracle fault wraps
// [ErrBackend]. Both carry the permission name for diagnosis.
func (e *Engine) CheckKeystorePermission(ctx context.Context, caller SecurityContext, perm permission.KeystorePerm) error {
	if e == nil || e.backend == nil {
		return ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricCheckLatency, time.Since(start)) }()
	}

	target, err := e.ownContext(ctx)
	if err != nil {
		err = fmt.Errorf("check keystore permission %q: %w", perm.Name(), err)
		e.recordOutcome(MetricKeystoreCheckAllowed, MetricKeystoreCheckDenied, err)
		e.emitDecision(ctx, auditEventKeystoreCheck, caller, "", classKeystore, perm.Name(), nil, err, nil)
		return err
	}

	err = e.checkAccess(ctx, caller, target, classKeystore, perm.Name())
	if err != nil {
		err = fmt.Errorf("keystore permission %q for %q: %w", perm.Name(), caller, err)
	}

	e.recordOutcome(MetricKeystoreCheckAllowed, MetricKeystoreCheckDenied, err)
	e.emitDecision(ctx, auditEventKeystoreCheck, caller, target, classKeystore, perm.Name(), nil, err, nil)
	return err
}
