package keystoreauth

import (
	"context"
	"fmt"
	"time"

	"github.com/hentaiOS/platform-system-security/permission"
)

// CheckKeyPermission decides whether the caller may perform the given
// key-level operation on the key identified by the descriptor.
//
// The behavior depends on the key's domain:
//
//   - DomainApp: the service's own context is the check target.
//   - DomainSELinux: the key's namespace is resolved to the target.
//   - DomainGrant: no backend mediation. The supplied accessVector is the
//     capability the caller was granted; the verdict is purely local set
//     membership. A nil accessVector is a caller contract violation.
//   - DomainKeyID: always [ErrSystem]. The upstream database lookup must
//     have rewritten the descriptor into DomainApp or DomainSELinux.
//   - DomainBlob: the namespace is resolved like DomainSELinux, and the
//     caller must hold both "manage_blob" and the requested permission on
//     the target, since blob keys bypass namespace isolation.
//
// A nil return is an allow verdict; deny wraps [ErrPermissionDenied];
// caller contract violations wrap [ErrSystem]; oracle and resolver faults
// wrap [ErrBackend].
func (e *Engine) CheckKeyPermission(ctx context.Context, caller SecurityContext, perm permission.KeyPerm, key KeyDescriptor, accessVector *permission.KeyPermSet) error {
	if e == nil || e.backend == nil {
		return ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricCheckLatency, time.Since(start)) }()
	}

	err := e.checkKeyPermission(ctx, caller, perm, key, accessVector)
	e.recordOutcome(MetricKeyCheckAllowed, MetricKeyCheckDenied, err)
	e.emitDecision(ctx, auditEventKeyCheck, caller, "", classKeystoreKey, perm.Name(), &key, err, nil)
	return err
}

func (e *Engine) checkKeyPermission(ctx context.Context, caller SecurityContext, perm permission.KeyPerm, key KeyDescriptor, accessVector *permission.KeyPermSet) error {
	var target SecurityContext

	switch key.Domain {
	case DomainApp:
		ownTarget, err := e.ownContext(ctx)
		if err != nil {
			return fmt.Errorf("check key permission %q: %w", perm.Name(), err)
		}
		target = ownTarget

	case DomainSELinux:
		nsTarget, err := e.resolveNamespace(ctx, key.Namespace)
		if err != nil {
			return fmt.Errorf("check key permission %q: %w", perm.Name(), err)
		}
		target = nsTarget

	case DomainGrant:
		if accessVector == nil {
			return fmt.Errorf("%w: cannot check permission for grant domain without access vector", ErrSystem)
		}
		// A grant token is a locally verifiable capability; the backend
		// is not consulted.
		if accessVector.IncludesPerm(perm) {
			return nil
		}
		return fmt.Errorf("%q not granted: %w", perm.Name(), ErrPermissionDenied)

	case DomainKeyID:
		// The database lookup should have rewritten DomainKeyID into
		// DomainApp or DomainSELinux before reaching the engine.
		return fmt.Errorf("%w: cannot check permission for key id domain", ErrSystem)

	case DomainBlob:
		nsTarget, err := e.resolveNamespace(ctx, key.Namespace)
		if err != nil {
			return fmt.Errorf("check key permission %q: %w", perm.Name(), err)
		}
		// Blob keys escape namespace isolation, so the blanket
		// manage_blob right is required in addition to the requested
		// permission.
		if err := e.checkAccess(ctx, caller, nsTarget, classKeystoreKey, permission.KeyPermManageBlob.Name()); err != nil {
			return fmt.Errorf("blob domain requires %q: %w", permission.KeyPermManageBlob.Name(), err)
		}
		target = nsTarget

	default:
		return fmt.Errorf("%w: cannot check permission for domain %v", ErrSystem, key.Domain)
	}

	if err := e.checkAccess(ctx, caller, target, classKeystoreKey, perm.Name()); err != nil {
		return fmt.Errorf("key permission %q for %q: %w", perm.Name(), caller, err)
	}
	return nil
}
