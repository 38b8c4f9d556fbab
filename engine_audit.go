package keystoreauth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventKeystoreCheck      = "keystore_permission_check"
	auditEventGrantCheck         = "grant_permission_check"
	auditEventKeyCheck           = "key_permission_check"
	auditEventGrantOfGrantReject = "grant_of_grant_rejected"
)

const (
	decisionAllow        = "allow"
	decisionDeny         = "deny"
	decisionSystemError  = "system_error"
	decisionBackendError = "backend_error"
)

func decisionForError(err error) string {
	switch {
	case err == nil:
		return decisionAllow
	case errors.Is(err, ErrPermissionDenied):
		return decisionDeny
	case errors.Is(err, ErrSystem):
		return decisionSystemError
	default:
		return decisionBackendError
	}
}

func (e *Engine) emitDecision(
	ctx context.Context,
	eventType string,
	caller SecurityContext,
	target SecurityContext,
	class string,
	permissionName string,
	key *KeyDescriptor,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:     time.Now().UTC(),
		EventID:       uuid.NewString(),
		EventType:     eventType,
		OperationID:   operationIDFromContext(ctx),
		CallerContext: string(caller),
		TargetContext: string(target),
		Class:         class,
		Permission:    permissionName,
		Decision:      decisionForError(err),
		Metadata:      metadata,
	}
	if key != nil {
		event.Domain = key.Domain.String()
		event.Namespace = key.Namespace
	}
	if err != nil {
		event.Error = err.Error()
	}

	e.audit.Emit(ctx, event)
}
