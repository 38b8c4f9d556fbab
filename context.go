package keystoreauth

import "context"

type operationIDContextKey struct{}

// WithOperationID attaches a request-scoped correlation id to ctx. The
// engine copies it into every audit event produced for the request so a
// multi-permission grant check can be reassembled from the audit stream.
func WithOperationID(ctx context.Context, operationID string) context.Context {
	return context.WithValue(ctx, operationIDContextKey{}, operationID)
}

func operationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	operationID, _ := ctx.Value(operationIDContextKey{}).(string)
	return operationID
}
