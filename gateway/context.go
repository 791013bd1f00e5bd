package gateway

import "context"

type ctxKey uint8

const (
	ctxKeyAnonymous ctxKey = iota
	ctxKeyRequestID
)

// WithAnonymous marks the context so the transport sends the request without
// an Authorization header and ignores auth failures in its response. Login
// and register calls use this so a stale token never rides along and a
// rejected attempt never tears down an existing session.
func WithAnonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyAnonymous, true)
}

// IsAnonymous reports whether the context was marked by WithAnonymous.
func IsAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyAnonymous).(bool)
	return v
}

// WithRequestID pins the X-Request-Id the transport will send instead of
// generating one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestIDFrom returns the pinned request ID, if any.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyRequestID).(string)
	return id, ok && id != ""
}
