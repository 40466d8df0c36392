// Package requestid carries a per-request correlation ID through contexts so
// handlers, services and background logs can be tied to one HTTP request.
package requestid

import "context"

type ctxKey struct{}

// NewContext returns a context carrying the given request ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or an empty string when
// none was attached.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
