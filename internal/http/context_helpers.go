package httpx

import (
	"context"
)

// viewIDKey is an unexported context key type to avoid collisions across packages.
type viewIDKey struct{}

// SetViewIDInContext returns a child context that carries the board view id.
// An empty id returns ctx unchanged.
func SetViewIDInContext(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, viewIDKey{}, id)
}

// GetViewIDFromContext returns the board view id and whether one is present.
func GetViewIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(viewIDKey{}).(string)
	return id, ok && id != ""
}
