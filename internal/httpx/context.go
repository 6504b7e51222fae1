package httpx

import (
	"context"
	"net/http"
)

const RoleAdmin = "ADMIN"

type (
	callerKey    struct{}
	requestIDKey struct{}
)

// caller is the authenticated identity RequireAuth attaches to a request.
type caller struct {
	userID string
	role   string
}

func callerFrom(ctx context.Context) caller {
	c, _ := ctx.Value(callerKey{}).(caller)
	return c
}

// ContextWithUser attaches the caller's id and role to ctx.
func ContextWithUser(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller{userID: userID, role: role})
}

// UserIDFrom is empty for anonymous requests.
func UserIDFrom(r *http.Request) string {
	return callerFrom(r.Context()).userID
}

func RoleFrom(r *http.Request) string {
	return callerFrom(r.Context()).role
}

func IsAdmin(r *http.Request) bool {
	return RoleFrom(r) == RoleAdmin
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}
