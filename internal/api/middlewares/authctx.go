package middlewares

import (
	"context"
	"time"
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID      int64
	IsStaff     bool
	IsSuperuser bool
	TokenID     string
	ExpiresAt   time.Time
}

// Authenticator resolves a raw access token to a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// WithPrincipal attaches p to ctx and reports it to an enclosing AccessLog.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if e, ok := ctx.Value(ctxKeyAccess).(*accessEntry); ok {
		e.userID = p.UserID
	}
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok && p.UserID != 0
}
