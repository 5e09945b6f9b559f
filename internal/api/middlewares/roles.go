package middlewares

import (
	"net/http"

	"github.com/5w1tchy/novelia-api/internal/api/httpx"
	"github.com/5w1tchy/novelia-api/internal/apperr"
)

// Level is the access tier a route demands.
type Level int

const (
	Public Level = iota
	Authenticated
	AdminOnly
)

func (l Level) String() string {
	switch l {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	}
	return "unknown"
}

// Require gates next behind level. Runs after Authenticate.
func Require(level Level) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if level == Public {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				httpx.WriteError(w, r, apperr.New(apperr.ErrUnauthorized, "Authentication credentials were not provided."))
				return
			}
			if level == AdminOnly && !p.IsStaff {
				httpx.WriteError(w, r, apperr.New(apperr.ErrForbidden, "You do not have permission to perform this action."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies mws so that the first one is outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
