package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/5w1tchy/novelia-api/internal/api/httpx"
)

// Authenticate attaches a Principal when a valid access token is present. A missing or
// invalid token leaves the request anonymous; Require decides whether that is acceptable.
func Authenticate(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr, err := bearer(raw)
			if err != nil {
				next.ServeHTTP(w, r) // ignore bad header; act as guest
				return
			}
			p, err := authn.Authenticate(r.Context(), tokenStr)
			if err != nil {
				httpx.LoggerFrom(r.Context()).Debug("auth: token rejected", slog.Any("err", err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// bearer accepts "Bearer <t>" and "Token <t>", case-insensitively.
func bearer(h string) (string, error) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || (!strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token")) {
		return "", errors.New("no bearer")
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", errors.New("empty token")
	}
	return tok, nil
}
