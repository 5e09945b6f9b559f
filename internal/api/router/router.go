package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/5w1tchy/novelia-api/internal/api/handlers/books"
	"github.com/5w1tchy/novelia-api/internal/api/httpx"
	mw "github.com/5w1tchy/novelia-api/internal/api/middlewares"
	"github.com/5w1tchy/novelia-api/internal/auth"
)

type Deps struct {
	Books        *books.Handler
	Auth         *auth.Handler
	Authn        mw.Authenticator
	Log          *slog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
	// Ready reports whether backing services answer; nil means always ready.
	Ready func(ctx context.Context) error
}

// Router wires every route with its access level behind the shared middleware chain.
func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	public := mw.Require(mw.Public)
	authed := mw.Require(mw.Authenticated)
	admin := mw.Require(mw.AdminOnly)
	route := func(pattern string, guard func(http.Handler) http.Handler, h http.HandlerFunc) {
		mux.Handle(pattern, guard(h))
	}

	// Accounts
	route("POST /signup", public, d.Auth.Signup)
	route("POST /login", public, d.Auth.Login)
	route("POST /logout", authed, d.Auth.Logout)
	route("GET /user", authed, d.Auth.Me)
	route("GET /users", admin, d.Auth.ListUsers)

	// Books
	route("GET /books", public, d.Books.List)
	route("GET /books/{id}", public, d.Books.Get)
	route("POST /books/create", admin, d.Books.Create)
	route("PUT /books/{id}/update", admin, d.Books.Update)
	route("DELETE /books/{id}/delete", admin, d.Books.Delete)
	route("GET /books/download/{id}", authed, d.Books.Download)

	// Probes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", readyz(d.Ready))

	return mw.Chain(mux,
		mw.RequestID,
		mw.AccessLog(d.Log),
		mw.Recovery,
		mw.SecurityHeaders,
		mw.CORS(d.CORSOrigins),
		mw.BodySizeLimit(d.MaxBodyBytes),
		mw.QueryParams("search", "genre"),
		mw.TrimTrailingSlash,
		mw.Authenticate(d.Authn),
	)
}

func readyz(ready func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				httpx.LoggerFrom(r.Context()).Warn("readiness check failed", slog.Any("err", err))
				httpx.ErrorJSON(w, http.StatusServiceUnavailable, "not ready")
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
