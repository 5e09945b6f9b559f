package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	mw "github.com/5w1tchy/novelia-api/internal/api/middlewares"
)

type stubAuthn map[string]mw.Principal

func (s stubAuthn) Authenticate(_ context.Context, token string) (mw.Principal, error) {
	p, ok := s[token]
	if !ok {
		return mw.Principal{}, errors.New("invalid token")
	}
	return p, nil
}

var authn = stubAuthn{
	"reader": {UserID: 1},
	"admin":  {UserID: 2, IsStaff: true},
}

func TestRequire(t *testing.T) {
	cases := []struct {
		name   string
		level  mw.Level
		header string
		want   int
	}{
		{"public anonymous", mw.Public, "", http.StatusOK},
		{"authenticated anonymous", mw.Authenticated, "", http.StatusUnauthorized},
		{"authenticated bearer", mw.Authenticated, "Bearer reader", http.StatusOK},
		{"authenticated token scheme", mw.Authenticated, "Token reader", http.StatusOK},
		{"authenticated bad token", mw.Authenticated, "Bearer nope", http.StatusUnauthorized},
		{"authenticated bad scheme", mw.Authenticated, "Basic reader", http.StatusUnauthorized},
		{"admin as reader", mw.AdminOnly, "Bearer reader", http.StatusForbidden},
		{"admin as admin", mw.AdminOnly, "bearer admin", http.StatusOK},
		{"admin anonymous", mw.AdminOnly, "", http.StatusUnauthorized},
		{"public with bad token", mw.Public, "Bearer nope", http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := mw.Chain(okHandler, mw.Authenticate(authn), mw.Require(c.level))
			req := httptest.NewRequest("GET", "/books", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, c.want, rec.Code)
		})
	}
}

func TestRequire_UnauthorizedBody(t *testing.T) {
	h := mw.Chain(okHandler, mw.Authenticate(authn), mw.Require(mw.Authenticated))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/books", nil))

	assert.JSONEq(t, `{"error":"Authentication credentials were not provided."}`, rec.Body.String())
}

func TestAuthenticate_AttachesPrincipal(t *testing.T) {
	var got mw.Principal
	h := mw.Authenticate(authn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = mw.PrincipalFrom(r.Context())
	}))
	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer admin")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, int64(2), got.UserID)
	assert.True(t, got.IsStaff)
}
