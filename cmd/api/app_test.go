package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/novelia-api/internal/config"
	"github.com/5w1tchy/novelia-api/internal/logging"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("MEDIA_BUCKET", "novelia")
	t.Setenv("MEDIA_PUBLIC_BASE_URL", "https://cdn.example.com")
	t.Setenv("MEDIA_ENDPOINT", "https://account.r2.cloudflarestorage.com")
	t.Setenv("MEDIA_ACCESS_KEY", "AKIDEXAMPLE")
	t.Setenv("MEDIA_SECRET_KEY", "secret")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuild_MemoryStore(t *testing.T) {
	a, err := build(t.Context(), memoryConfig(t), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	for path, want := range map[string]int{
		"/healthz":  http.StatusOK,
		"/readyz":   http.StatusOK,
		"/books":    http.StatusOK,
		"/books/1":  http.StatusNotFound,
		"/user":     http.StatusUnauthorized,
		"/users":    http.StatusUnauthorized,
		"/nowhere/": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestBuild_BadRedisFails(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Redis.URL = "not-a-url"

	_, err := build(t.Context(), cfg, logging.Discard())
	assert.Error(t, err)
}
