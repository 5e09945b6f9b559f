package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	mw "github.com/5w1tchy/novelia-api/internal/api/middlewares"
)

func TestQueryParams(t *testing.T) {
	var got string
	h := mw.QueryParams("search", "genre")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/books?search=a&search=b&genre=Poetry&debug=1", nil))

	assert.Equal(t, "genre=Poetry&search=b", got)
}

func TestTrimTrailingSlash(t *testing.T) {
	var got string
	h := mw.TrimTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
	}))

	for in, want := range map[string]string{"/books/7/": "/books/7", "/": "/", "/books": "/books"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", in, nil))
		assert.Equal(t, want, got, in)
	}
}
