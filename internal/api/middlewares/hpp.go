package middlewares

import (
	"net/http"
	"slices"
)

// QueryParams collapses repeated query parameters to their last value and drops any
// parameter not in allowed.
func QueryParams(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				filterQueryParams(r, allowed)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func filterQueryParams(r *http.Request, allowed []string) {
	query := r.URL.Query()
	for k, v := range query {
		if !slices.Contains(allowed, k) {
			query.Del(k)
			continue
		}
		if len(v) > 1 {
			query.Set(k, v[len(v)-1])
		}
	}
	r.URL.RawQuery = query.Encode()
}
