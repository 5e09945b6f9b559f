package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/5w1tchy/novelia-api/internal/api/httpx"
)

type statusWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
	w.Header().Set("X-Response-Time", time.Since(w.start).String())
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// accessEntry is filled in by middleware running inside AccessLog.
type accessEntry struct {
	userID int64
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// AccessLog installs a request-scoped logger and logs one line per request.
// Must run after RequestID.
func AccessLog(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, start: time.Now(), status: http.StatusOK}
			log := base.With(slog.String("request_id", GetRequestID(r)))
			entry := &accessEntry{}
			ctx := context.WithValue(r.Context(), ctxKeyAccess, entry)
			r = r.WithContext(httpx.WithLogger(ctx, log))

			next.ServeHTTP(sw, r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Int64("bytes", sw.bytes),
				slog.Duration("duration", time.Since(sw.start)),
			}
			if p, ok := PrincipalFrom(r.Context()); ok {
				entry.userID = p.UserID
			}
			if entry.userID != 0 {
				attrs = append(attrs, slog.Int64("user_id", entry.userID))
			}
			level := slog.LevelInfo
			if sw.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.Log(r.Context(), level, "access", attrs...)
		})
	}
}
