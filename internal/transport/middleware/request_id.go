package middleware

import (
	"net/http"

	"github.com/heartmarshall/translation-desk/pkg/ctxutil"
)

// RequestIDHeader is shared with the REST client so that a scrape and the
// backend calls it triggers can be correlated.
const RequestIDHeader = "X-Request-Id"

// RequestID reuses the incoming request ID or generates one, and echoes it
// in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(RequestIDHeader); id != "" {
			ctx = ctxutil.WithRequestID(ctx, id)
		}
		ctx, id := ctxutil.EnsureRequestID(ctx)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
