// Package requesttime captures one "now" per request so every timestamp
// written while serving it (history entries, read marks, token expiry) agrees.
package requesttime

import (
	"net/http"
	"time"

	"portal/pkg/requestcontext"
)

// New stamps each request with clock(), normalised to UTC at the microsecond
// precision Postgres keeps, so values read back compare equal.
func New(clock func() time.Time) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := clock().UTC().Truncate(time.Microsecond)
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), now)))
		})
	}
}
