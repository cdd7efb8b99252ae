package httputil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
)

// Hooks reports every request to h. Responses with a 5xx status are also
// reported through OnError.
func Hooks(h observability.HTTPHooks) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			h.OnRequest(ctx, r.Method, r.URL.Path)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			h.OnResponse(ctx, r.Method, r.URL.Path, status, time.Since(start))
			if status >= http.StatusInternalServerError {
				h.OnError(ctx, r.Method, r.URL.Path, fmt.Errorf("status %d", status))
			}
		})
	}
}
