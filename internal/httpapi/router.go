package httpapi

import (
	"net/http"

	"food-delivery-api/internal/logger"
	"food-delivery-api/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter assembles the middleware chain around the REST routes:
// cors, request-id, token auth, request logging, then rate limiting.
// Auth runs before the limiter and the logger so both see the caller's
// identity.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	var handler http.Handler = r
	handler = middleware.RateLimitMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.AuthMiddleware(handler)
	handler = h.countRequests(handler)
	handler = logger.RequestIDMiddleware(handler)

	return cors.Default().Handler(handler)
}

// statusWriter remembers the response code so the registry can tell
// denied requests apart from served ones.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// countRequests feeds the metrics registry. It sits outside the auth
// middleware so token rejections are counted too.
func (h *Handler) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Registry == nil {
			next.ServeHTTP(w, r)
			return
		}

		h.Registry.RequestsServed.Inc()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		if sw.status == http.StatusUnauthorized || sw.status == http.StatusForbidden {
			h.Registry.AuthFailures.Inc()
		}
	})
}
