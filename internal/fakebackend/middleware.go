package fakebackend

import (
	"log/slog"
	"net/http"

	"github.com/jub0bs/cors"
	"golang.org/x/time/rate"

	"github.com/Brayan980312/ProyectoUniversidad/internal/config"
	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
)

// NewCORS builds the CORS middleware for the browser console. The client sends Authorization and X-Request-ID.
func NewCORS(allowedOrigins []string) (*cors.Middleware, error) {
	return cors.NewMiddleware(cors.Config{
		Origins: allowedOrigins,
		Methods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
		},
		RequestHeaders: []string{
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAgeInSeconds: config.CORSMaxAgeInSeconds,
	})
}

func CORS(middleware *cors.Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return middleware.Wrap(next)
	}
}

// RateLimit limits requests per second. If requestsPerSecond <= 0, rate limiting is disabled.
func RateLimit(requestsPerSecond int32, burst int32) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.ContextWithLogAttrs(r.Context(),
					slog.String("remote_addr", r.RemoteAddr),
				)
				RespondWithProblem(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
