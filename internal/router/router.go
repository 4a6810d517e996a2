package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/scoutline/recruiting-data/internal/email"
	"github.com/scoutline/recruiting-data/internal/recruit"
	"github.com/scoutline/recruiting-data/internal/team"
	"github.com/scoutline/recruiting-data/internal/user"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
// It is intentionally simple and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			// Referrer policy
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")

			// Permissions policy (formerly Feature-Policy) - tighten common features
			// allow none for camera, microphone, geolocation by default
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			// Basic Content-Security-Policy - block mixed content and restrict sources to self by default
			// Keep this conservative; callers may opt to override with more specific policy downstream.
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}

			// HSTS - instruct browsers to use HTTPS for future requests. Only set if request is over TLS.
			if r.TLS != nil {
				// 30 days by default
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// Routes under /api other than health and auth require a bearer token.
func RegisterRoutes(db *sqlx.DB, tokens *user.TokenIssuer, logger *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()

	auth := user.AuthMiddleware(tokens)
	authed := func(h http.HandlerFunc) http.Handler { return auth(h) }

	// health
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// accounts and sessions
	userHandler := user.NewHandler(db, tokens, logger)
	mux.HandleFunc("POST /api/auth/signup", userHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", userHandler.Login)
	mux.Handle("GET /api/me", authed(userHandler.Me))
	mux.Handle("PUT /api/me/settings", authed(userHandler.UpdateSettings))

	// recruits
	recruitHandler := recruit.NewHandler(db, logger)
	mux.Handle("POST /api/recruits", authed(recruitHandler.Create))
	mux.Handle("GET /api/recruits", authed(recruitHandler.List))
	mux.Handle("GET /api/recruits/stats", authed(recruitHandler.Stats))
	mux.Handle("GET /api/recruits/{id}", authed(recruitHandler.Get))
	mux.Handle("PUT /api/recruits/{id}", authed(recruitHandler.Update))
	mux.Handle("POST /api/recruits/{id}/evaluation", authed(recruitHandler.Evaluate))
	mux.Handle("DELETE /api/recruits/{id}", authed(recruitHandler.Delete))

	// emails and the processing queue
	emailHandler := email.NewHandler(db, logger)
	mux.Handle("POST /api/emails", authed(emailHandler.Ingest))
	mux.Handle("GET /api/emails", authed(emailHandler.List))
	mux.Handle("GET /api/emails/stats", authed(emailHandler.Stats))
	mux.Handle("GET /api/emails/{id}", authed(emailHandler.Get))
	mux.Handle("POST /api/emails/{id}/processed", authed(emailHandler.MarkProcessed))
	mux.Handle("POST /api/queue", authed(emailHandler.Enqueue))
	mux.Handle("GET /api/queue", authed(emailHandler.Queue))
	mux.Handle("POST /api/queue/{id}/status", authed(emailHandler.UpdateQueueStatus))

	// team catalog
	teamHandler := team.NewHandler(db, logger)
	mux.Handle("POST /api/teams", authed(teamHandler.Create))
	mux.Handle("GET /api/teams", authed(teamHandler.List))
	mux.Handle("GET /api/teams/resolve", authed(teamHandler.Resolve))
	mux.Handle("GET /api/teams/stats", authed(teamHandler.Stats))
	mux.Handle("GET /api/teams/{id}", authed(teamHandler.Get))
	mux.Handle("POST /api/teams/{id}/aliases", authed(teamHandler.AddAlias))

	// wrap with security headers middleware then logging middleware
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
	return handler
}
