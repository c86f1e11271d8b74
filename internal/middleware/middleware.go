package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"
)

// HTTPSMiddleware redirects plain http traffic seen by the TLS terminating
// proxy. Requests without X-Forwarded-Proto (internal calls) pass through.
func HTTPSMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" && r.Header.Get("X-Forwarded-Proto") == "http" {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func LoggingMiddleware(next http.Handler, logger zerolog.Logger) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
		logger.Info().
			Str("host", p.Request.Host).
			Str("method", p.Request.Method).
			Stringer("url", &p.URL).
			Int("status", p.StatusCode).
			Int("size", p.Size).
			Dur("duration", time.Since(p.TimeStamp)).
			Str("user-agent", p.Request.UserAgent()).
			Str("x-forwarded-for", p.Request.Header.Get("x-forwarded-for")).
			Msg("req")
	})
}

func HeadersMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" {
			w.Header().Set("X-Frame-Options", "deny")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			w.Header().Set("Referrer-Policy", "origin")
		}
		next.ServeHTTP(w, r)
	})
}

func GzipMiddleware(next http.Handler) http.Handler {
	return handlers.CompressHandler(next)
}
