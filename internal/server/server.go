package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/metrics"
	"github.com/jobboard/prerender/internal/middleware"
)

type Server struct {
	cfg     config.Config
	Conn    *sql.DB
	router  *mux.Router
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// NewServer wires the shared http plumbing. conn may be nil for binaries
// that never query the database.
func NewServer(cfg config.Config, conn *sql.DB, r *mux.Router, m *metrics.Metrics) Server {
	if cfg.SentryDSN != "" {
		raven.SetDSN(cfg.SentryDSN)
	}
	return Server{
		cfg:     cfg,
		Conn:    conn,
		router:  r,
		Logger:  NewLogger(cfg.Env),
		Metrics: m,
	}
}

// NewLogger writes human readable lines in dev and JSON everywhere else.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterPathPrefix(path string, handler http.Handler, methods []string) {
	s.router.PathPrefix(path).Handler(handler).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) HTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(html))
}

func (s Server) XML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

// Log reports err to sentry when configured and always logs it.
func (s Server) Log(err error, msg string) {
	if s.cfg.SentryDSN != "" {
		raven.CaptureError(err, map[string]string{"ctx": msg})
	}
	s.Logger.Error().Err(err).Msg(msg)
}

// Handler is the router wrapped in the middleware chain every binary uses.
func (s Server) Handler() http.Handler {
	return middleware.HTTPSMiddleware(
		middleware.GzipMiddleware(
			middleware.LoggingMiddleware(middleware.HeadersMiddleware(s.router, s.cfg.Env), s.Logger),
		),
		s.cfg.Env,
	)
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.Logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	if s.cfg.MetricsPort != "" && s.Metrics != nil {
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf(":%s", s.cfg.MetricsPort), s.Metrics.Handler()); err != nil {
				s.Log(err, "metrics listener stopped")
			}
		}()
	}
	return http.ListenAndServe(addr, s.Handler())
}
