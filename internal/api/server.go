package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/17nithinnayak/SignBridgeBackend/internal/config"
	"github.com/17nithinnayak/SignBridgeBackend/internal/metrics"
)

// Deps carries the data sources the HTTP layer serves.
type Deps struct {
	Vocab      VocabularySource
	Watcher    WatcherSource // nil when file watching is disabled
	Translator TextTranslator
	Quizzer    QuizSource
	Resolver   ResolverSource
	Stream     http.Handler  // websocket endpoint, nil to disable
	Sessions   SessionSource // live session counts, usually the same hub
	OpenAPI    []byte
}

type Server struct {
	http *http.Server
	log  zerolog.Logger
}

func NewServer(cfg *config.Config, deps Deps, version string, startTime time.Time, log zerolog.Logger) *Server {
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(Logger(log))
	r.Use(CORSWithOrigins(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteErrorWithCode(w, http.StatusNotFound, ErrNotFound, "no such endpoint")
	})

	// Root status endpoint, the conventional "is it up" probe
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "SignBridge Backend is running!"})
	})

	// Streaming endpoint, mounted outside InstrumentHandler. The upgrade
	// hijacks the connection; sessions track their own metrics.
	if deps.Stream != nil {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(cfg.AuthToken))
			r.Method(http.MethodGet, "/ws/translate", deps.Stream)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(metrics.InstrumentHandler)
		r.Use(RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

		r.Route("/api", func(r chi.Router) {
			// Health and the OpenAPI document are not gated behind auth
			health := NewHealthHandler(deps.Vocab, deps.Watcher, deps.Sessions, version, startTime)
			r.Get("/health", health.ServeHTTP)

			if len(deps.OpenAPI) > 0 {
				r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
					w.Header().Set("Content-Type", "application/yaml")
					w.Write(deps.OpenAPI)
				})
			}

			r.Group(func(r chi.Router) {
				r.Use(BearerAuth(cfg.AuthToken))
				NewTranslateHandler(deps.Translator).Routes(r)
				NewQuizHandler(deps.Quizzer).Routes(r)
				NewVocabularyHandler(deps.Vocab, deps.Watcher, deps.Resolver).Routes(r)
			})
		})

		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Handler exposes the assembled router, mainly for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
