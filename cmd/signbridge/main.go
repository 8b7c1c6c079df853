package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	signbridge "github.com/17nithinnayak/SignBridgeBackend"
	"github.com/17nithinnayak/SignBridgeBackend/internal/api"
	"github.com/17nithinnayak/SignBridgeBackend/internal/config"
	"github.com/17nithinnayak/SignBridgeBackend/internal/metrics"
	"github.com/17nithinnayak/SignBridgeBackend/internal/stream"
	"github.com/17nithinnayak/SignBridgeBackend/internal/translate"
	"github.com/17nithinnayak/SignBridgeBackend/internal/vocab"
)

var version = "dev"

func main() {
	startTime := time.Now()

	// Flags beat env vars, which beat the .env file
	var overrides config.Overrides
	flag.StringVar(&overrides.EnvFile, "env-file", "", "path to .env file")
	flag.StringVar(&overrides.HTTPAddr, "addr", "", "listen address, e.g. :8000")
	flag.StringVar(&overrides.VocabDir, "vocab-dir", "", "directory with the vocabulary JSON files")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "debug, info, warn or error")
	flag.Parse()

	// Config
	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("signbridge starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Vocabulary
	vocabLog := log.With().Str("component", "vocab").Logger()
	store, err := vocab.Load(cfg.VocabDir, vocabLog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load vocabulary")
	}

	// Watcher flags the in-memory vocabulary as stale when the files change.
	// Interface fields stay nil when watching is off so health reports not_watched.
	var watchSource api.WatcherSource
	var watchStats metrics.WatchStats
	if cfg.WatchVocab {
		watcher := vocab.NewWatcher(cfg.VocabDir, log)
		if err := watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("vocabulary watcher disabled")
		} else {
			defer watcher.Stop()
			watchSource = watcher
			watchStats = watcher
		}
	}

	// Translation pipeline
	translateLog := log.With().Str("component", "translate").Logger()
	resolver, err := translate.NewResolver(store, cfg.ResolveCacheSize, translateLog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create resolver")
	}
	translator := translate.NewTranslator(resolver)
	quizzer := translate.NewQuizzer(store, nil)

	// Streaming hub
	hub := stream.NewHub(translator, stream.Options{
		WriteTimeout:   cfg.WSWriteTimeout,
		PongTimeout:    cfg.WSPongTimeout,
		SendBuffer:     cfg.WSSendBuffer,
		ReadLimit:      cfg.WSReadLimit,
		AllowedOrigins: cfg.CORSOrigins,
	}, log)

	// Scrape-time gauges over live state
	prometheus.MustRegister(metrics.NewCollector(store, resolver, watchStats))

	// HTTP Server
	httpLog := log.With().Str("component", "http").Logger()
	srv := api.NewServer(cfg, api.Deps{
		Vocab:      store,
		Watcher:    watchSource,
		Translator: translator,
		Quizzer:    quizzer,
		Resolver:   resolver,
		Stream:     hub,
		Sessions:   hub,
		OpenAPI:    signbridge.OpenAPISpec,
	}, version, startTime, httpLog)

	// Start HTTP server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	// Graceful shutdown with 10s timeout. Websocket sessions are hijacked
	// connections, so the hub closes them before the HTTP server drains.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := hub.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("stream hub shutdown error")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("signbridge stopped")
}
