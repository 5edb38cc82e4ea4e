package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "bena_places/internal/adapters/http_server"
	"bena_places/internal/adapters/observability"
	redisad "bena_places/internal/adapters/redis"
	"bena_places/internal/app"
	"bena_places/internal/domain"
	"bena_places/internal/shared"
	"bena_places/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.Validate(shared.ModeServe); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	st, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store unavailable")
	}
	defer st.Close()

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	q := app.NewQueryService(st.Repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
