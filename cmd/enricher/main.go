package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"bena_places/internal/adapters/maps"
	"bena_places/internal/adapters/observability"
	redisad "bena_places/internal/adapters/redis"
	"bena_places/internal/adapters/wiki"
	"bena_places/internal/app"
	"bena_places/internal/domain"
	"bena_places/internal/shared"
	"bena_places/internal/source"
	"bena_places/internal/storage"
)

func main() {
	mode := flag.String("mode", shared.ModeIngest, "ingest | sanitize | backfill")
	input := flag.String("input", "landmarks.csv", "source CSV (ingest mode)")
	flag.Parse()

	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := checkMode(*mode); err != nil {
		log.Fatal().Err(err).Msg("invalid mode")
	}
	if err := cfg.Validate(*mode); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("mode", *mode).
		Str("store", cfg.StoreDriver).
		Int("workers", cfg.Workers).
		Int("schema_version", domain.SchemaVersion).
		Msg("enricher starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	st, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store unavailable")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, cache invalidation disabled")
			_ = rc.Close()
		} else {
			cache = rc
		}
	}

	sum, err := run(ctx, *mode, *input, cfg, st.Repo, cache)
	st.Close()
	if c, ok := cache.(*redisad.Cache); ok {
		_ = c.Close()
	}

	sum.Log()
	if err != nil {
		log.Error().Err(err).Msg("run aborted")
	}
	if err != nil || sum.Failed() > 0 {
		os.Exit(1)
	}
}

// checkMode rejects modes this binary does not run, serve included.
func checkMode(mode string) error {
	switch mode {
	case shared.ModeIngest, shared.ModeSanitize, shared.ModeBackfill:
		return nil
	}
	return fmt.Errorf("%w: enricher cannot run mode %q", domain.ErrConfig, mode)
}

func run(ctx context.Context, mode, input string, cfg shared.Config, repo domain.PlaceRepository, cache domain.Cache) (app.RunSummary, error) {
	if err := checkMode(mode); err != nil {
		return app.RunSummary{Mode: mode}, err
	}
	if mode == shared.ModeSanitize {
		extra, err := shared.LoadDenylist(cfg.TagDenylistFile)
		if err != nil {
			return app.RunSummary{Mode: mode}, err
		}
		return app.NewSanitizeService(repo, cache, app.NewTagSanitizer(extra...)).Run(ctx)
	}

	mc, err := maps.New(cfg.MapsBaseURL, cfg.MapsKey, cfg.MapsRPS)
	if err != nil {
		return app.RunSummary{Mode: mode}, err
	}
	geo := app.NewGeoEnricher(mc)
	kn := app.NewKnowledgeEnricher(wiki.New(cfg.WikiBaseURL, cfg.WikiUserAgent, cfg.WikiRPS))

	switch mode {
	case shared.ModeBackfill:
		return app.NewBackfillService(geo, kn, repo, cache).Run(ctx)
	case shared.ModeIngest:
		src, err := source.Open(input)
		if err != nil {
			return app.RunSummary{Mode: mode}, err
		}
		defer src.Close()
		log.Info().Str("input", input).Bool("by_landmark", src.ByLandmark()).Msg("source opened")

		return app.NewIngestionService(geo, kn, repo, cache, cfg.Workers).Run(ctx, src)
	}
	return app.RunSummary{Mode: mode}, fmt.Errorf("%w: unknown mode %q", domain.ErrConfig, mode)
}
