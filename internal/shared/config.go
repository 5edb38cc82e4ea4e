package shared

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"bena_places/internal/domain"
)

// Run modes of cmd/enricher.
const (
	ModeIngest   = "ingest"
	ModeSanitize = "sanitize"
	ModeBackfill = "backfill"
	ModeServe    = "serve"
)

type Config struct {
	AppEnv   string
	LogLevel string

	StoreDriver string `validate:"oneof=postgres mysql sqlite"`
	DatabaseURL string `validate:"required_if=StoreDriver postgres"`
	MySQLDSN    string `validate:"required_if=StoreDriver mysql"`
	SQLitePath  string `validate:"required_if=StoreDriver sqlite"`

	MapsBaseURL   string
	MapsKey       string
	MapsRPS       int `validate:"gte=1"`
	WikiBaseURL   string
	WikiUserAgent string
	WikiRPS       int `validate:"gte=1"`

	RedisAddr string
	RedisDB   int
	RedisPass string

	HTTPAddr        string
	MetricsAddr     string
	Workers         int `validate:"gte=1,lte=64"`
	CacheTTL        time.Duration
	TagDenylistFile string
}

// Load reads an optional .env file, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be parsed")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		StoreDriver:     strings.ToLower(env("STORE_DRIVER", "postgres")),
		DatabaseURL:     env("DATABASE_URL", ""),
		MySQLDSN:        env("MYSQL_DSN", ""),
		SQLitePath:      env("SQLITE_PATH", ""),
		MapsBaseURL:     env("MAPS_BASE_URL", ""),
		MapsKey:         env("MAPS_API_KEY", ""),
		MapsRPS:         atoi("MAPS_RPS", 5),
		WikiBaseURL:     env("WIKI_BASE_URL", ""),
		WikiUserAgent:   env("WIKI_USER_AGENT", ""),
		WikiRPS:         atoi("WIKI_RPS", 5),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		Workers:         atoi("ENRICH_WORKERS", 1),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		TagDenylistFile: env("TAG_DENYLIST_FILE", ""),
	}
}

var validate = validator.New()

// Validate checks that everything the given mode needs is present.
// Errors wrap domain.ErrConfig.
func (c Config) Validate(mode string) error {
	switch mode {
	case ModeIngest, ModeSanitize, ModeBackfill, ModeServe:
	default:
		return fmt.Errorf("%w: unknown mode %q", domain.ErrConfig, mode)
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
			}
			return fmt.Errorf("%w: invalid %s", domain.ErrConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}
	if (mode == ModeIngest || mode == ModeBackfill) && c.MapsKey == "" {
		return fmt.Errorf("%w: MAPS_API_KEY is required in %s mode", domain.ErrConfig, mode)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
