// Package migrations embeds the places schema for every supported store and
// applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed mysql/*.sql postgres/*.sql sqlite/*.sql
var files embed.FS

// goose keeps its dialect and base FS in package state.
var mu sync.Mutex

// Up applies pending migrations. dialect is one of postgres, mysql, sqlite.
func Up(db *sql.DB, dialect string) error {
	gooseDialect, dir, err := resolve(dialect)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migrations: up %s: %w", dialect, err)
	}
	v, err := goose.GetDBVersion(db)
	if err == nil {
		log.Info().Str("dialect", dialect).Int64("version", v).Msg("schema up to date")
	}
	return nil
}

func resolve(dialect string) (gooseDialect, dir string, err error) {
	switch dialect {
	case "postgres":
		return "postgres", "postgres", nil
	case "mysql":
		return "mysql", "mysql", nil
	case "sqlite":
		return "sqlite3", "sqlite", nil
	}
	return "", "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	log.Debug().Str("component", "goose").Msgf(format, v...)
}

// Fatalf is reported as an error; goose returns the failure to Up as well.
func (gooseLogger) Fatalf(format string, v ...any) {
	log.Error().Str("component", "goose").Msgf(format, v...)
}
