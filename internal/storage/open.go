// Package storage opens the configured places store and brings its schema up to date.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"bena_places/internal/domain"
	"bena_places/internal/shared"
	"bena_places/internal/storage/migrations"
	"bena_places/internal/storage/postgres"
	"bena_places/internal/storage/sqldb"
)

// Store is an open places repository and its connection.
type Store struct {
	Repo   domain.PlaceRepository
	closer func()
}

func (s *Store) Close() {
	if s.closer != nil {
		s.closer()
	}
}

// Open connects to cfg.StoreDriver and applies migrations.
func Open(ctx context.Context, cfg shared.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		db := postgres.SQLDB(pool)
		if err := migrations.Up(db, "postgres"); err != nil {
			db.Close()
			pool.Close()
			return nil, err
		}
		log.Info().Str("driver", "postgres").Msg("database connection ok")
		return &Store{Repo: postgres.New(pool), closer: func() { db.Close(); pool.Close() }}, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		return openSQL(ctx, db, "mysql")

	case "sqlite":
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return openSQL(ctx, db, "sqlite")
	}
	return nil, fmt.Errorf("%w: unknown store driver %q", domain.ErrConfig, cfg.StoreDriver)
}

func openSQL(ctx context.Context, db *sql.DB, driver string) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", driver, err)
	}
	if err := migrations.Up(db, driver); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("driver", driver).Msg("database connection ok")
	return &Store{Repo: sqldb.New(db), closer: func() { _ = db.Close() }}, nil
}
