// Package sqldb is the places gateway over database/sql. The same queries run
// on MySQL and SQLite; both use ? placeholders.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bena_places/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Insert always appends a row under a fresh id.
func (r *Repo) Insert(ctx context.Context, p domain.Place) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, insertPlaceSQL,
		id,
		p.Name,
		p.Image,
		p.Address,
		p.Latitude,
		p.Longitude,
		p.Category,
		p.ExternalLink,
		p.City,
		p.MapsID,
		p.Description,
		p.ArabicName,
		p.Tags,
		p.Location,
		p.Rating,
	)
	if err != nil {
		return "", fmt.Errorf("insert place %q: %w", p.Name, err)
	}
	return id, nil
}

// UpdateFields writes only the columns set in patch.
func (r *Repo) UpdateFields(ctx context.Context, id string, patch domain.PlacePatch) error {
	cols, args := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	q := "UPDATE places SET " + strings.Join(sets, ", ") + " WHERE places_id = ?"
	res, err := r.db.ExecContext(ctx, q, append(args, id)...)
	if err != nil {
		return fmt.Errorf("update place %s: %w", id, err)
	}
	// MySQL reports 0 affected rows when the values did not change
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, existsSQL, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
	}
	return nil
}

func (r *Repo) FetchAll(ctx context.Context) ([]domain.Place, error) {
	return r.query(ctx, fetchAllSQL)
}

func (r *Repo) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	p, err := scanPlace(r.db.QueryRowContext(ctx, getPlaceSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Place{}, domain.ErrNotFound
		}
		return domain.Place{}, err
	}
	return p, nil
}

func (r *Repo) SearchPlaces(ctx context.Context, q domain.PlacesQuery) ([]domain.Place, error) {
	var (
		where []string
		args  []any
	)
	if q.Q != "" {
		where = append(where, "LOWER(name) LIKE ? ESCAPE '!'")
		args = append(args, "%"+escapeLike(strings.ToLower(q.Q))+"%")
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	stmt := searchPlacesSQL
	if len(where) > 0 {
		stmt += "\nWHERE " + strings.Join(where, " AND ")
	}
	stmt += "\nORDER BY name, places_id\nLIMIT ?"
	args = append(args, q.Limit)
	return r.query(ctx, stmt, args...)
}

func (r *Repo) ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Place, error) {
	return r.query(ctx, listInBoundsSQL, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng, domain.DefaultMapsID)
}

func (r *Repo) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, categoryCountsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CategoryCount{}
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]domain.Place, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlace(s scanner) (domain.Place, error) {
	var p domain.Place
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Image,
		&p.Address,
		&p.Latitude,
		&p.Longitude,
		&p.Category,
		&p.ExternalLink,
		&p.City,
		&p.MapsID,
		&p.Description,
		&p.ArabicName,
		&p.Tags,
		&p.Location,
		&p.Rating,
	)
	return p, err
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
