// Package postgres is the places gateway for the hosted Postgres table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bena_places/internal/domain"
)

type Repo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Insert appends a row; the id comes from the table default.
func (r *Repo) Insert(ctx context.Context, p domain.Place) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, insertPlaceSQL,
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
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert place %q: %w", p.Name, err)
	}
	return id, nil
}

func (r *Repo) UpdateFields(ctx context.Context, id string, patch domain.PlacePatch) error {
	cols, args := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	q := fmt.Sprintf("UPDATE places SET %s WHERE places_id = $%d", strings.Join(sets, ", "), len(cols)+1)
	tag, err := r.pool.Exec(ctx, q, append(args, id)...)
	if err != nil {
		return fmt.Errorf("update place %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) FetchAll(ctx context.Context) ([]domain.Place, error) {
	return r.query(ctx, fetchAllSQL)
}

func (r *Repo) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Place{}, domain.ErrNotFound
	}
	p, err := scanPlace(r.pool.QueryRow(ctx, getPlaceSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Place{}, domain.ErrNotFound
		}
		return domain.Place{}, err
	}
	return p, nil
}

func (r *Repo) SearchPlaces(ctx context.Context, q domain.PlacesQuery) ([]domain.Place, error) {
	return r.query(ctx, searchPlacesSQL, escapeLike(q.Q), q.Category, q.Limit)
}

func (r *Repo) ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Place, error) {
	return r.query(ctx, listInBoundsSQL, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng, domain.DefaultMapsID)
}

func (r *Repo) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	rows, err := r.pool.Query(ctx, categoryCountsSQL)
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
	rows, err := r.pool.Query(ctx, q, args...)
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

func scanPlace(row pgx.Row) (domain.Place, error) {
	var p domain.Place
	err := row.Scan(
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
