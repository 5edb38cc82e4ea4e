package app_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"bena_places/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu      sync.Mutex
	rows    []domain.Place
	updates map[string]domain.PlacePatch
	failOn  map[string]bool // names whose insert fails
	failAll bool            // FetchAll fails
}

func (f *fakeRepo) Insert(ctx context.Context, p domain.Place) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[p.Name] {
		return "", errors.New("store unavailable")
	}
	p.ID = fmt.Sprintf("id-%d", len(f.rows)+1)
	f.rows = append(f.rows, p)
	return p.ID, nil
}

func (f *fakeRepo) UpdateFields(ctx context.Context, id string, patch domain.PlacePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			if f.failOn[f.rows[i].Name] {
				return errors.New("store unavailable")
			}
			f.rows[i] = patch.Apply(f.rows[i])
			if f.updates == nil {
				f.updates = map[string]domain.PlacePatch{}
			}
			f.updates[id] = patch
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRepo) FetchAll(ctx context.Context) ([]domain.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("select failed")
	}
	return append([]domain.Place(nil), f.rows...), nil
}

func (f *fakeRepo) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Place{}, domain.ErrNotFound
}

func (f *fakeRepo) SearchPlaces(ctx context.Context, q domain.PlacesQuery) ([]domain.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Place
	for _, p := range f.rows {
		if q.Q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Q)) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Place
	for _, p := range f.rows {
		if p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat && p.Longitude >= b.MinLng && p.Longitude <= b.MaxLng {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, p := range f.rows {
		counts[p.Category]++
	}
	var out []domain.CategoryCount
	for c, n := range counts {
		out = append(out, domain.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (f *fakeRepo) byName(name string) (domain.Place, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Place{}, false
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Place:
		*d = v.(domain.Place)
	case *[]domain.CategoryCount:
		*d = v.([]domain.CategoryCount)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeMaps struct {
	mu         sync.Mutex
	results    map[string]domain.SearchResponse
	searchErr  map[string]error
	detailsURL map[string]string
	calls      int
}

func (m *fakeMaps) TextSearch(ctx context.Context, query string) (domain.SearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.searchErr[query]; err != nil {
		return domain.SearchResponse{}, err
	}
	if r, ok := m.results[query]; ok {
		return r, nil
	}
	return domain.SearchResponse{Status: "ZERO_RESULTS"}, nil
}

func (m *fakeMaps) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.detailsURL[placeID]; ok {
		return domain.PlaceDetails{URL: u}, nil
	}
	return domain.PlaceDetails{}, errors.New("details: NOT_FOUND")
}

type fakeWiki struct {
	mu    sync.Mutex
	pages map[string]domain.Page
	errs  map[string]error
}

func (w *fakeWiki) Page(ctx context.Context, title string) (domain.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.errs[title]; err != nil {
		return domain.Page{}, err
	}
	if p, ok := w.pages[title]; ok {
		return p, nil
	}
	return domain.Page{Title: title}, nil
}

func karnakSearch() domain.SearchResponse {
	return domain.SearchResponse{Status: "OK", Results: []domain.SearchCandidate{{
		FormattedAddress: "Karnak, Luxor City, Luxor Governorate 1362501, Egypt",
		Lat:              25.7188346,
		Lng:              32.6572703,
		Types:            []string{"tourist_attraction", "point_of_interest"},
		PlaceID:          "ChIJ-karnak",
	}}}
}

func ptr[T any](v T) *T { return &v }
