package app

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"bena_places/internal/domain"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
	maxNearbyRadiusKm  = 100
	earthRadiusKm      = 6371.0
)

type QueryService struct {
	repo     domain.PlaceRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.PlaceRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	key := placeKey(id)
	var p domain.Place
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &p); ok {
			return p, nil
		}
	}
	p, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return domain.Place{}, err
	}
	s.set(ctx, key, p)
	return p, nil
}

// SearchPlaces matches a case-insensitive name substring and/or an exact category.
func (s *QueryService) SearchPlaces(ctx context.Context, q domain.PlacesQuery) ([]domain.Place, error) {
	q.Q = strings.TrimSpace(q.Q)
	q.Category = strings.TrimSpace(q.Category)
	switch {
	case q.Limit <= 0:
		q.Limit = defaultSearchLimit
	case q.Limit > maxSearchLimit:
		q.Limit = maxSearchLimit
	}
	return s.repo.SearchPlaces(ctx, q)
}

// Categories returns place counts per category, largest first.
func (s *QueryService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	var out []domain.CategoryCount
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, categoriesKey, &out); ok {
			return out, nil
		}
	}
	out, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, categoriesKey, out)
	return out, nil
}

// Nearby returns geocoded places within radiusKm of place id, nearest first,
// excluding the place itself.
func (s *QueryService) Nearby(ctx context.Context, id string, radiusKm float64) ([]domain.NearbyPlace, error) {
	if radiusKm <= 0 {
		radiusKm = 1
	}
	radiusKm = math.Min(radiusKm, maxNearbyRadiusKm)

	origin, err := s.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	if needsGeo(origin) {
		return []domain.NearbyPlace{}, nil
	}

	candidates, err := s.repo.ListInBounds(ctx, BoundsAround(origin.Latitude, origin.Longitude, radiusKm))
	if err != nil {
		return nil, err
	}
	out := make([]domain.NearbyPlace, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == origin.ID {
			continue
		}
		d := HaversineKm(origin.Latitude, origin.Longitude, c.Latitude, c.Longitude)
		if d <= radiusKm {
			out = append(out, domain.NearbyPlace{Place: c, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

func (s *QueryService) set(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
}

// HaversineKm is the great-circle distance between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// BoundsAround is a lat/lng box containing every point within radiusKm.
func BoundsAround(lat, lng, radiusKm float64) domain.Bounds {
	dLat := radiusKm / earthRadiusKm * 180 / math.Pi
	cosLat := math.Cos(lat * math.Pi / 180)
	dLng := 180.0
	if cosLat > 1e-6 {
		dLng = math.Min(180, dLat/cosLat)
	}
	return domain.Bounds{
		MinLat: math.Max(-90, lat-dLat), MaxLat: math.Min(90, lat+dLat),
		MinLng: math.Max(-180, lng-dLng), MaxLng: math.Min(180, lng+dLng),
	}
}
