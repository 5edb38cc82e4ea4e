package domain

import "context"

type PlaceRepository interface {
	// Write paths
	Insert(ctx context.Context, p Place) (string, error)
	UpdateFields(ctx context.Context, id string, patch PlacePatch) error

	// Read paths
	FetchAll(ctx context.Context) ([]Place, error)
	GetPlace(ctx context.Context, id string) (Place, error)
	SearchPlaces(ctx context.Context, q PlacesQuery) ([]Place, error)
	ListInBounds(ctx context.Context, b Bounds) ([]Place, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
}

// PlaceSearcher is the place-search collaborator.
type PlaceSearcher interface {
	TextSearch(ctx context.Context, query string) (SearchResponse, error)
	Details(ctx context.Context, placeID string) (PlaceDetails, error)
}

// Encyclopedia is the encyclopedia collaborator.
type Encyclopedia interface {
	Page(ctx context.Context, title string) (Page, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Collaborator payloads

const SearchStatusOK = "OK"

type SearchResponse struct {
	Status  string
	Results []SearchCandidate
}

type SearchCandidate struct {
	FormattedAddress string
	Lat, Lng         float64
	Types            []string
	PlaceID          string
}

type PlaceDetails struct {
	URL string
}

type Page struct {
	Exists     bool
	Title      string
	Summary    string
	Categories []string          // full titles, namespace prefix included
	LangLinks  map[string]string // language code -> localized title
}

// Read models & queries

type PlacesQuery struct {
	Q        string
	Category string
	Limit    int
}

type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type NearbyPlace struct {
	Place
	DistanceKm float64 `json:"distance_km"`
}
