// Package maps is the place-search collaborator backed by the Google Places web service.
package maps

import (
	"context"
	"fmt"
	"net/url"

	"bena_places/internal/adapters/httpx"
	"bena_places/internal/domain"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

type Client struct {
	g   *httpx.Getter
	key string
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("maps API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{g: httpx.New("maps", base, "", rps), key: key}, nil
}

type textSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Types   []string `json:"types"`
		PlaceID string   `json:"place_id"`
	} `json:"results"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		URL string `json:"url"`
	} `json:"result"`
}

// TextSearch runs a free-text place search. A non-OK status is returned as-is, not as an error.
func (c *Client) TextSearch(ctx context.Context, query string) (domain.SearchResponse, error) {
	var raw textSearchResponse
	q := url.Values{"query": {query}, "key": {c.key}}
	if err := c.g.GetJSON(ctx, "/place/textsearch/json", q, &raw); err != nil {
		return domain.SearchResponse{}, err
	}

	out := domain.SearchResponse{Status: raw.Status}
	for _, r := range raw.Results {
		out.Results = append(out.Results, domain.SearchCandidate{
			FormattedAddress: r.FormattedAddress,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
			Types:            r.Types,
			PlaceID:          r.PlaceID,
		})
	}
	return out, nil
}

// Details fetches the canonical maps URL of a place.
func (c *Client) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	var raw detailsResponse
	q := url.Values{"place_id": {placeID}, "fields": {"url"}, "key": {c.key}}
	if err := c.g.GetJSON(ctx, "/place/details/json", q, &raw); err != nil {
		return domain.PlaceDetails{}, err
	}
	if raw.Status != domain.SearchStatusOK {
		return domain.PlaceDetails{}, fmt.Errorf("maps details %s: %s %s", placeID, raw.Status, raw.ErrorMessage)
	}
	return domain.PlaceDetails{URL: raw.Result.URL}, nil
}
