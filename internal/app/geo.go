package app

import (
	"context"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"bena_places/internal/domain"
)

// GeoEnricher resolves a place name to address, coordinates and category via
// the place-search collaborator.
type GeoEnricher struct {
	maps domain.PlaceSearcher
}

func NewGeoEnricher(m domain.PlaceSearcher) *GeoEnricher {
	return &GeoEnricher{maps: m}
}

// LookupPlace returns DefaultGeo for an empty or non-OK search; that is a miss, not an error.
// The error is non-nil only when the search call itself failed.
func (e *GeoEnricher) LookupPlace(ctx context.Context, name string) (domain.GeoResult, error) {
	res, err := e.maps.TextSearch(ctx, name)
	if err != nil {
		return domain.DefaultGeo(), err
	}
	if res.Status != domain.SearchStatusOK || len(res.Results) == 0 {
		ev := log.Debug()
		if res.Status != "ZERO_RESULTS" && res.Status != domain.SearchStatusOK {
			ev = log.Warn()
		}
		ev.Str("name", name).Str("status", res.Status).Msg("no place-search match")
		return domain.DefaultGeo(), nil
	}

	best := res.Results[0]
	out := domain.GeoResult{
		Found:        true,
		Address:      best.FormattedAddress,
		Latitude:     best.Lat,
		Longitude:    best.Lng,
		Category:     domain.DefaultCategory,
		City:         CityFromAddress(best.FormattedAddress),
		MapsID:       best.PlaceID,
		ExternalLink: domain.DefaultExternalLink,
	}
	if out.Address == "" {
		out.Address = domain.DefaultAddress
	}
	if len(best.Types) > 0 && best.Types[0] != "" {
		out.Category = best.Types[0]
	}
	if out.MapsID == "" {
		out.MapsID = domain.DefaultMapsID
		return out, nil
	}

	d, err := e.maps.Details(ctx, best.PlaceID)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("name", name).Str("maps_id", best.PlaceID).Msg("place details failed; keeping placeholder link")
	case d.URL != "":
		out.ExternalLink = d.URL
	}
	return out, nil
}

// CityFromAddress takes the second-to-last comma-separated segment of a
// formatted address with digits removed, e.g.
// "12 Tahrir St, Cairo 11511, Egypt" -> "Cairo".
func CityFromAddress(addr string) string {
	parts := strings.Split(addr, ",")
	if len(parts) < 2 {
		return domain.DefaultCity
	}
	city := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, parts[len(parts)-2]))
	if city == "" {
		return domain.DefaultCity
	}
	return city
}
