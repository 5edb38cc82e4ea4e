package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"bena_places/internal/domain"
)

var placeValidator = validator.New()

// Merge builds the canonical record from a source row and both lookups.
func Merge(row domain.InputRow, geo domain.GeoResult, kn domain.KnowledgeResult) domain.Place {
	return domain.Place{
		Name:         row.Name,
		Image:        row.ImageURL,
		Address:      orDefault(geo.Address, domain.DefaultAddress),
		Latitude:     geo.Latitude,
		Longitude:    geo.Longitude,
		Category:     orDefault(geo.Category, domain.DefaultCategory),
		ExternalLink: orDefault(geo.ExternalLink, domain.DefaultExternalLink),
		City:         orDefault(geo.City, domain.DefaultCity),
		MapsID:       orDefault(geo.MapsID, domain.DefaultMapsID),
		Description:  orDefault(kn.Description, domain.DefaultDescription),
		ArabicName:   orDefault(kn.ArabicName, domain.DefaultArabicName),
		Tags:         orDefault(kn.Tags, domain.DefaultTags),
		Location:     domain.DefaultLocation,
		Rating:       0.0,
	}
}

// ValidatePlace rejects records that must not reach the store.
func ValidatePlace(p domain.Place) error {
	if err := placeValidator.Struct(p); err != nil {
		return fmt.Errorf("invalid place %q: %w", p.Name, err)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
