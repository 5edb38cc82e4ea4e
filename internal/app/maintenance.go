package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"bena_places/internal/adapters/observability"
	"bena_places/internal/domain"
	"bena_places/internal/shared"
)

// SanitizeService rewrites persisted tag strings without housekeeping categories.
type SanitizeService struct {
	repo  domain.PlaceRepository
	cache domain.Cache
	tags  *TagSanitizer
}

func NewSanitizeService(r domain.PlaceRepository, cache domain.Cache, t *TagSanitizer) *SanitizeService {
	if t == nil {
		t = NewTagSanitizer()
	}
	return &SanitizeService{repo: r, cache: cache, tags: t}
}

// Run reads every place and writes back tags that changed. Only a failed
// full-table read is returned as an error.
func (s *SanitizeService) Run(ctx context.Context) (RunSummary, error) {
	sum := newSummary(shared.ModeSanitize)

	places, err := s.repo.FetchAll(ctx)
	if err != nil {
		return sum.done(), fmt.Errorf("fetch places: %w", err)
	}
	sum.Read = len(places)

	for _, p := range places {
		if err := ctx.Err(); err != nil {
			return sum.done(), err
		}
		sum.Processed++
		cleaned := s.tags.Clean(p.Tags)
		if cleaned == p.Tags {
			sum.add(observability.RowSkipped)
			continue
		}
		if err := s.repo.UpdateFields(ctx, p.ID, domain.PlacePatch{Tags: &cleaned}); err != nil {
			log.Error().Err(err).Str("places_id", p.ID).Msg("tag update failed")
			sum.add(observability.RowPersistFailed)
			continue
		}
		invalidate(ctx, s.cache, placeKey(p.ID))
		log.Debug().Str("places_id", p.ID).Str("tags", cleaned).Msg("tags cleaned")
		sum.add(observability.RowUpdated)
	}
	return sum.done(), nil
}

// BackfillService re-runs enrichment for rows still holding placeholders and
// patches only the fields it can improve.
type BackfillService struct {
	geo       *GeoEnricher
	knowledge *KnowledgeEnricher
	repo      domain.PlaceRepository
	cache     domain.Cache
}

func NewBackfillService(g *GeoEnricher, k *KnowledgeEnricher, r domain.PlaceRepository, cache domain.Cache) *BackfillService {
	return &BackfillService{geo: g, knowledge: k, repo: r, cache: cache}
}

func (s *BackfillService) Run(ctx context.Context) (RunSummary, error) {
	sum := newSummary(shared.ModeBackfill)

	places, err := s.repo.FetchAll(ctx)
	if err != nil {
		return sum.done(), fmt.Errorf("fetch places: %w", err)
	}
	sum.Read = len(places)

	for _, p := range places {
		if err := ctx.Err(); err != nil {
			return sum.done(), err
		}
		sum.Processed++
		lg := log.With().Str("places_id", p.ID).Str("name", p.Name).Logger()

		var patch domain.PlacePatch
		lookupFailed := false

		if needsGeo(p) {
			geo, err := s.geo.LookupPlace(ctx, p.Name)
			if err != nil {
				lg.Warn().Err(err).Msg("place search failed")
				lookupFailed = true
			} else if geo.Found && geo.MapsID != domain.DefaultMapsID {
				patch.Address = &geo.Address
				patch.Latitude = &geo.Latitude
				patch.Longitude = &geo.Longitude
				patch.Category = &geo.Category
				patch.City = &geo.City
				patch.MapsID = &geo.MapsID
				patch.ExternalLink = &geo.ExternalLink
				sum.add(observability.RowGeoEnriched)
			}
		}

		if needsKnowledge(p) {
			kn, err := s.knowledge.LookupKnowledge(ctx, p.Name)
			if err != nil {
				lg.Warn().Err(err).Msg("encyclopedia lookup failed")
				lookupFailed = true
			} else if kn.Found {
				improved := false
				if p.Description == domain.DefaultDescription && kn.Description != domain.DefaultDescription {
					patch.Description = &kn.Description
					improved = true
				}
				if p.Tags == domain.DefaultTags && kn.Tags != domain.DefaultTags {
					patch.Tags = &kn.Tags
					improved = true
				}
				if p.ArabicName == domain.DefaultArabicName && kn.ArabicName != domain.DefaultArabicName {
					patch.ArabicName = &kn.ArabicName
					improved = true
				}
				if improved {
					sum.add(observability.RowKnowledgeEnriched)
				}
			}
		}

		if lookupFailed {
			sum.add(observability.RowLookupFailed)
		}
		if patch.Empty() {
			sum.add(observability.RowSkipped)
			continue
		}
		if err := s.repo.UpdateFields(ctx, p.ID, patch); err != nil {
			lg.Error().Err(err).Msg("backfill update failed")
			sum.add(observability.RowPersistFailed)
			continue
		}
		invalidate(ctx, s.cache, placeKey(p.ID), categoriesKey)
		lg.Info().Msg("place backfilled")
		sum.add(observability.RowUpdated)
	}
	return sum.done(), nil
}

func needsGeo(p domain.Place) bool {
	return p.MapsID == "" || p.MapsID == domain.DefaultMapsID
}

func needsKnowledge(p domain.Place) bool {
	return p.Tags == domain.DefaultTags ||
		p.Description == domain.DefaultDescription ||
		p.ArabicName == domain.DefaultArabicName
}
