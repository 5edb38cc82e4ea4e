package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bena_places/internal/adapters/observability"
	"bena_places/internal/domain"
	"bena_places/internal/shared"
)

// RowSource is a finite, non-restartable sequence of unique input rows.
type RowSource interface {
	Next() (domain.InputRow, bool, error)
	Duplicates() int
}

// RowResult describes what happened to one input row.
type RowResult struct {
	PlaceID        string
	GeoFound       bool
	KnowledgeFound bool
	GeoErr         error
	KnowledgeErr   error
}

func (r RowResult) LookupFailed() bool { return r.GeoErr != nil || r.KnowledgeErr != nil }

type IngestionService struct {
	geo       *GeoEnricher
	knowledge *KnowledgeEnricher
	repo      domain.PlaceRepository
	cache     domain.Cache
	workers   int
}

// NewIngestionService wires the pipeline. workers bounds how many rows are in
// flight; 1 keeps the run strictly sequential. cache may be nil.
func NewIngestionService(g *GeoEnricher, k *KnowledgeEnricher, r domain.PlaceRepository, cache domain.Cache, workers int) *IngestionService {
	if workers < 1 {
		workers = 1
	}
	return &IngestionService{geo: g, knowledge: k, repo: r, cache: cache, workers: workers}
}

// IngestRow enriches one row and inserts it. A failed lookup does not stop the
// row: the failed source contributes defaults and the failure is reported in
// the result. The returned error is a *RowError for validation or persistence.
func (s *IngestionService) IngestRow(ctx context.Context, row domain.InputRow) (RowResult, error) {
	var res RowResult
	lg := log.With().Str("name", row.Name).Str("landmark_id", row.LandmarkID).Logger()

	geo, err := s.geo.LookupPlace(ctx, row.Name)
	if err != nil {
		res.GeoErr = &RowError{Stage: StageLookup, Name: row.Name, Err: fmt.Errorf("place search: %w", err)}
		lg.Warn().Err(err).Msg("place search failed")
	}
	res.GeoFound = geo.Found

	kn, err := s.knowledge.LookupKnowledge(ctx, row.Name)
	if err != nil {
		res.KnowledgeErr = &RowError{Stage: StageLookup, Name: row.Name, Err: fmt.Errorf("encyclopedia: %w", err)}
		lg.Warn().Err(err).Msg("encyclopedia lookup failed")
	}
	res.KnowledgeFound = kn.Found

	place := Merge(row, geo, kn)
	if err := ValidatePlace(place); err != nil {
		lg.Error().Err(err).Msg("record rejected")
		return res, &RowError{Stage: StageValidate, Name: row.Name, Err: err}
	}

	id, err := s.repo.Insert(ctx, place)
	if err != nil {
		lg.Error().Err(err).Msg("insert failed")
		return res, &RowError{Stage: StagePersist, Name: row.Name, Err: err}
	}
	res.PlaceID = id
	invalidate(ctx, s.cache, categoriesKey)

	lg.Info().
		Str("places_id", id).
		Bool("geo", res.GeoFound).
		Bool("knowledge", res.KnowledgeFound).
		Msg("place stored")
	return res, nil
}

// Run drains src through the pipeline. Row failures are counted, not returned;
// the error is non-nil only when the source itself fails or ctx is done.
func (s *IngestionService) Run(ctx context.Context, src RowSource) (RunSummary, error) {
	sum := newSummary(shared.ModeIngest)
	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		runErr error
	)

	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		row, ok, err := src.Next()
		if err != nil {
			runErr = fmt.Errorf("source: %w", err)
			break
		}
		if !ok {
			break
		}
		mu.Lock()
		sum.Read++
		mu.Unlock()

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			runErr = err
			break
		}
		wg.Add(1)
		go func(row domain.InputRow) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := s.IngestRow(ctx, row)

			mu.Lock()
			defer mu.Unlock()
			sum.recordIngest(res, err)
		}(row)
	}

	wg.Wait()
	sum.Duplicates = src.Duplicates()
	return sum.done(), runErr
}

// recordIngest counts enrichment only for rows that were stored.
func (s *RunSummary) recordIngest(res RowResult, err error) {
	s.Processed++
	if res.LookupFailed() {
		s.add(observability.RowLookupFailed)
	}
	if err == nil {
		if res.GeoFound {
			s.add(observability.RowGeoEnriched)
		}
		if res.KnowledgeFound {
			s.add(observability.RowKnowledgeEnriched)
		}
		s.add(observability.RowInserted)
		return
	}
	var re *RowError
	if errors.As(err, &re) && re.Stage == StageValidate {
		s.add(observability.RowInvalid)
		return
	}
	s.add(observability.RowPersistFailed)
}
