package app

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"bena_places/internal/adapters/observability"
)

type Stage string

const (
	StageLookup   Stage = "lookup"
	StageValidate Stage = "validate"
	StagePersist  Stage = "persist"
)

// RowError is a per-row failure. It never aborts a run.
type RowError struct {
	Stage Stage
	Name  string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Stage, e.Name, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// RunSummary counts what one ingest, backfill or sanitize run did.
type RunSummary struct {
	RunID string
	Mode  string

	Read       int
	Duplicates int
	Processed  int

	GeoEnriched       int
	KnowledgeEnriched int

	LookupFailed  int
	Invalid       int
	PersistFailed int

	Inserted int
	Updated  int
	Skipped  int

	Started  time.Time
	Duration time.Duration
}

func newSummary(mode string) *RunSummary {
	return &RunSummary{RunID: ulid.Make().String(), Mode: mode, Started: time.Now()}
}

// Failed is the number of rows that hit a lookup, validation or persistence error.
func (s RunSummary) Failed() int { return s.LookupFailed + s.Invalid + s.PersistFailed }

func (s *RunSummary) add(outcome string) {
	switch outcome {
	case observability.RowGeoEnriched:
		s.GeoEnriched++
	case observability.RowKnowledgeEnriched:
		s.KnowledgeEnriched++
	case observability.RowLookupFailed:
		s.LookupFailed++
	case observability.RowInvalid:
		s.Invalid++
	case observability.RowPersistFailed:
		s.PersistFailed++
	case observability.RowInserted:
		s.Inserted++
	case observability.RowUpdated:
		s.Updated++
	case observability.RowSkipped:
		s.Skipped++
	}
	observability.ObserveRow(s.Mode, outcome)
}

// done stamps the duration and returns a copy.
func (s *RunSummary) done() RunSummary {
	s.finish()
	return *s
}

func (s *RunSummary) finish() {
	s.Duration = time.Since(s.Started)
	if s.Duplicates > 0 {
		observability.RowOutcomes.WithLabelValues(s.Mode, observability.RowDuplicate).Add(float64(s.Duplicates))
	}
}

// Log writes the summary as one structured line.
func (s RunSummary) Log() {
	ev := log.Info()
	if s.Failed() > 0 {
		ev = log.Warn()
	}
	ev.Str("run_id", s.RunID).
		Str("mode", s.Mode).
		Int("read", s.Read).
		Int("duplicates", s.Duplicates).
		Int("processed", s.Processed).
		Int("geo_enriched", s.GeoEnriched).
		Int("knowledge_enriched", s.KnowledgeEnriched).
		Int("lookup_failed", s.LookupFailed).
		Int("invalid", s.Invalid).
		Int("persist_failed", s.PersistFailed).
		Int("inserted", s.Inserted).
		Int("updated", s.Updated).
		Int("skipped", s.Skipped).
		Dur("duration", s.Duration).
		Msg("run summary")
}
