package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bena_places/internal/app"
	"bena_places/internal/domain"
	"bena_places/internal/source"
)

func newIngest(m *fakeMaps, w *fakeWiki, r *fakeRepo, c *fakeCache, workers int) *app.IngestionService {
	var cache domain.Cache
	if c != nil {
		cache = c
	}
	return app.NewIngestionService(app.NewGeoEnricher(m), app.NewKnowledgeEnricher(w), r, cache, workers)
}

func TestRun_EndToEnd_GeoMissKnowledgeHit(t *testing.T) {
	src, err := source.NewReader(strings.NewReader("landmark_id,name,url\n1,Karnak_Temple,img.jpg\n"))
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	w := &fakeWiki{pages: map[string]domain.Page{"Karnak Temple": {Exists: true, Summary: strings.Repeat("a", 800)}}}
	repo := &fakeRepo{}

	sum, err := newIngest(&fakeMaps{}, w, repo, nil, 1).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	p, ok := repo.byName("Karnak Temple")
	if !ok {
		t.Fatalf("place not persisted: %+v", repo.rows)
	}
	if p.Address != domain.DefaultAddress || len(p.Description) != 500 || p.Image != "img.jpg" {
		t.Fatalf("unexpected record: %+v", p)
	}
	if sum.Inserted != 1 || sum.GeoEnriched != 0 || sum.KnowledgeEnriched != 1 || sum.Failed() != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.RunID == "" || sum.Mode != "ingest" {
		t.Fatalf("summary identity: %+v", sum)
	}
}

func TestRun_DuplicatesAreDroppedBeforeLookup(t *testing.T) {
	in := "landmark_id,name,url\n1,Karnak_Temple,a.jpg\n1,Karnak_Temple,b.jpg\n2,Luxor_Temple,c.jpg\n"
	src, _ := source.NewReader(strings.NewReader(in))
	m := &fakeMaps{}
	repo := &fakeRepo{}

	sum, err := newIngest(m, &fakeWiki{}, repo, nil, 1).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(repo.rows) != 2 || sum.Duplicates != 1 || sum.Read != 2 {
		t.Fatalf("rows=%d summary=%+v", len(repo.rows), sum)
	}
	if m.calls != 2 {
		t.Fatalf("expected one search per unique row, got %d", m.calls)
	}
	if repo.rows[0].Image != "a.jpg" {
		t.Fatalf("first occurrence must win: %+v", repo.rows[0])
	}
}

func TestRun_PerRowIsolation(t *testing.T) {
	in := "name,url\nA,a.jpg\nB,b.jpg\nC,c.jpg\nD,d.jpg\n"
	src, _ := source.NewReader(strings.NewReader(in))
	m := &fakeMaps{searchErr: map[string]error{"B": errors.New("timeout")}}
	w := &fakeWiki{errs: map[string]error{"B": errors.New("timeout")}}
	repo := &fakeRepo{failOn: map[string]bool{"C": true}}

	sum, err := newIngest(m, w, repo, nil, 1).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("row failures must not fail the run: %v", err)
	}
	// B is stored with defaults, C fails to persist, A and D are unaffected
	if _, ok := repo.byName("D"); !ok {
		t.Fatalf("rows after a failure must still be processed")
	}
	b, ok := repo.byName("B")
	if !ok || b.Address != domain.DefaultAddress || b.Description != domain.DefaultDescription {
		t.Fatalf("B should be stored with defaults: %+v", b)
	}
	if sum.Processed != 4 || sum.Inserted != 3 || sum.LookupFailed != 1 || sum.PersistFailed != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRun_UnsavedRowsAreNotCountedAsEnriched(t *testing.T) {
	src, _ := source.NewReader(strings.NewReader("name,url\nKarnak Temple,k.jpg\n"))
	m := &fakeMaps{results: map[string]domain.SearchResponse{"Karnak Temple": karnakSearch()}}
	w := &fakeWiki{pages: map[string]domain.Page{"Karnak Temple": {Exists: true, Summary: "s"}}}
	repo := &fakeRepo{failOn: map[string]bool{"Karnak Temple": true}}

	sum, err := newIngest(m, w, repo, nil, 1).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.PersistFailed != 1 || sum.GeoEnriched != 0 || sum.KnowledgeEnriched != 0 || sum.Inserted != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRun_SourceErrorAbortsRun(t *testing.T) {
	in := "name,url\nA,a.jpg\nB,b.jpg,oops\nC,c.jpg\n"
	src, _ := source.NewReader(strings.NewReader(in))
	repo := &fakeRepo{}

	sum, err := newIngest(&fakeMaps{}, &fakeWiki{}, repo, nil, 1).Run(context.Background(), src)
	if err == nil {
		t.Fatalf("expected source error")
	}
	if len(repo.rows) != 1 || sum.Inserted != 1 {
		t.Fatalf("rows read before the error are kept: rows=%d summary=%+v", len(repo.rows), sum)
	}
}

func TestRun_BoundedConcurrency(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,url\n")
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for _, n := range names {
		b.WriteString(n + "," + n + ".jpg\n")
	}
	src, _ := source.NewReader(strings.NewReader(b.String()))
	repo := &fakeRepo{}
	cache := &fakeCache{}

	sum, err := newIngest(&fakeMaps{}, &fakeWiki{}, repo, cache, 4).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Inserted != len(names) || len(repo.rows) != len(names) {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(cache.dels) != len(names) {
		t.Fatalf("expected categories cache invalidated per insert, got %v", cache.dels)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	src, _ := source.NewReader(strings.NewReader("name,url\nA,a.jpg\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newIngest(&fakeMaps{}, &fakeWiki{}, &fakeRepo{}, nil, 1).Run(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIngestRow_InvalidRecord(t *testing.T) {
	svc := newIngest(&fakeMaps{}, &fakeWiki{}, &fakeRepo{}, nil, 1)
	_, err := svc.IngestRow(context.Background(), domain.InputRow{Name: ""})
	var re *app.RowError
	if !errors.As(err, &re) || re.Stage != app.StageValidate {
		t.Fatalf("expected validate RowError, got %v", err)
	}
}
