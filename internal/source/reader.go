// Package source reads the landmark dataset: a CSV with a header row holding at
// least name and url, and optionally landmark_id.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"bena_places/internal/domain"
)

const (
	colLandmarkID = "landmark_id"
	colName       = "name"
	colURL        = "url"
)

// Reader yields unique rows once, in file order. The first occurrence of a
// dedup key wins; later duplicates are dropped and counted.
type Reader struct {
	closer io.Closer
	r      *csv.Reader

	landmarkCol int // -1 when the file has no landmark_id column
	nameCol     int
	urlCol      int

	seen map[string]struct{}
	dups int
	done bool
}

// Open opens path and reads its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	rd, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rd.closer = f
	return rd, nil
}

// NewReader reads the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	rd := &Reader{r: cr, landmarkCol: -1, nameCol: -1, urlCol: -1, seen: map[string]struct{}{}}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch h {
		case colLandmarkID:
			rd.landmarkCol = i
		case colName:
			rd.nameCol = i
		case colURL:
			rd.urlCol = i
		}
	}
	if rd.nameCol < 0 || rd.urlCol < 0 {
		return nil, fmt.Errorf("read header: columns %q and %q are required, got %v", colName, colURL, header)
	}
	return rd, nil
}

// ByLandmark reports whether rows are deduplicated by landmark_id rather than name.
func (r *Reader) ByLandmark() bool { return r.landmarkCol >= 0 }

// Duplicates returns how many rows were dropped so far.
func (r *Reader) Duplicates() int { return r.dups }

// Next returns the next unique row. ok is false at end of input.
// Any read error is terminal.
func (r *Reader) Next() (row domain.InputRow, ok bool, err error) {
	for !r.done {
		rec, err := r.r.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			return domain.InputRow{}, false, nil
		}
		if err != nil {
			r.done = true
			return domain.InputRow{}, false, fmt.Errorf("read row: %w", err)
		}
		line, _ := r.r.FieldPos(0)

		row := domain.InputRow{
			Name:     NormalizeName(rec[r.nameCol]),
			ImageURL: strings.TrimSpace(rec[r.urlCol]),
			Line:     line,
		}
		key := row.Name
		if r.landmarkCol >= 0 {
			row.LandmarkID = strings.TrimSpace(rec[r.landmarkCol])
			if row.LandmarkID != "" {
				key = "id:" + row.LandmarkID
			}
		}
		if _, dup := r.seen[key]; dup {
			r.dups++
			continue
		}
		r.seen[key] = struct{}{}
		return row, true, nil
	}
	return domain.InputRow{}, false, nil
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// NormalizeName turns dataset names such as "Karnak_Temple" into "Karnak Temple".
func NormalizeName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.TrimSpace(norm.NFC.String(s))
}
