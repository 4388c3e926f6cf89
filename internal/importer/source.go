package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source yields records until it returns io.EOF.
type Source interface {
	Next() (Record, error)
}

// CSVSource reads records from CSV with a header row.  Columns not named in
// the header are ignored; short rows leave the missing fields empty.
type CSVSource struct {
	r      *csv.Reader
	header []string
	closer io.Closer
}

// NewCSVSource reads the header row from r.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return &CSVSource{r: cr, header: header}, nil
}

// OpenCSV opens a CSV export from a local path or an http(s) URL.  Close
// the returned source when done.
func OpenCSV(ctx context.Context, location string) (*CSVSource, error) {
	var rc io.ReadCloser
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", location, resp.Status)
		}
		rc = resp.Body
	} else {
		f, err := os.Open(location)
		if err != nil {
			return nil, err
		}
		rc = f
	}

	src, err := NewCSVSource(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	src.closer = rc
	return src, nil
}

func (s *CSVSource) Next() (Record, error) {
	for {
		row, err := s.r.Read()
		if err != nil {
			return nil, err
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		rec := make(Record, len(s.header))
		for i, name := range s.header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		return rec, nil
	}
}

// Close releases the underlying file or response body.
func (s *CSVSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// SliceSource serves records from memory.
type SliceSource struct {
	records []Record
	pos     int
}

func NewSliceSource(records ...Record) *SliceSource {
	return &SliceSource{records: records}
}

func (s *SliceSource) Next() (Record, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

// isEOF reports the normal end of a source.
func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
