// Package dataset reads the historical innings table and loads it in the
// background for an analysis session.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pable/cricanalyze/internal/model"
)

// RowError is a problem with one line of the input table.
type RowError struct {
	Line    int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ParseTable reads a header-keyed CSV table. Header names are trimmed and
// lower-cased. Blank lines are skipped. Lines whose field count differs from
// the header are reported as row errors and left out; the caller decides
// whether that is fatal. A malformed stream (e.g. a bare quote) is returned
// as err.
func ParseTable(r io.Reader) (*model.Dataset, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return &model.Dataset{}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	ds := &model.Dataset{Header: header}
	var rowErrs []RowError
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, rowErrs, fmt.Errorf("line %d: %w", pe.Line, pe.Err)
			}
			return nil, rowErrs, err
		}
		line, _ := cr.FieldPos(0)
		if blank(fields) {
			continue
		}
		if len(fields) != len(header) {
			msg := "too few fields"
			if len(fields) > len(header) {
				msg = "too many fields"
			}
			rowErrs = append(rowErrs, RowError{
				Line:    line,
				Message: fmt.Sprintf("%s: expected %d, got %d", msg, len(header), len(fields)),
			})
			continue
		}
		rec := make(model.Record, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			rec[h] = strings.TrimSpace(fields[i])
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, rowErrs, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
