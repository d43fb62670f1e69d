// SPDX-License-Identifier: MIT

package panel

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeLayout is the layout used when Columns.TimeLayout is empty.
const DefaultTimeLayout = "2006-01-02"

// Frame is an in-memory table: a header row and string records.
type Frame struct {
	Header  []string
	Records [][]string
}

// Columns maps the panel roles onto Frame column names.
// Group is optional; an empty Group disables segmentation.
type Columns struct {
	ID         string
	Time       string
	Bucket     string
	Group      string
	TimeLayout string
}

// Grouped reports whether a group column was mapped.
func (c Columns) Grouped() bool { return c.Group != "" }

// ReadCSV reads a header row followed by records.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("panel.ReadCSV: %w", err)
	}
	if len(rows) == 0 {
		return &Frame{}, nil
	}

	return &Frame{Header: rows[0], Records: rows[1:]}, nil
}

// column returns the position of name in the header.
func (f *Frame) column(name string) (int, error) {
	i := slices.Index(f.Header, name)
	if i < 0 {
		return 0, fmt.Errorf("panel: column %q: %w", name, ErrMissingColumn)
	}

	return i, nil
}

// Observations projects the frame onto the mapped columns.
// Times are parsed with cols.TimeLayout (DefaultTimeLayout when empty) and
// normalized to UTC. Bucket cells accept integers or decimals; decimals are
// floored, which never changes the bucket since thresholds are integers.
//
// Errors:
//   - ErrMissingColumn for an unmapped or absent column.
//   - ErrBadValue (wrapped with the 1-based record number) for unparsable cells.
//   - ErrRaggedRecord when a record is narrower than the header.
func (f *Frame) Observations(cols Columns) ([]Observation, error) {
	idCol, err := f.column(cols.ID)
	if err != nil {
		return nil, err
	}
	timeCol, err := f.column(cols.Time)
	if err != nil {
		return nil, err
	}
	bucketCol, err := f.column(cols.Bucket)
	if err != nil {
		return nil, err
	}
	groupCol := -1
	if cols.Grouped() {
		if groupCol, err = f.column(cols.Group); err != nil {
			return nil, err
		}
	}
	layout := cols.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}

	out := make([]Observation, 0, len(f.Records))
	for n, rec := range f.Records {
		if len(rec) != len(f.Header) {
			return nil, fmt.Errorf("panel: record %d: %w", n+1, ErrRaggedRecord)
		}
		at, err := time.Parse(layout, strings.TrimSpace(rec[timeCol]))
		if err != nil {
			return nil, fmt.Errorf("panel: record %d: time %q: %w", n+1, rec[timeCol], ErrBadValue)
		}
		v, err := parseBucket(rec[bucketCol])
		if err != nil {
			return nil, fmt.Errorf("panel: record %d: bucket %q: %w", n+1, rec[bucketCol], err)
		}
		ob := Observation{Entity: rec[idCol], Period: at.UTC(), Value: v}
		if groupCol >= 0 {
			ob.Group = rec[groupCol]
		}
		out = append(out, ob)
	}

	return out, nil
}

func parseBucket(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrBadValue
	}

	return int(math.Floor(f)), nil
}
