// Package dataset loads numeric datasets from inline JSON documents or CSV
// files. Raw payload strings are tried as JSON first and fall back to being
// treated as a CSV path, matching the task payload contract.
package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/ports"
)

type Loader struct {
	rootDir string
	http    *http.Client
}

type Option func(*Loader)

// WithRootDir resolves relative CSV paths against the given directory
// (normally the workspace root).
func WithRootDir(dir string) Option {
	return func(l *Loader) { l.rootDir = dir }
}

// WithHTTPClient overrides the client used for URL sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.http = c
		}
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		http: newHTTPClient(DefaultHTTPConfig()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.DatasetLoader = (*Loader)(nil)

func (l *Loader) Load(src domain.DatasetSource) (domain.Dataset, error) {
	switch {
	case len(src.Inline) > 0:
		return fromColumns(src.Inline)

	case src.Raw != "":
		if ds, err := parseJSON([]byte(src.Raw)); err == nil {
			return ds, nil
		}
		if isURL(src.Raw) {
			return l.fetch(src.Raw)
		}
		// Not JSON: treat the payload as a CSV path.
		path := l.resolve(src.Raw)
		if _, err := os.Stat(path); err != nil {
			return domain.Dataset{}, &domain.OpError{
				Op:   "dataset.load",
				Kind: domain.KindInvalidData,
				Path: path,
				Err:  fmt.Errorf("invalid data path or data format"),
			}
		}
		return l.loadCSV(path)

	case src.File != "":
		if isURL(src.File) {
			return l.fetch(src.File)
		}
		return l.loadCSV(l.resolve(src.File))

	default:
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.load",
			Kind: domain.KindInvalidData,
			Err:  fmt.Errorf("no data provided for analysis"),
		}
	}
}

func (l *Loader) resolve(path string) string {
	if l.rootDir == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.rootDir, path)
}

// parseJSON accepts a column-oriented object ({"x":[1,2]}) or a list of
// records ([{"x":1},{"x":2}]).
func parseJSON(b []byte) (domain.Dataset, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return domain.Dataset{}, err
	}

	switch v := doc.(type) {
	case map[string]any:
		return fromColumnDoc(v)
	case []any:
		return fromRecords(v)
	default:
		return domain.Dataset{}, fmt.Errorf("dataset JSON must be an object of columns or a list of records")
	}
}

func fromColumns(cols map[string][]float64) (domain.Dataset, error) {
	ds := domain.Dataset{Columns: map[string][]float64{}}
	for name := range cols {
		ds.Names = append(ds.Names, name)
	}
	sort.Strings(ds.Names)

	n := -1
	for _, name := range ds.Names {
		col := cols[name]
		if n >= 0 && len(col) != n {
			return domain.Dataset{}, &domain.OpError{
				Op:   "dataset.load",
				Kind: domain.KindInvalidData,
				Err:  fmt.Errorf("column %q has %d values, expected %d", name, len(col), n),
			}
		}
		n = len(col)
		ds.Columns[name] = append([]float64(nil), col...)
	}

	if n <= 0 {
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.load",
			Kind: domain.KindInvalidData,
			Err:  fmt.Errorf("dataset has no rows"),
		}
	}
	return ds, nil
}

func fromColumnDoc(doc map[string]any) (domain.Dataset, error) {
	cols := map[string][]float64{}
	for name, raw := range doc {
		arr, ok := raw.([]any)
		if !ok {
			return domain.Dataset{}, fmt.Errorf("column %q is not an array", name)
		}
		col := make([]float64, 0, len(arr))
		for i, cell := range arr {
			num, ok := cell.(float64)
			if !ok {
				return domain.Dataset{}, fmt.Errorf("column %q row %d is not numeric", name, i)
			}
			col = append(col, num)
		}
		cols[name] = col
	}
	return fromColumns(cols)
}

func fromRecords(records []any) (domain.Dataset, error) {
	if len(records) == 0 {
		return domain.Dataset{}, fmt.Errorf("dataset has no records")
	}

	first, ok := records[0].(map[string]any)
	if !ok {
		return domain.Dataset{}, fmt.Errorf("record 0 is not an object")
	}

	cols := map[string][]float64{}
	for name := range first {
		cols[name] = make([]float64, 0, len(records))
	}

	for i, raw := range records {
		rec, ok := raw.(map[string]any)
		if !ok {
			return domain.Dataset{}, fmt.Errorf("record %d is not an object", i)
		}
		for name := range cols {
			cell, ok := rec[name]
			if !ok {
				return domain.Dataset{}, fmt.Errorf("record %d is missing column %q", i, name)
			}
			num, ok := cell.(float64)
			if !ok {
				return domain.Dataset{}, fmt.Errorf("record %d column %q is not numeric", i, name)
			}
			cols[name] = append(cols[name], num)
		}
	}
	return fromColumns(cols)
}

func (l *Loader) loadCSV(path string) (domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return parseCSV(raw, path)
}

func parseCSV(raw []byte, path string) (domain.Dataset, error) {
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.load",
			Kind: domain.KindInvalidData,
			Path: path,
			Err:  err,
		}
	}
	if len(rows) < 2 {
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.load",
			Kind: domain.KindInvalidData,
			Path: path,
			Err:  fmt.Errorf("CSV needs a header row and at least one data row"),
		}
	}

	header := rows[0]
	ds := domain.Dataset{
		Names:   append([]string(nil), header...),
		Columns: map[string][]float64{},
	}
	for _, name := range header {
		ds.Columns[name] = make([]float64, 0, len(rows)-1)
	}

	for i, row := range rows[1:] {
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return domain.Dataset{}, &domain.OpError{
					Op:   "dataset.load",
					Kind: domain.KindInvalidData,
					Path: path,
					Err:  fmt.Errorf("row %d column %q: %q is not numeric", i+1, header[j], cell),
				}
			}
			ds.Columns[header[j]] = append(ds.Columns[header[j]], v)
		}
	}

	return ds, nil
}
