// Package dataset holds the in-memory patient table that every analysis reads
// from. A Dataset is immutable once constructed: it is safe to share between
// goroutines and to pass into any number of concurrent analyses.
package dataset

import (
	"strings"
)

// Dataset is an ordered collection of patient records with named string
// fields.
type Dataset struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// New builds a Dataset from a header and its rows. Both are copied. Rows
// shorter than the header are padded with empty values; longer rows are
// truncated.
func New(header []string, rows [][]string) *Dataset {
	ds := &Dataset{
		header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
		rows:   make([][]string, 0, len(rows)),
	}

	for i, name := range header {
		name = strings.TrimSpace(name)
		ds.header[i] = name

		// First occurrence wins for duplicated column names
		if _, exists := ds.index[name]; !exists {
			ds.index[name] = i
		}
	}

	for _, row := range rows {
		ds.rows = append(ds.rows, normalizeRow(row, len(header)))
	}

	return ds
}

func normalizeRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Len returns the number of records.
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.rows)
}

// Header returns a copy of the column names in file order.
func (ds *Dataset) Header() []string {
	out := make([]string, len(ds.header))
	copy(out, ds.header)
	return out
}

// HasColumn reports whether the named column exists.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[name]
	return ok
}

// ColumnIndex returns the position of the named column, or a FieldError.
func (ds *Dataset) ColumnIndex(name string) (int, error) {
	idx, ok := ds.index[name]
	if !ok {
		return 0, &FieldError{Column: name}
	}

	return idx, nil
}

// Column returns a copy of every value in the named column, in row order.
func (ds *Dataset) Column(name string) ([]string, error) {
	idx, err := ds.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(ds.rows))
	for i, row := range ds.rows {
		out[i] = row[idx]
	}

	return out, nil
}

// Row returns a copy of the i'th record.
func (ds *Dataset) Row(i int) []string {
	out := make([]string, len(ds.header))
	copy(out, ds.rows[i])
	return out
}

// Value returns the named field of the i'th record.
func (ds *Dataset) Value(i int, name string) (string, error) {
	idx, err := ds.ColumnIndex(name)
	if err != nil {
		return "", err
	}

	return ds.rows[i][idx], nil
}

// Rows returns a copy of all records.
func (ds *Dataset) Rows() [][]string {
	out := make([][]string, len(ds.rows))
	for i := range ds.rows {
		out[i] = ds.Row(i)
	}
	return out
}

// Filter returns the records in which any field contains query,
// case-insensitively. An empty query returns ds itself.
func (ds *Dataset) Filter(query string) *Dataset {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ds
	}

	out := &Dataset{
		header: ds.header,
		index:  ds.index,
		rows:   make([][]string, 0),
	}

	for _, row := range ds.rows {
		for _, field := range row {
			if strings.Contains(strings.ToLower(field), query) {
				out.rows = append(out.rows, row)
				break
			}
		}
	}

	return out
}

// Page returns the zero-based page'th slice of size records. Out of range
// pages are empty. The result shares storage with ds, which is fine because
// neither is ever mutated.
func (ds *Dataset) Page(page, size int) *Dataset {
	out := &Dataset{
		header: ds.header,
		index:  ds.index,
	}

	if size <= 0 || page < 0 || len(ds.rows) == 0 {
		return out
	}

	// Compare before multiplying so that huge page numbers cannot overflow
	if page > (len(ds.rows)-1)/size {
		return out
	}

	start := page * size

	end := start + size
	if end > len(ds.rows) {
		end = len(ds.rows)
	}
	out.rows = ds.rows[start:end]

	return out
}

// Pages returns the number of pages of the given size.
func (ds *Dataset) Pages(size int) int {
	if size <= 0 {
		return 0
	}

	return (len(ds.rows) + size - 1) / size
}
