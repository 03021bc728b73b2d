// Package csvimport reads header-mapped CSV files for the bulk import
// services. The first row names the columns; rows are exposed by column
// name so importers do not depend on column order.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Reader iterates a CSV stream row by row after mapping the header.
type Reader struct {
	csv       *csv.Reader
	headers   map[string]int
	delimiter rune
	trimSpace bool
	line      int
}

// Option configures a Reader.
type Option func(*Reader)

// WithDelimiter sets the field delimiter. Defaults to comma.
func WithDelimiter(d rune) Option {
	return func(r *Reader) { r.delimiter = d }
}

// WithoutTrim disables trimming of surrounding whitespace on cell values.
func WithoutTrim() Option {
	return func(r *Reader) { r.trimSpace = false }
}

// NewReader wraps src and consumes its header row. Header names are
// lower-cased, so "Name" and "name" address the same column. A UTF-8
// BOM at the start of the stream is skipped.
func NewReader(src io.Reader, opts ...Option) (*Reader, error) {
	r := &Reader{delimiter: ',', trimSpace: true}
	for _, opt := range opts {
		opt(r)
	}

	buf := bufio.NewReader(src)
	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		buf.Discard(3)
	}

	r.csv = csv.NewReader(buf)
	r.csv.Comma = r.delimiter
	r.csv.FieldsPerRecord = -1

	header, err := r.csv.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv stream")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	r.headers = make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := r.headers[key]; dup {
			return nil, fmt.Errorf("duplicate csv column %q", key)
		}
		r.headers[key] = i
	}
	r.line = 1
	return r, nil
}

// Columns reports whether every named column is present in the header.
// Missing column names are returned for the error message.
func (r *Reader) Columns(names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := r.headers[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Next returns the next data row, or io.EOF when the stream ends.
// Malformed rows return a *RowError carrying the line number.
func (r *Reader) Next() (Row, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return Row{}, io.EOF
	}
	r.line++
	if err != nil {
		return Row{}, &RowError{Line: r.line, Message: err.Error()}
	}
	return Row{reader: r, record: record, Line: r.line}, nil
}

// Row is one data row addressed by column name.
type Row struct {
	reader *Reader
	record []string
	Line   int
}

// Get returns the value of the named column. Absent columns and cells
// beyond the row's length yield the empty string.
func (row Row) Get(column string) string {
	idx, ok := row.reader.headers[strings.ToLower(column)]
	if !ok || idx >= len(row.record) {
		return ""
	}
	v := row.record[idx]
	if row.reader.trimSpace {
		v = strings.TrimSpace(v)
	}
	return v
}

// RowError reports a problem on a single row without stopping the import.
type RowError struct {
	Line    int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
