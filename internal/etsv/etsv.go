// Package etsv reads and writes entry-TSV files: tab-separated tables
// whose first line is a "#:"-prefixed header of column titles. Columns
// are bound to entry keys by title, so readers and writers stay valid
// when a file gains columns or reorders them.
package etsv

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// headerMark opens the title line of an entry-TSV file.
const headerMark = "#:"

// Field binds an entry key to a column title.
type Field struct {
	// Key is the name the value is stored under in an entry
	Key string

	// Title is the column header in the file
	Title string
}

// Reader parses entry-TSV files into per-line entries.
type Reader struct {
	scanner *bufio.Scanner
	fields  []Field
	indices []int
	titles  []string
	line    int
}

// NewReader reads the header line of r and binds the fields to its
// columns. A nil fields slice binds every column under its own title.
func NewReader(r io.Reader, fields []Field) (*Reader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %v", err)
		}
		return nil, fmt.Errorf("failed to read header: empty input")
	}
	header := scanner.Text()
	if !strings.HasPrefix(header, headerMark) {
		return nil, fmt.Errorf("failed to read header: no %q prefix", headerMark)
	}
	titles := strings.Split(strings.TrimPrefix(header, headerMark), "\t")

	if fields == nil {
		for _, title := range titles {
			fields = append(fields, Field{Key: title, Title: title})
		}
	}

	indices := make([]int, len(fields))
	for i, field := range fields {
		indices[i] = -1
		for j, title := range titles {
			if title == field.Title {
				indices[i] = j
				break
			}
		}
		if indices[i] < 0 {
			return nil, fmt.Errorf("failed to bind column %s: no such title", field.Title)
		}
	}

	return &Reader{
		scanner: scanner,
		fields:  fields,
		indices: indices,
		titles:  titles,
		line:    1,
	}, nil
}

// Titles returns the column titles of the header line, in file order.
func (r *Reader) Titles() []string {
	return r.titles
}

// Read returns the next entry keyed by the bound fields. It returns
// io.EOF after the last line.
func (r *Reader) Read() (map[string]string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read line %d: %v", r.line+1, err)
		}
		return nil, io.EOF
	}
	r.line++

	values := strings.Split(r.scanner.Text(), "\t")
	entry := make(map[string]string, len(r.fields))
	for i, field := range r.fields {
		if r.indices[i] >= len(values) {
			return nil, fmt.Errorf("failed to read line %d: %d columns, want %d", r.line, len(values), len(r.titles))
		}
		entry[field.Key] = values[r.indices[i]]
	}

	return entry, nil
}

// Writer emits entry-TSV files with a fixed column layout.
type Writer struct {
	w      *bufio.Writer
	fields []Field
}

// NewWriter returns a Writer emitting one column per field. The header
// line is buffered immediately, data lines on each Write. Flush must be
// called after the last entry.
func NewWriter(w io.Writer, fields []Field) *Writer {
	titles := make([]string, len(fields))
	for i, field := range fields {
		titles[i] = field.Title
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s%s\n", headerMark, strings.Join(titles, "\t"))

	return &Writer{w: bw, fields: fields}
}

// Write emits one entry as a line, looking up each bound key. Missing
// keys become empty columns.
func (w *Writer) Write(entry map[string]string) error {
	values := make([]string, len(w.fields))
	for i, field := range w.fields {
		values[i] = entry[field.Key]
	}

	if _, err := fmt.Fprintln(w.w, strings.Join(values, "\t")); err != nil {
		return fmt.Errorf("failed to write entry: %v", err)
	}
	return nil
}

// Flush writes any buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
