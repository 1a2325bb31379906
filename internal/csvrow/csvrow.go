// Package csvrow reads and writes the record list shared by booklist and
// bookmove.
//
// Writing uses its own quoting rule rather than encoding/csv's: a field is
// quoted when it contains a comma, a double quote or a single quote, and
// embedded double quotes are doubled. Any RFC 4180 reader parses the output.
package csvrow

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
)

// Escape quotes field when it contains a comma, a double quote or a single
// quote. Embedded double quotes are doubled.
func Escape(field string) string {
	if !strings.ContainsAny(field, `,"'`) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Format joins the escaped fields of one row with commas.
func Format(row []string) string {
	escaped := make([]string, len(row))
	for i, f := range row {
		escaped[i] = Escape(f)
	}
	return strings.Join(escaped, ",")
}

// Writer writes rows separated by '\n'.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer buffering into w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes one row.
func (w *Writer) Write(row []string) error {
	if _, err := w.w.WriteString(Format(row)); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// NewReader returns a csv.Reader configured for record lists: rows may have
// any width and stray quotes inside unquoted fields are tolerated. Blank
// lines are skipped by encoding/csv itself.
func NewReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// CodeAndName returns the two fields bookmove uses: the group code (first
// field) and the filename (last field). It works for both the short and the
// full row layout.
func CodeAndName(row []string) (code, filename string, ok bool) {
	if len(row) == 0 {
		return "", "", false
	}
	return row[0], row[len(row)-1], true
}
