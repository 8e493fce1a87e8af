package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"unicode/utf8"
)

// Writer streams records to a delimited report file. Every row is flushed
// as it is written, so an aborted run keeps everything before the failure.
type Writer struct {
	layout Layout
	file   *os.File
	csv    *csv.Writer
	rows   int
}

// Create opens path for writing and emits the header row. The delimiter is
// the first rune of delim, tab when empty.
func Create(path, delim string, layout Layout) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report %q: %w", path, err)
	}
	cw := csv.NewWriter(f)
	cw.Comma = delimiterRune(delim)
	w := &Writer{layout: layout, file: f, csv: cw}
	if err := w.writeRow(layout.Header()); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Write renders and appends one record.
func (w *Writer) Write(r *FileRecord) error {
	if err := w.writeRow(w.layout.Fields(r)); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of records written so far, header excluded.
func (w *Writer) Rows() int { return w.rows }

// Path returns the report location.
func (w *Writer) Path() string { return w.file.Name() }

// Close flushes and closes the report file.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func (w *Writer) writeRow(fields []string) error {
	if err := w.csv.Write(fields); err != nil {
		return fmt.Errorf("write report row: %w", err)
	}
	w.csv.Flush()
	return w.csv.Error()
}

func delimiterRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || r == 0 {
		return '\t'
	}
	return r
}
