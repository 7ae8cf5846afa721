// Package output provides gene table writers.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/inodb/genedb/internal/gene"
)

// DefaultPath is the table written when no output path is given.
const DefaultPath = "gene_database.csv"

// CSVWriter writes gene records as comma-separated values without an index column.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a new CSV table writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the header line.
func (cw *CSVWriter) WriteHeader() error {
	return cw.w.Write(gene.Columns)
}

// Write writes a single record.
func (cw *CSVWriter) Write(rec *gene.Record) error {
	return cw.w.Write(rec.Values())
}

// Flush flushes any buffered data to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

// WriteTable writes the header and all records, in order.
func WriteTable(w io.Writer, records []gene.Record) error {
	cw := NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		if err := cw.Write(&records[i]); err != nil {
			return fmt.Errorf("write record %s: %w", records[i].Symbol, err)
		}
	}
	return cw.Flush()
}

// WriteFile writes the table to path, replacing any existing file.
func WriteFile(path string, records []gene.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := WriteTable(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
