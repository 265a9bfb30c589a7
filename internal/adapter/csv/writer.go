// Package csv writes accident records as comma-separated rows.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"io"

	"github.com/couchcryptid/police-blotter-etl/internal/domain"
)

// Writer streams accident records to w. The header row is written before
// the first record, or on Flush if there were none.
// It implements pipeline.Sink.
type Writer struct {
	w       *stdcsv.Writer
	started bool
}

// NewWriter creates a CSV sink writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: stdcsv.NewWriter(w)}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "csv" }

// Load writes one record row.
func (w *Writer) Load(_ context.Context, rec domain.AccidentRecord) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	if err := w.w.Write(rec.Row()); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

// Flush writes any buffered rows to the underlying writer.
func (w *Writer) Flush(_ context.Context) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (w *Writer) writeHeader() error {
	if w.started {
		return nil
	}
	w.started = true
	if err := w.w.Write(domain.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	return nil
}
