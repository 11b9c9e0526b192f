package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"worldstats/domain/world"
	"worldstats/ports"
)

// CSVWriter writes the ranked summaries as a CSV file with world.ReportHeaders
type CSVWriter struct {
	path string
}

var _ ports.ReportWriter = (*CSVWriter)(nil)

// NewCSVWriter creates a CSV report writer
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the output file
func (w *CSVWriter) Path() string {
	return w.path
}

const reportFileMode os.FileMode = 0o644

// Write replaces the file at Path with the report. The file is written next to the target
// and renamed into place so readers never see a partial report.
func (w *CSVWriter) Write(ctx context.Context, summaries []world.Summary, _ ports.ReportMeta) error {
	tmp, err := os.CreateTemp(filepath.Dir(w.path), "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(world.ReportHeaders); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, s := range summaries {
		if err := ctx.Err(); err != nil {
			tmp.Close()
			return err
		}
		if err := cw.Write(s.Row()); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write CSV row for %s: %w", s.WorldID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	// CreateTemp opens 0600; the report is mailed and shared, so widen it before it lands
	if err := tmp.Chmod(reportFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set CSV file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	return os.Rename(tmp.Name(), w.path)
}
