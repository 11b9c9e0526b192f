package report

import (
	"context"
	"fmt"
	"time"

	"worldstats/domain/world"
	"worldstats/ports"

	"github.com/xuri/excelize/v2"
)

const (
	worldsSheet = "Worlds"
	runSheet    = "Run"
)

// ExcelWriter writes the ranked summaries to an xlsx workbook. Numeric columns are stored as
// numbers; a second sheet records the run parameters.
type ExcelWriter struct {
	path string
}

var _ ports.ReportWriter = (*ExcelWriter)(nil)

// NewExcelWriter creates an xlsx report writer
func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{path: path}
}

// Path returns the output file
func (w *ExcelWriter) Path() string {
	return w.path
}

// Write creates the workbook at Path
func (w *ExcelWriter) Write(ctx context.Context, summaries []world.Summary, meta ports.ReportMeta) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", worldsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(world.ReportHeaders))
	for i, h := range world.ReportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(worldsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range summaries {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := cells(s)
		if err := f.SetSheetRow(worldsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", s.WorldID, err)
		}
	}

	if err := writeRunSheet(f, meta); err != nil {
		return err
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// cells mirrors world.Summary.Row but keeps numbers numeric
func cells(s world.Summary) []interface{} {
	text := s.Row()
	return []interface{}{
		text[0],
		text[1],
		s.AverageOccupants,
		s.OccurrenceCount,
		s.MaxOccupants,
		s.MinOccupants,
		s.Heat,
		s.Popularity,
		s.EstimatedOrders,
		s.MaxMarketingSpend,
		text[10],
		text[11],
		text[12],
		text[13],
		text[14],
	}
}

func writeRunSheet(f *excelize.File, meta ports.ReportMeta) error {
	if _, err := f.NewSheet(runSheet); err != nil {
		return fmt.Errorf("failed to add run sheet: %w", err)
	}
	rows := [][]interface{}{
		{"run_id", meta.RunID},
		{"generated_at", meta.GeneratedAt.Format(time.RFC3339)},
		{"records_processed", meta.Records},
		{"records_skipped", meta.Skipped},
		{"unique_worlds", meta.Worlds},
		{"min_occurrences", meta.Policy.MinOccurrences},
		{"min_marketing_spend", meta.Policy.MinMarketingSpend},
		{"heat_popularity_factor", meta.Policy.HeatPopularityFactor},
		{"factor_mode", string(meta.Policy.FactorMode)},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(runSheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write run sheet: %w", err)
		}
	}
	return nil
}
