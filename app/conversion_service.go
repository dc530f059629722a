package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tabulite/domain/identifier"
	"tabulite/domain/record"
	"tabulite/internal/errors"
	"tabulite/internal/profiling"
	"tabulite/ports"
)

// ConversionService sequences sheet loading, identifier sanitization, and
// table materialization for one conversion request, and serves bounded
// previews of the result.
type ConversionService struct {
	store  ports.TableStore
	logger *zap.Logger
}

// NewConversionService creates a conversion service bound to one store.
func NewConversionService(store ports.TableStore, logger *zap.Logger) *ConversionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversionService{store: store, logger: logger}
}

// ConvertSource resolves the sheet selection against the source and converts
// the result. An empty selection converts every sheet.
func (s *ConversionService) ConvertSource(ctx context.Context, source ports.SheetSource, selected []string) (*record.ConversionReport, error) {
	sheets, err := source.LoadSheets(selected)
	if err != nil {
		return nil, err
	}
	return s.ConvertSheets(ctx, sheets)
}

// ConvertSheets materializes each sheet as one table, in source order. On a
// mid-run failure the report holds the sheets that succeeded before the
// failure point; tables already written stay in the store (no rollback).
func (s *ConversionService) ConvertSheets(ctx context.Context, sheets []record.Sheet) (*record.ConversionReport, error) {
	report := &record.ConversionReport{StorePath: s.store.Path()}
	taken := make(map[string]bool)

	for _, sheet := range sheets {
		rs := s.buildRecordSet(sheet)
		if len(rs.Columns) == 0 {
			s.logger.Warn("skipping sheet with no columns", zap.String("sheet", sheet.Name))
			continue
		}

		tableName := identifier.UniqueTableName(sheet.Name, taken)
		rows, err := s.store.Materialize(ctx, tableName, rs)
		if err != nil {
			return report, errors.Wrapf(err, "conversion failed at sheet %q", sheet.Name)
		}

		s.logger.Info("materialized sheet",
			zap.String("sheet", sheet.Name),
			zap.String("table", tableName),
			zap.Int("rows", rows))

		report.Results = append(report.Results, record.SheetResult{
			SheetName: sheet.Name,
			TableName: tableName,
			Rows:      rows,
			Columns:   rs.Columns,
			Summaries: profiling.Summarize(rs),
		})
	}
	return report, nil
}

// Preview reads back up to limit rows of a materialized table.
func (s *ConversionService) Preview(ctx context.Context, tableName string, limit int) (*record.RecordSet, error) {
	return s.store.Preview(ctx, tableName, limit)
}

// buildRecordSet sanitizes the sheet's column names and coerces its cells.
// When two distinct source columns sanitize to the same name, the later
// column's values overwrite the earlier one's (matching the upstream
// spreadsheet tooling this replaces); the collision is logged.
func (s *ConversionService) buildRecordSet(sheet record.Sheet) *record.RecordSet {
	columns := make([]string, 0, len(sheet.Header))
	names := make([]string, len(sheet.Header))
	seen := make(map[string]bool, len(sheet.Header))

	for i, raw := range sheet.Header {
		// Headers arrive raw from any adapter; trim here so collision
		// detection does not depend on the source having trimmed already.
		name := identifier.SanitizeColumn(strings.TrimSpace(raw))
		names[i] = name
		if seen[name] {
			s.logger.Warn("column name collision, later column wins",
				zap.String("sheet", sheet.Name),
				zap.String("column", name))
			continue
		}
		seen[name] = true
		columns = append(columns, name)
	}

	rs := &record.RecordSet{Columns: columns}
	for _, raw := range sheet.Rows {
		row := make(record.Row, len(columns))
		for j, cell := range raw {
			if j >= len(names) {
				// Cells beyond the header are dropped.
				break
			}
			row[names[j]] = record.Coerce(cell)
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs
}
