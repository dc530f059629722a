// Package excel reads and writes spreadsheet sources via excelize, plus CSV
// files as a single-sheet degenerate case.
package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"tabulite/domain/record"
	"tabulite/internal/errors"
)

// csvSheetName is the sheet label given to CSV sources, matching the default
// first sheet of a workbook.
const csvSheetName = "Sheet1"

// SheetReader handles reading Excel and CSV files as ordered sheets.
type SheetReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewSheetReader creates a reader that handles both Excel and CSV files.
func NewSheetReader(filePath string) *SheetReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &SheetReader{filePath: filePath, fileType: fileType}
}

// ListSheets returns sheet names in the workbook's native order. A CSV
// source reports a single sheet.
func (r *SheetReader) ListSheets() ([]string, error) {
	if r.fileType == "csv" {
		return []string{csvSheetName}, nil
	}

	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// LoadSheets loads the selected sheets with raw column names preserved. An
// empty selection loads every sheet. Order follows the workbook's sheet
// order regardless of selection order.
func (r *SheetReader) LoadSheets(selected []string) ([]record.Sheet, error) {
	if r.fileType == "csv" {
		return r.loadCSV(selected)
	}

	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wanted, err := resolveSelection(f.GetSheetList(), selected)
	if err != nil {
		return nil, err
	}

	sheets := make([]record.Sheet, 0, len(wanted))
	for _, name := range wanted {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.SourceUnreadable("failed to read sheet "+name, err)
		}
		sheets = append(sheets, buildSheet(name, rows))
	}
	return sheets, nil
}

func (r *SheetReader) open() (*excelize.File, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.SourceUnreadable("spreadsheet file not found: "+r.filePath, err)
	}
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.SourceUnreadable("failed to open spreadsheet", err)
	}
	return f, nil
}

func (r *SheetReader) loadCSV(selected []string) ([]record.Sheet, error) {
	wanted, err := resolveSelection([]string{csvSheetName}, selected)
	if err != nil {
		return nil, err
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.SourceUnreadable("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.SourceUnreadable("failed to read CSV file", err)
	}

	return []record.Sheet{buildSheet(csvSheetName, rows)}, nil
}

// resolveSelection filters available sheet names by the user's selection,
// keeping the source order. An unknown selected name is rejected rather than
// silently skipped.
func resolveSelection(available, selected []string) ([]string, error) {
	if len(selected) == 0 {
		return available, nil
	}

	known := make(map[string]bool, len(available))
	for _, name := range available {
		known[name] = true
	}
	for _, name := range selected {
		if !known[name] {
			return nil, errors.InvalidInput("selected sheet not present in source: " + name)
		}
	}

	requested := make(map[string]bool, len(selected))
	for _, name := range selected {
		requested[name] = true
	}

	var wanted []string
	for _, name := range available {
		if requested[name] {
			wanted = append(wanted, name)
		}
	}
	return wanted, nil
}

// buildSheet splits raw rows into a trimmed header row and data rows. An
// empty sheet yields an empty header and no rows.
func buildSheet(name string, rows [][]string) record.Sheet {
	sheet := record.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	sheet.Header = header

	for _, row := range rows[1:] {
		trimmed := make([]string, len(row))
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
		}
		sheet.Rows = append(sheet.Rows, trimmed)
	}
	return sheet
}
