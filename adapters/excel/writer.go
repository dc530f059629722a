package excel

import (
	"github.com/xuri/excelize/v2"

	"tabulite/domain/record"
	"tabulite/internal/errors"
)

// WriteWorkbook stages sheets as an xlsx workbook at path. Used for the
// intermediate spreadsheet produced by PDF pre-conversion, which the shell
// offers as a secondary download.
func WriteWorkbook(path string, sheets []record.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// Reuse the default first sheet rather than leaving it empty.
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return errors.Wrapf(err, "failed to name sheet %s", sheet.Name)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return errors.Wrapf(err, "failed to add sheet %s", sheet.Name)
			}
		}

		if err := writeRow(f, sheet.Name, 1, sheet.Header); err != nil {
			return err
		}
		for r, row := range sheet.Rows {
			if err := writeRow(f, sheet.Name, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save staged workbook")
	}
	return nil
}

func writeRow(f *excelize.File, sheetName string, rowNum int, cells []string) error {
	if len(cells) == 0 {
		return nil
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.Wrap(err, "failed to compute cell coordinates")
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return errors.Wrapf(err, "failed to write row %d of sheet %s", rowNum, sheetName)
	}
	return nil
}
