package ports

import "tabulite/domain/record"

// SheetSource enumerates and loads sheets from a tabular source document.
type SheetSource interface {
	// ListSheets returns sheet names in the source's native order.
	ListSheets() ([]string, error)

	// LoadSheets loads the selected sheets as raw record data. An empty
	// selection loads every sheet. Order always follows the source's sheet
	// order, never the selection order.
	LoadSheets(selected []string) ([]record.Sheet, error)
}
