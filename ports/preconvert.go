package ports

import (
	"context"

	"tabulite/domain/record"
)

// PreConverter stages tabular or fallback textual content from a document
// that is not itself a spreadsheet (the PDF path) as spreadsheet-shaped
// sheets before conversion runs.
type PreConverter interface {
	// PreConvert extracts detected tables as individual sheets, or a single
	// fallback text sheet when no tables are found. A document with no
	// extractable content yields zero sheets and no error.
	PreConvert(ctx context.Context) ([]record.Sheet, error)
}
