package record

// Sheet is one named table-shaped unit read from a source document. Column
// names in Header are raw (unsanitized); Rows hold raw cell strings in
// source order.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Row maps a sanitized column name to a typed cell value. Columns absent
// from a row are treated as null when materialized.
type Row map[string]Value

// RecordSet is the in-memory table passed between loader, sanitizer, and
// materializer. Columns preserves source column order.
type RecordSet struct {
	Columns []string
	Rows    []Row
}

// ColumnSummary holds basic descriptive statistics for one numeric column.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// SheetResult reports the outcome of converting one sheet into one table.
type SheetResult struct {
	SheetName string          `json:"sheet_name"`
	TableName string          `json:"table_name"`
	Rows      int             `json:"rows"`
	Columns   []string        `json:"columns"`
	Summaries []ColumnSummary `json:"summaries,omitempty"`
}

// ConversionReport is the ordered, authoritative report for one conversion
// request. Results appear in source sheet order; on partial failure it holds
// the sheets that succeeded before the failure point.
type ConversionReport struct {
	StorePath string        `json:"store_path"`
	Results   []SheetResult `json:"results"`
}
