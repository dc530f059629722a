// Package pdf stages tabular or fallback textual content from PDF documents
// as spreadsheet-shaped sheets.
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"tabulite/domain/record"
	"tabulite/internal/errors"
)

// fallbackColumn is the single column used when no tables are detected and
// raw text lines are staged instead.
const fallbackColumn = "Content"

// minTableRows is the minimum number of multi-cell rows a page must carry
// before its content counts as a table.
const minTableRows = 2

// Extractor extracts tables, or failing that raw text lines, from a PDF.
type Extractor struct {
	filePath string
}

// NewExtractor creates an extractor for the PDF at filePath.
func NewExtractor(filePath string) *Extractor {
	return &Extractor{filePath: filePath}
}

// PreConvert runs table extraction across every page. Detected tables
// become sheets labeled Sheet1, Sheet2, ... in page order. When no table is
// found anywhere, all non-empty trimmed text lines are staged as one sheet
// with a single Content column, page order then line order. A blank PDF
// yields zero sheets.
func (e *Extractor) PreConvert(ctx context.Context) ([]record.Sheet, error) {
	f, reader, err := pdf.Open(e.filePath)
	if err != nil {
		return nil, errors.DocumentUnreadable("failed to open PDF document", err)
	}
	defer f.Close()

	var tables [][][]string
	var textLines []string

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := pageRows(page)
		if err != nil {
			// A single malformed page does not abort the document.
			continue
		}

		if table := detectTable(rows); table != nil {
			tables = append(tables, table)
		}
		textLines = append(textLines, rowLines(rows)...)
	}

	if len(tables) > 0 {
		sheets := make([]record.Sheet, 0, len(tables))
		for i, table := range tables {
			sheets = append(sheets, record.Sheet{
				Name:   fmt.Sprintf("Sheet%d", i+1),
				Header: table[0],
				Rows:   table[1:],
			})
		}
		return sheets, nil
	}

	if len(textLines) == 0 {
		return nil, nil
	}

	rows := make([][]string, len(textLines))
	for i, line := range textLines {
		rows[i] = []string{line}
	}
	return []record.Sheet{{
		Name:   "Sheet1",
		Header: []string{fallbackColumn},
		Rows:   rows,
	}}, nil
}

// textRow is one horizontal band of positioned text fragments.
type textRow struct {
	fragments []pdf.Text
}

// pageRows reads the page's text grouped into horizontal rows, top to
// bottom, fragments sorted left to right.
func pageRows(page pdf.Page) (rows []textRow, err error) {
	// The underlying content parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()

	pdfRows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}

	for _, pr := range pdfRows {
		fragments := make([]pdf.Text, len(pr.Content))
		copy(fragments, pr.Content)
		sort.Slice(fragments, func(i, j int) bool {
			return fragments[i].X < fragments[j].X
		})
		rows = append(rows, textRow{fragments: fragments})
	}
	return rows, nil
}

// cells clusters a row's fragments into cells, splitting where the
// horizontal gap between fragments exceeds a font-relative threshold.
func (r textRow) cells() []string {
	var cells []string
	var current strings.Builder
	var prevEnd float64

	for i, frag := range r.fragments {
		gap := frag.X - prevEnd
		if i > 0 && gap > cellGap(frag.FontSize) {
			cells = appendCell(cells, current.String())
			current.Reset()
		}
		current.WriteString(frag.S)
		prevEnd = frag.X + frag.W
	}
	return appendCell(cells, current.String())
}

func appendCell(cells []string, cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return cells
	}
	return append(cells, cell)
}

// cellGap is the minimum horizontal whitespace treated as a column break.
func cellGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 6
	}
	return fontSize * 1.5
}

// text joins a row's fragments into one display line.
func (r textRow) text() string {
	var b strings.Builder
	for i, frag := range r.fragments {
		if i > 0 && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(frag.S, " ") {
			b.WriteString(" ")
		}
		b.WriteString(frag.S)
	}
	return strings.TrimSpace(b.String())
}

// detectTable decides whether a page's rows form a table: at least
// minTableRows rows that split into two or more cells, with a consistent
// dominant column count. Returns header+data rows padded to that width, or
// nil when the page is not tabular.
func detectTable(rows []textRow) [][]string {
	var cellRows [][]string
	counts := make(map[int]int)
	for _, row := range rows {
		cells := row.cells()
		if len(cells) < 2 {
			continue
		}
		cellRows = append(cellRows, cells)
		counts[len(cells)]++
	}
	if len(cellRows) < minTableRows {
		return nil
	}

	// Dominant column count must cover most multi-cell rows, otherwise the
	// page is prose with incidental spacing.
	width, n := 0, 0
	for w, c := range counts {
		if c > n || (c == n && w > width) {
			width, n = w, c
		}
	}
	if n*2 < len(cellRows) {
		return nil
	}

	table := make([][]string, 0, len(cellRows))
	for _, cells := range cellRows {
		padded := make([]string, width)
		copy(padded, cells)
		if len(cells) > width {
			// Fold overflow into the last column.
			padded[width-1] = strings.Join(cells[width-1:], " ")
		}
		table = append(table, padded)
	}
	return table
}

// rowLines returns the page's non-empty trimmed text lines in order.
func rowLines(rows []textRow) []string {
	var lines []string
	for _, row := range rows {
		if line := row.text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
