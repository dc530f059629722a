package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabulite/internal/errors"
)

// frag builds a positioned text fragment for heuristics tests.
func frag(s string, x, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, W: w, FontSize: 10}
}

func TestRowCellsSplitOnWideGaps(t *testing.T) {
	row := textRow{fragments: []pdf.Text{
		frag("Item", 0, 20),
		frag("Name", 22, 24), // narrow gap, same cell
		frag("Price", 120, 26),
	}}

	assert.Equal(t, []string{"ItemName", "Price"}, row.cells())
}

func TestRowCellsSingleFragment(t *testing.T) {
	row := textRow{fragments: []pdf.Text{frag("just text", 0, 40)}}
	assert.Equal(t, []string{"just text"}, row.cells())
}

func TestRowCellsEmpty(t *testing.T) {
	assert.Empty(t, textRow{}.cells())
}

func TestRowText(t *testing.T) {
	row := textRow{fragments: []pdf.Text{
		frag("hello", 0, 25),
		frag("world", 120, 25),
	}}
	assert.Equal(t, "hello world", row.text())
}

func TestDetectTable(t *testing.T) {
	rows := []textRow{
		{fragments: []pdf.Text{frag("Item", 0, 20), frag("Price", 120, 26)}},
		{fragments: []pdf.Text{frag("widget", 0, 30), frag("9.99", 120, 20)}},
		{fragments: []pdf.Text{frag("gadget", 0, 30), frag("25", 120, 12)}},
	}

	table := detectTable(rows)
	require.NotNil(t, table)
	require.Len(t, table, 3)
	assert.Equal(t, []string{"Item", "Price"}, table[0])
	assert.Equal(t, []string{"widget", "9.99"}, table[1])
}

func TestDetectTableIgnoresProse(t *testing.T) {
	rows := []textRow{
		{fragments: []pdf.Text{frag("This is a paragraph of text.", 0, 140)}},
		{fragments: []pdf.Text{frag("Another line of prose.", 0, 120)}},
	}
	assert.Nil(t, detectTable(rows))
}

func TestDetectTableNeedsMultipleRows(t *testing.T) {
	rows := []textRow{
		{fragments: []pdf.Text{frag("lonely", 0, 30), frag("header", 120, 30)}},
	}
	assert.Nil(t, detectTable(rows))
}

func TestDetectTableFoldsOverflowIntoLastColumn(t *testing.T) {
	rows := []textRow{
		{fragments: []pdf.Text{frag("a", 0, 5), frag("b", 100, 5)}},
		{fragments: []pdf.Text{frag("1", 0, 5), frag("2", 100, 5), frag("extra", 200, 25)}},
		{fragments: []pdf.Text{frag("3", 0, 5), frag("4", 100, 5)}},
	}

	table := detectTable(rows)
	require.NotNil(t, table)
	assert.Equal(t, []string{"1", "2 extra"}, table[1])
}

func TestRowLinesSkipsBlankRows(t *testing.T) {
	rows := []textRow{
		{fragments: []pdf.Text{frag("first", 0, 20)}},
		{fragments: []pdf.Text{frag("   ", 0, 5)}},
		{fragments: []pdf.Text{frag("second", 0, 25)}},
	}
	assert.Equal(t, []string{"first", "second"}, rowLines(rows))
}

func TestPreConvertUnreadableDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-not really"), 0o644))

	_, err := NewExtractor(path).PreConvert(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDocumentUnreadable, errors.GetCode(err))
}
