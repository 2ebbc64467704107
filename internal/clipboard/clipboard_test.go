package clipboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

func TestParseHTMLTable_SimpleGrid(t *testing.T) {
	parsed := ParseHTMLTable(`<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>`)
	require.True(t, parsed.Success)
	require.Equal(t, 2, parsed.Rows)
	require.Equal(t, 2, parsed.Cols)
	require.Len(t, parsed.Cells, 4)
}

func TestParseHTMLTable_RowspanReservesColumn(t *testing.T) {
	html := `<table>
		<tr><td rowspan="2">a</td><td>b</td></tr>
		<tr><td>c</td></tr>
	</table>`
	parsed := ParseHTMLTable(html)
	require.True(t, parsed.Success)
	require.Equal(t, 2, parsed.Rows)

	var rowTwoCell *ParsedCell
	for i := range parsed.Cells {
		if parsed.Cells[i].R == 1 {
			rowTwoCell = &parsed.Cells[i]
		}
	}
	require.NotNil(t, rowTwoCell)
	require.Equal(t, 1, rowTwoCell.C, "second row's cell should land at column 1, past the rowspan reservation")
	require.Equal(t, "c", rowTwoCell.Value)
}

func TestParseHTMLTable_ColspanAdvancesCursor(t *testing.T) {
	parsed := ParseHTMLTable(`<table><tr><td colspan="2">wide</td><td>narrow</td></tr></table>`)
	require.True(t, parsed.Success)
	require.Equal(t, 3, parsed.Cols)
	require.Equal(t, 0, parsed.Cells[0].C)
	require.Equal(t, 2, parsed.Cells[1].C)
}

func TestParseHTMLTable_NoTableFails(t *testing.T) {
	parsed := ParseHTMLTable(`<div>no table here</div>`)
	require.False(t, parsed.Success)
}

func TestParseTSV_DropsTrailingEmptyLineAndSplitsOnTab(t *testing.T) {
	matrix := ParseTSV("a\tb\nc\td\n")
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, matrix)
}

func TestParseTSV_HandlesRaggedRows(t *testing.T) {
	matrix := ParseTSV("a\tb\tc\nd\n")
	require.Len(t, matrix, 2)
	require.Len(t, matrix[0], 3)
	require.Len(t, matrix[1], 1)
}

func newPasteModel(rows, cols int) (*document.Model, *eventbus.Bus) {
	bus := eventbus.New()
	return document.New(document.Document{Grid: document.Grid{Rows: rows, Cols: cols}}, bus), bus
}

func TestApplyPaste_GrowsGridAndSetsTrimmedValues(t *testing.T) {
	m, bus := newPasteModel(1, 1)
	eng := NewEngine(m, bus)

	var payload any
	bus.On("paste", func(p any) { payload = p })

	eng.ApplyPaste(0, 0, [][]string{{" a ", "b"}, {"c", "d"}})
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 2, m.Cols())

	cell, ok := m.GetCell(0, 0)
	require.True(t, ok)
	require.Equal(t, "a", cell.Value)
	require.NotNil(t, payload)
}

func TestApplyHTMLTablePaste_AssignsSpansAndClearsPriorMerge(t *testing.T) {
	m, bus := newPasteModel(4, 4)
	// pre-existing merge overlapping the paste target
	m.SetCellValue(0, 0, "stale")
	m.ApplyMerge(0, 0, 1, 1, nil)

	eng := NewEngine(m, bus)
	parsed := ParseHTMLTable(`<table><tr><td rowspan="2">x</td><td>y</td></tr><tr><td>z</td></tr></table>`)
	require.True(t, parsed.Success)

	eng.ApplyHTMLTablePaste(0, 0, parsed)

	lead, ok := m.GetCell(0, 0)
	require.True(t, ok)
	require.Equal(t, "x", lead.Value)
	require.Equal(t, 2, lead.RowSpan)

	cellZ, ok := m.GetCell(1, 1)
	require.True(t, ok)
	require.Equal(t, "z", cellZ.Value)
}

func TestApplyHTMLTablePaste_NoOpOnFailedParse(t *testing.T) {
	m, bus := newPasteModel(2, 2)
	eng := NewEngine(m, bus)
	eng.ApplyHTMLTablePaste(0, 0, ParsedTable{Success: false})
	require.Equal(t, 2, m.Rows())
}
