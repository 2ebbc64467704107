// Package clipboard implements spec.md §4.5's ClipboardParsers and
// PasteEngine: HTML-table and TSV parsing into a normalized cell matrix,
// and applying either one into a document.Model.
package clipboard

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ParsedCell is one normalized leading-cell record from an HTML table.
type ParsedCell struct {
	R, C           int
	Value          string
	RowSpan        int
	ColSpan        int
}

// ParsedTable is the result of ParseHTMLTable.
type ParsedTable struct {
	Success bool
	Rows    int
	Cols    int
	Cells   []ParsedCell
}

// ParseHTMLTable consumes an HTML fragment, locates the first <table>, and
// walks its rows tracking an occupancy grid so that an open rowspan from an
// earlier row reserves its columns in later ones. Returns {Success:false}
// if no table (or no rows) is found.
func ParseHTMLTable(fragment string) ParsedTable {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	if !seekTableStart(tokenizer) {
		return ParsedTable{Success: false}
	}

	occupancy := map[int]int{} // column -> rows still reserved by a rowspan above
	var cells []ParsedCell
	row := -1
	maxCols := 0
	tableDepth := 1 // we're inside the outer <table>

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			attrs := readAttrs(tokenizer, hasAttr)
			tag := string(name)
			switch tag {
			case "table":
				tableDepth++
			case "tr":
				row++
			case "td", "th":
				col := 0
				for occupancy[col] > 0 {
					col++
				}
				rowSpan := attrIntOr(attrs, "rowspan", 1)
				colSpan := attrIntOr(attrs, "colspan", 1)
				if rowSpan < 1 {
					rowSpan = 1
				}
				if colSpan < 1 {
					colSpan = 1
				}

				value := ""
				if tt == html.StartTagToken {
					value = readCellText(tokenizer, tag)
				}

				cells = append(cells, ParsedCell{R: row, C: col, Value: strings.TrimSpace(value), RowSpan: rowSpan, ColSpan: colSpan})

				for cc := col; cc < col+colSpan; cc++ {
					occupancy[cc] = rowSpan
				}
				end := col + colSpan
				if end > maxCols {
					maxCols = end
				}
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "table" {
				tableDepth--
				if tableDepth == 0 {
					goto doneTable
				}
			}
			if string(name) == "tr" {
				decayOccupancy(occupancy)
			}
		}
	}

doneTable:
	if row < 0 {
		return ParsedTable{Success: false}
	}
	return ParsedTable{Success: true, Rows: row + 1, Cols: maxCols, Cells: cells}
}

// seekTableStart advances t past tokens until the opening <table> tag, or
// returns false if the input is exhausted first.
func seekTableStart(t *html.Tokenizer) bool {
	for {
		tt := t.Next()
		if tt == html.ErrorToken {
			return false
		}
		if tt == html.StartTagToken {
			name, _ := t.TagName()
			if string(name) == "table" {
				return true
			}
		}
	}
}

// readCellText accumulates text content inside the current td/th, skipping
// over any nested markup, until its matching close tag.
func readCellText(t *html.Tokenizer, tag string) string {
	var b strings.Builder
	depth := 1
	for {
		tt := t.Next()
		if tt == html.ErrorToken {
			return b.String()
		}
		switch tt {
		case html.StartTagToken:
			name, _ := t.TagName()
			if string(name) == tag {
				depth++
			}
		case html.EndTagToken:
			name, _ := t.TagName()
			if string(name) == tag {
				depth--
				if depth == 0 {
					return b.String()
				}
			}
		case html.TextToken:
			b.Write(t.Text())
		}
	}
}

func readAttrs(t *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := map[string]string{}
	if !hasAttr {
		return attrs
	}
	for {
		key, val, more := t.TagAttr()
		attrs[string(key)] = string(val)
		if !more {
			break
		}
	}
	return attrs
}

func attrIntOr(attrs map[string]string, key string, fallback int) int {
	raw, ok := attrs[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func decayOccupancy(occupancy map[int]int) {
	for col, remaining := range occupancy {
		if remaining <= 1 {
			delete(occupancy, col)
			continue
		}
		occupancy[col] = remaining - 1
	}
}

// ParseTSV splits raw TSV/clipboard text into a (possibly ragged) string
// matrix: normalize line endings, drop a trailing empty line, split rows on
// tab.
func ParseTSV(raw string) [][]string {
	raw = strings.ReplaceAll(raw, "\r", "")
	lines := strings.Split(raw, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	matrix := make([][]string, len(lines))
	for i, line := range lines {
		matrix[i] = strings.Split(line, "\t")
	}
	return matrix
}
