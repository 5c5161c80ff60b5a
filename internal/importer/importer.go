// Package importer provides CSV, Excel and pasted-text import for cargo
// lists. It supports automatic delimiter detection, flexible column mapping,
// and case-insensitive header recognition.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CargoStack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID       int
	Length   int
	Width    int
	Height   int
	Quantity int
	Rotate   int
}

// positionalMapping is used for header-less data: L, W, H, Q, ID, Rotate.
var positionalMapping = ColumnMapping{
	Length:   0,
	Width:    1,
	Height:   2,
	Quantity: 3,
	ID:       4,
	Rotate:   5,
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":       {"id", "no.id", "noid", "no id", "item", "item id", "label", "name", "sku", "code", "description"},
	"length":   {"length", "l", "len", "x"},
	"width":    {"width", "w", "y"},
	"height":   {"height", "h", "z"},
	"quantity": {"quantity", "qty", "q", "count", "num", "amount", "pcs", "pieces"},
	"rotate":   {"rotate", "rotation", "rotatable", "can rotate", "xoay"},
}

// nonRotatable lists the rotate-column values that pin an item upright.
var nonRotatable = map[string]bool{
	"0":     true,
	"false": true,
	"no":    true,
	"n":     true,
	"không": true,
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Length: -1, Width: -1, Height: -1, Quantity: -1, Rotate: -1}
	roles := map[string]*int{
		"id":       &mapping.ID,
		"length":   &mapping.Length,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"quantity": &mapping.Quantity,
		"rotate":   &mapping.Rotate,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if idx := roles[role]; *idx == -1 {
					*idx = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// ParseRotate interprets a rotate-column value. Empty and unknown values
// leave the item free to rotate.
func ParseRotate(s string) bool {
	return !nonRotatable[strings.ToLower(strings.TrimSpace(s))]
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDimension reads a millimetre value, rounding fractions to whole mm.
func parseDimension(s, name, rowLabel string) (int, string, string) {
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name), ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s), ""
	}
	rounded := math.Round(v)
	if rounded != v {
		return int(rounded), "", fmt.Sprintf("%s: %s %s rounded to %dmm", rowLabel, name, s, int(rounded))
	}
	return int(rounded), "", ""
}

// parseRow extracts an Item from a row using the given column mapping.
// Returns the item, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (model.Item, string, []string) {
	var warnings []string

	id := getCell(row, mapping.ID)
	if id == "" {
		id = fmt.Sprintf("Item%d", itemCount+1)
	}

	dims := [3]int{}
	for i, col := range []struct {
		name string
		idx  int
	}{{"length", mapping.Length}, {"width", mapping.Width}, {"height", mapping.Height}} {
		v, errMsg, warning := parseDimension(getCell(row, col.idx), col.name, rowLabel)
		if errMsg != "" {
			return model.Item{}, errMsg, nil
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
		dims[i] = v
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.Item{}, fmt.Sprintf("%s: Missing quantity value", rowLabel), nil
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return model.Item{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
	}

	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 || qty <= 0 {
		return model.Item{}, fmt.Sprintf("%s: Length, width, height, and quantity must be positive", rowLabel), nil
	}

	item := model.NewItem(id, dims[0], dims[1], dims[2], qty)
	item.Rotatable = ParseRotate(getCell(row, mapping.Rotate))
	return item, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports items from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports items from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportText imports items from free-form text, one item per line as
// "L W H Q [ID] [Rotate]" separated by whitespace, commas or tabs. This is
// the format produced by copying cells out of a spreadsheet.
func ImportText(r io.Reader) ImportResult {
	var rows [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.NewReplacer("\t", " ", ",", " ").Replace(scanner.Text())
		rows = append(rows, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read text: %v", err)}}
	}
	return importFromRows(rows, "Line", nil)
}

// ImportExcel imports items from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for CSV, Excel and text data.
// It detects headers, maps columns, and parses each row into items.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 || allEmpty(rows) {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	first := 0
	for isEmptyRow(rows[first]) {
		first++
	}

	mapping, hasHeader := DetectColumns(rows[first])
	startRow := first
	if hasHeader {
		startRow = first + 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.ParseFloat(getCell(rows[first], 0), 64); err != nil {
		// Unrecognized header: skip it but keep the positional mapping
		startRow = first + 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		item, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Items))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Items = append(result.Items, item)
	}

	return result
}

func allEmpty(rows [][]string) bool {
	for _, r := range rows {
		if !isEmptyRow(r) {
			return false
		}
	}
	return true
}
