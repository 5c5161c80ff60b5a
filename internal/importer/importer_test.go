package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CargoStack/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	cases := map[rune]string{
		',':  "ID,L,W,H,Qty\nBOX,600,400,300,2\nCRATE,800,600,500,1\n",
		';':  "ID;L;W;H;Qty\nBOX;600;400;300;2\nCRATE;800;600;500;1\n",
		'\t': "ID\tL\tW\tH\tQty\nBOX\t600\t400\t300\t2\nCRATE\t800\t600\t500\t1\n",
		'|':  "ID|L|W|H|Qty\nBOX|600|400|300|2\nCRATE|800|600|500|1\n",
	}
	for want, data := range cases {
		if got := DetectCSVDelimiter([]byte(data)); got != want {
			t.Errorf("expected %q delimiter, got %q", want, got)
		}
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"ID", "Length", "Width", "Height", "Quantity", "Rotate"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{ID: 0, Length: 1, Width: 2, Height: 3, Quantity: 4, Rotate: 5}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_OriginalLayout(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"L", "W", "H", "Q", "No.ID", "Rotate"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping != positionalMapping {
		t.Errorf("expected %+v, got %+v", positionalMapping, mapping)
	}
}

func TestDetectColumns_CaseInsensitiveAndReordered(t *testing.T) {
	mapping, _ := DetectColumns([]string{"QTY", " height ", "SKU", "len", "w"})

	if mapping.Quantity != 0 || mapping.Height != 1 || mapping.ID != 2 || mapping.Length != 3 || mapping.Width != 4 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Rotate != -1 {
		t.Errorf("expected no rotate column, got %d", mapping.Rotate)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"600", "400", "300", "2"})
	if isHeader {
		t.Error("numeric row must not be a header")
	}
	if mapping != positionalMapping {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ParseRotate Tests ─────────────────────────────────────

func TestParseRotate(t *testing.T) {
	for _, s := range []string{"0", "false", "No", " NO ", "n", "không"} {
		if ParseRotate(s) {
			t.Errorf("%q should pin the item", s)
		}
	}
	for _, s := range []string{"", "1", "yes", "true", "maybe"} {
		if !ParseRotate(s) {
			t.Errorf("%q should allow rotation", s)
		}
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "ID,Length,Width,Height,Qty,Rotate\nBOX,600,400,300,2,1\nCRATE,800,600,500,1,no\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	want := model.NewItem("BOX", 600, 400, 300, 2)
	if result.Items[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Items[0])
	}
	if result.Items[1].Rotatable {
		t.Error("CRATE should not be rotatable")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "600,400,300,2,BOX,0\n800,600,500,1\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].ID != "BOX" || result.Items[0].Rotatable {
		t.Errorf("unexpected first item %+v", result.Items[0])
	}
	if result.Items[1].ID != "Item2" || !result.Items[1].Rotatable {
		t.Errorf("unexpected second item %+v", result.Items[1])
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	data := "Dài,Rộng,Cao,SL\n600,400,300,2\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors %v)", len(result.Items), result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a header warning")
	}
}

func TestImportCSVFromReader_InvalidRows(t *testing.T) {
	data := strings.Join([]string{
		"ID,L,W,H,Qty",
		"OK,100,100,100,1",
		"BADLEN,abc,100,100,1",
		"BADQTY,100,100,100,x",
		"NEG,100,-5,100,1",
		"ZERO,100,100,100,0",
		"MISSING,100,100,,1",
		"",
		"OK2,200,200,200,3",
	}, "\n")

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Errorf("expected 2 valid items, got %d", len(result.Items))
	}
	if len(result.Errors) != 5 {
		t.Errorf("expected 5 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 3") {
		t.Errorf("error should name the line: %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_DecimalValuesRounded(t *testing.T) {
	data := "ID,L,W,H,Qty\nBOX,600.4,399.6,300,1\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	it := result.Items[0]
	if it.Length != 600 || it.Width != 400 {
		t.Errorf("expected 600x400, got %dx%d", it.Length, it.Width)
	}
	rounded := 0
	for _, w := range result.Warnings {
		if strings.Contains(w, "rounded") {
			rounded++
		}
	}
	if rounded != 2 {
		t.Errorf("expected 2 rounding warnings, got %d", rounded)
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	data := "ID,Length,Width,Qty\nBOX,600,400,2\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Height") {
		t.Errorf("expected missing Height error, got %v", result.Errors)
	}
	if len(result.Items) != 0 {
		t.Error("expected no items")
	}
}

func TestImportCSVFromReader_OnlyBlankLines(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("\n\n"), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for blank input")
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cargo.csv")
	data := "ID;Length;Width;Height;Qty\nBOX;600;400;300;2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 1 || result.Items[0].Quantity != 2 {
		t.Errorf("unexpected items %+v", result.Items)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if result := ImportCSV(path); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Text Import Tests ─────────────────────────────────────

func TestImportText_PastedCells(t *testing.T) {
	data := "2990\t330\t220\t100\tBEAM\n600, 400, 300, 2\n1200 800 1450 6 PALLET không\n"

	result := ImportText(strings.NewReader(data))

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	if result.Items[0].ID != "BEAM" || result.Items[0].Quantity != 100 {
		t.Errorf("unexpected first item %+v", result.Items[0])
	}
	if result.Items[1].ID != "Item2" {
		t.Errorf("expected generated id, got %s", result.Items[1].ID)
	}
	if result.Items[2].Rotatable {
		t.Error("PALLET should be pinned upright")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cargo.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Item", "Length", "Width", "Height", "Quantity", "Rotate"},
		{"BOX", 600, 400, 300, 2, 1},
		{"CRATE", 800, 600, 500, 1, "false"},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].Length != 600 || result.Items[0].Height != 300 {
		t.Errorf("unexpected first item %+v", result.Items[0])
	}
	if result.Items[1].Rotatable {
		t.Error("CRATE should not be rotatable")
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{600, 400, 300, 2, "BOX"},
	})

	result := ImportExcel(path)

	if len(result.Items) != 1 || result.Items[0].ID != "BOX" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
