package export

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/CargoStack/internal/model"
)

// buildTestResult creates a two-container plan with a stacked box, a rotated
// box and one unplaced unit.
func buildTestResult() model.PackResult {
	size := model.ContainerSize{Length: 6000, Width: 2400, Height: 2400}
	first := model.Container{
		Name:     "Container 01",
		Strategy: "gap-filling",
		Layers: []model.Layer{
			{
				Name: "Layer 1", Z: 0, Height: 800,
				Boxes: []model.PlacedBox{
					{UID: "u1", ItemID: "Crate", X: 0, Y: 0, Z: 0, Length: 1200, Width: 800, Height: 800, StackLevel: 1},
					{UID: "u2", ItemID: "Crate", X: 1200, Y: 0, Z: 0, Length: 1200, Width: 800, Height: 800, StackLevel: 1},
					{UID: "u3", ItemID: "Carton", X: 2400, Y: 0, Z: 0, Length: 600, Width: 400, Height: 300, StackLevel: 1},
					{UID: "u4", ItemID: "Carton", X: 2400, Y: 0, Z: 300, Length: 600, Width: 400, Height: 300, Stacked: true, StackLevel: 2},
				},
			},
			{
				Name: "Layer 2", Z: 800, Height: 500,
				Boxes: []model.PlacedBox{
					{UID: "u5", ItemID: "Drum", X: 0, Y: 0, Z: 800, Length: 500, Width: 600, Height: 500, Rotated: true, StackLevel: 1},
				},
			},
		},
	}
	second := model.Container{
		Name:     "Container 02",
		Strategy: "gap-filling",
		Layers: []model.Layer{
			{
				Name: "Layer 1", Z: 0, Height: 800,
				Boxes: []model.PlacedBox{
					{UID: "u6", ItemID: "Crate", X: 0, Y: 0, Z: 0, Length: 1200, Width: 800, Height: 800, StackLevel: 1},
				},
			},
		},
	}
	first.Recount()
	second.Recount()
	return model.PackResult{
		Size:         size,
		Containers:   []model.Container{first, second},
		Unplaced:     []model.Unit{{UID: "u7", ItemID: "Pipe", Length: 7000, Width: 100, Height: 100}},
		BestStrategy: "gap-filling",
		Scores: []model.StrategyScore{
			{Name: "gap-filling", Score: 0.61, Containers: 2, Packed: 6, Elapsed: 3 * time.Millisecond},
			{Name: "hybrid", Err: "boom"},
		},
		Rotation: model.RotationReport{
			Improved: []model.RotationAdvice{{
				ItemID: "Drum", Original: [3]int{600, 500, 500}, BestOrientation: [3]int{500, 600, 500},
				OriginalCount: 10, BestCount: 12, Improvement: 20, Quantity: 1,
			}},
			ImprovedTypes: 1, ImprovedUnits: 1, AvgImprovement: 20,
		},
	}
}

func assertNonEmptyFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	if err := ExportPDF(path, buildTestResult()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, model.PackResult{}); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty result")
	}
}

func TestExportPDF_ZeroSizeContainer(t *testing.T) {
	result := buildTestResult()
	result.Size = model.ContainerSize{}

	if err := ExportPDF(filepath.Join(t.TempDir(), "zero.pdf"), result); err == nil {
		t.Fatal("expected error for a zero-size container")
	}
}

func TestExportPDF_ManyItemTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	// More item types than colors to exercise palette cycling.
	var boxes []model.PlacedBox
	for i := 0; i < 20; i++ {
		boxes = append(boxes, model.PlacedBox{
			UID: fmt.Sprintf("u%d", i), ItemID: fmt.Sprintf("Item%d", i),
			X: (i % 5) * 400, Y: (i / 5) * 300, Length: 400, Width: 300, Height: 200,
			Rotated: i%3 == 0, StackLevel: 1,
		})
	}
	c := model.Container{Name: "Container 01", Layers: []model.Layer{{Name: "Layer 1", Height: 200, Boxes: boxes}}}
	c.Recount()
	result := model.PackResult{
		Size:       model.ContainerSize{Length: 2000, Width: 1200, Height: 1000},
		Containers: []model.Container{c},
	}

	if err := ExportPDF(path, result); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestPaletteIsStablePerItem(t *testing.T) {
	p := newPalette(buildTestResult())
	if len(p) != 3 {
		t.Fatalf("expected 3 item colors, got %d", len(p))
	}
	if p.color("Crate") != boxColors[0] || p.color("Carton") != boxColors[1] || p.color("Drum") != boxColors[2] {
		t.Errorf("colors should follow first appearance order: %+v", p)
	}
	if p.color("Unknown") != boxColors[0] {
		t.Error("unknown items should fall back to the first color")
	}
}

func TestUnplacedLinesGroupsBySize(t *testing.T) {
	units := []model.Unit{
		{ItemID: "A", Length: 10, Width: 10, Height: 10},
		{ItemID: "A", Length: 10, Width: 10, Height: 10},
		{ItemID: "A", Length: 20, Width: 10, Height: 10},
	}
	lines := unplacedLines(units)
	want := []string{
		"- A: 10 x 10 x 10 mm (qty: 2)",
		"- A: 20 x 10 x 10 mm (qty: 1)",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestLayerNameFallback(t *testing.T) {
	if got := layerName(model.Layer{Name: "Top"}, 3); got != "Top" {
		t.Errorf("layerName kept name = %q", got)
	}
	if got := layerName(model.Layer{}, 3); got != "Layer 3" {
		t.Errorf("layerName fallback = %q, want %q", got, "Layer 3")
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 15, 6},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
