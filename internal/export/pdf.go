// Package export writes packing plans to PDF, Excel, DXF and label sheets.
package export

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/CargoStack/internal/model"
)

// boxColor represents an RGB fill for one item type.
type boxColor struct {
	R, G, B int
}

var boxColors = []boxColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// palette assigns each item id a color in order of first appearance, so the
// same item keeps its color across every page of the report.
type palette map[string]boxColor

func newPalette(result model.PackResult) palette {
	p := palette{}
	for _, c := range result.Containers {
		for _, b := range c.Boxes() {
			if _, ok := p[b.ItemID]; !ok {
				p[b.ItemID] = boxColors[len(p)%len(boxColors)]
			}
		}
	}
	return p
}

func (p palette) color(itemID string) boxColor {
	if c, ok := p[itemID]; ok {
		return c
	}
	return boxColors[0]
}

// ExportPDF writes a loading report: for each container an elevation page
// followed by one top-view page per layer, then a summary page.
func ExportPDF(path string, result model.PackResult) error {
	if len(result.Containers) == 0 {
		return fmt.Errorf("no containers to export")
	}
	if result.Size.Volume() <= 0 {
		return fmt.Errorf("container size %dx%dx%d is not drawable", result.Size.Length, result.Size.Width, result.Size.Height)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	colors := newPalette(result)

	for _, c := range result.Containers {
		pdf.AddPage()
		renderElevationPage(pdf, c, result.Size, colors)
		for i, l := range c.Layers {
			pdf.AddPage()
			renderLayerPage(pdf, c, l, i+1, result.Size, colors)
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// fitScale returns the scale and origin that fit a w×h drawing into the
// page's drawing area, centered horizontally.
func fitScale(w, h int) (scale, offsetX, offsetY float64) {
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale = math.Min(drawWidth/float64(w), drawHeight/float64(h))
	offsetX = marginLeft + (drawWidth-float64(w)*scale)/2
	offsetY = drawAreaTop
	return scale, offsetX, offsetY
}

func pageTitle(pdf *fpdf.Fpdf, title, stats string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// renderLayerPage draws the top view of one layer. Stacked boxes are drawn
// after the floor boxes and hatched so the tiers stay distinguishable.
func renderLayerPage(pdf *fpdf.Fpdf, c model.Container, l model.Layer, layerNum int, size model.ContainerSize, colors palette) {
	title := fmt.Sprintf("%s / %s (z %d to %d mm)", c.Name, layerName(l, layerNum), l.Z, l.Top())
	var floorArea int64
	stacked := 0
	for _, b := range l.Boxes {
		if b.StackLevel <= 1 {
			floorArea += b.Footprint()
		} else {
			stacked++
		}
	}
	coverage := 0.0
	if a := int64(size.Length) * int64(size.Width); a > 0 {
		coverage = float64(floorArea) / float64(a) * 100
	}
	stats := fmt.Sprintf("Boxes: %d | Stacked: %d | Layer height: %d mm | Floor coverage: %.1f%%",
		len(l.Boxes), stacked, l.Height, coverage)
	pageTitle(pdf, title, stats)

	scale, offsetX, offsetY := fitScale(size.Length, size.Width)
	canvasW := float64(size.Length) * scale
	canvasH := float64(size.Width) * scale

	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	boxes := append([]model.PlacedBox(nil), l.Boxes...)
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].StackLevel < boxes[j].StackLevel
	})
	for _, b := range boxes {
		col := colors.color(b.ItemID)
		bw := float64(b.Length) * scale
		bh := float64(b.Width) * scale
		bx := offsetX + float64(b.X)*scale
		by := offsetY + float64(b.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		if b.Rotated {
			pdf.SetDrawColor(200, 0, 0)
		} else {
			pdf.SetDrawColor(30, 30, 30)
		}
		pdf.SetLineWidth(0.3)
		pdf.Rect(bx, by, bw, bh, "FD")
		if b.Stacked {
			drawHatchPattern(pdf, bx, by, bw, bh)
		}

		if bw > 15 && bh > 8 {
			drawBoxLabel(pdf, b, bx, by, bw, bh)
		}
	}

	drawDimensionAnnotations(pdf, fmt.Sprintf("%d mm", size.Length), fmt.Sprintf("%d mm", size.Width),
		offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, l.Boxes, colors, offsetY+canvasH+6)
}

// renderElevationPage draws the side view of a container: every box
// projected onto the length/height plane, far boxes first.
func renderElevationPage(pdf *fpdf.Fpdf, c model.Container, size model.ContainerSize, colors palette) {
	stats := fmt.Sprintf("Layers: %d | Boxes: %d | Utilization: %.1f%%",
		len(c.Layers), c.PackedCount, c.Utilization(size))
	if c.Strategy != "" {
		stats += " | Strategy: " + c.Strategy
	}
	pageTitle(pdf, c.Name+" side elevation", stats)

	scale, offsetX, offsetY := fitScale(size.Length, size.Height)
	canvasW := float64(size.Length) * scale
	canvasH := float64(size.Height) * scale

	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	boxes := c.Boxes()
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].Y+boxes[i].Width > boxes[j].Y+boxes[j].Width
	})
	floor := offsetY + canvasH
	for _, b := range boxes {
		col := colors.color(b.ItemID)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(offsetX+float64(b.X)*scale, floor-float64(b.Top())*scale,
			float64(b.Length)*scale, float64(b.Height)*scale, "FD")
	}

	// Layer boundaries
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(200, 0, 0)
	for i, l := range c.Layers {
		y := floor - float64(l.Top())*scale
		pdf.Line(offsetX, y, offsetX+canvasW, y)
		pdf.SetXY(offsetX+canvasW+1, y-2)
		pdf.CellFormat(12, 4, layerName(l, i+1), "", 0, "L", false, 0, "")
	}

	drawDimensionAnnotations(pdf, fmt.Sprintf("%d mm", size.Length), fmt.Sprintf("%d mm", size.Height),
		offsetX, offsetY, canvasW, canvasH)
}

func layerName(l model.Layer, n int) string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("Layer %d", n)
}

func drawBoxLabel(pdf *fpdf.Fpdf, b model.PlacedBox, bx, by, bw, bh float64) {
	pdf.SetFont("Helvetica", "", labelFontSize(bw, bh))
	pdf.SetTextColor(0, 0, 0)

	label := b.ItemID
	dims := fmt.Sprintf("%dx%dx%d", b.Length, b.Width, b.Height)
	labelW := pdf.GetStringWidth(label)
	dimsW := pdf.GetStringWidth(dims)

	if labelW < bw-2 {
		pdf.SetXY(bx+(bw-labelW)/2, by+bh/2-4)
		pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	}
	if bh > 14 && dimsW < bw-2 {
		pdf.SetXY(bx+(bw-dimsW)/2, by+bh/2)
		pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations labels the horizontal extent below the canvas and
// the vertical extent, rotated, to its left.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, across, down string, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	aw := pdf.GetStringWidth(across)
	pdf.SetXY(offsetX+(canvasW-aw)/2, offsetY+canvasH+1)
	pdf.CellFormat(aw, 4, across, "", 0, "C", false, 0, "")

	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dw := pdf.GetStringWidth(down)
	pdf.SetXY(offsetX-3-dw/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dw, 4, down, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend lists each item type of the layer once with its count.
func drawLegend(pdf *fpdf.Fpdf, boxes []model.PlacedBox, colors palette, startY float64) {
	if len(boxes) == 0 {
		return
	}
	counts := map[string]int{}
	var order []string
	for _, b := range boxes {
		if counts[b.ItemID] == 0 {
			order = append(order, b.ItemID)
		}
		counts[b.ItemID]++
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight
	for _, id := range order {
		col := colors.color(id)
		label := fmt.Sprintf("%s x%d", id, counts[id])
		labelW := pdf.GetStringWidth(label) + 6
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

// renderSummaryPage draws overall statistics, the per-container table,
// strategy scores and any unplaced units.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Loading Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Container Size", fmt.Sprintf("%d x %d x %d mm", result.Size.Length, result.Size.Width, result.Size.Height)},
		{"Containers Used", fmt.Sprintf("%d", len(result.Containers))},
		{"Overall Utilization", fmt.Sprintf("%.1f%%", result.TotalUtilization())},
		{"Boxes Packed", fmt.Sprintf("%d", result.PackedCount())},
		{"Unplaced Boxes", fmt.Sprintf("%d", len(result.Unplaced))},
		{"Best Strategy", result.BestStrategy},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Container Breakdown", "", 0, "L", false, 0, "")
	y += 9

	rows := make([][]string, 0, len(result.Containers))
	for _, c := range result.Containers {
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%d", len(c.Layers)),
			fmt.Sprintf("%d", c.PackedCount),
			fmt.Sprintf("%.2f m³", float64(c.PackedVolume)/1e9),
			fmt.Sprintf("%.1f%%", c.Utilization(result.Size)),
		})
	}
	y = drawTable(pdf, y, []float64{50, 30, 30, 50, 40},
		[]string{"Container", "Layers", "Boxes", "Packed Volume", "Utilization"}, rows)

	if len(result.Scores) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Strategy Comparison", "", 0, "L", false, 0, "")
		y += 9

		rows = rows[:0]
		for _, s := range result.Scores {
			score := fmt.Sprintf("%.4f", s.Score)
			if s.Failed() {
				score = "failed"
			}
			rows = append(rows, []string{
				s.Name, score,
				fmt.Sprintf("%d", s.Containers),
				fmt.Sprintf("%d", s.Packed),
				s.Elapsed.Round(time.Millisecond).String(),
			})
		}
		y = drawTable(pdf, y, []float64{60, 30, 30, 30, 40},
			[]string{"Strategy", "Score", "Containers", "Packed", "Time"}, rows)
	}

	if len(result.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Boxes", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, line := range unplacedLines(result.Unplaced) {
			if y > pageHeight-marginBottom-8 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, line, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CargoStack - Container Loading Planner", "", 0, "C", false, 0, "")
}

// drawTable renders a bordered table with a shaded header and returns the y
// position below it.
func drawTable(pdf *fpdf.Fpdf, y float64, widths []float64, headers []string, rows [][]string) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, h := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
		xPos += widths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		if y > pageHeight-marginBottom-6 {
			break
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(widths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += widths[j]
		}
		y += 6
	}
	return y
}

// unplacedLines groups unplaced units by item and size.
func unplacedLines(units []model.Unit) []string {
	type key struct {
		id      string
		l, w, h int
	}
	counts := map[key]int{}
	var order []key
	for _, u := range units {
		k := key{u.ItemID, u.Length, u.Width, u.Height}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	lines := make([]string, 0, len(order))
	for _, k := range order {
		lines = append(lines, fmt.Sprintf("- %s: %d x %d x %d mm (qty: %d)", k.id, k.l, k.w, k.h, counts[k]))
	}
	return lines
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
