package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/CargoStack/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each box label's QR code.
type LabelInfo struct {
	UID        string `json:"uid"`
	ItemID     string `json:"item"`
	Container  string `json:"container"`
	Layer      string `json:"layer"`
	X          int    `json:"x_mm"`
	Y          int    `json:"y_mm"`
	Z          int    `json:"z_mm"`
	Length     int    `json:"length_mm"`
	Width      int    `json:"width_mm"`
	Height     int    `json:"height_mm"`
	Rotated    bool   `json:"rotated"`
	StackLevel int    `json:"stack_level"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per placed box, in
// loading order. The QR code carries the LabelInfo as JSON so a scanner at
// the dock can confirm where the box belongs.
func ExportLabels(path string, result model.PackResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no boxes placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.UID, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}
	return nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// UIDs are unique within a plan, so they name the images.
	imgName := "qr_" + info.UID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.ItemID, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%d x %d x %d mm", info.Length, info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	where := truncate(pdf, fmt.Sprintf("%s / %s", info.Container, info.Layer), textW)
	pdf.CellFormat(textW, 3, where, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12)
	pos := fmt.Sprintf("@ (%d, %d, %d)", info.X, info.Y, info.Z)
	pdf.CellFormat(textW, 3, pos, "", 1, "L", false, 0, "")

	var flags string
	if info.StackLevel > 1 {
		flags = fmt.Sprintf("Tier %d", info.StackLevel)
	}
	if info.Rotated {
		if flags != "" {
			flags += ", "
		}
		flags += "Rotated"
	}
	if flags != "" {
		pdf.SetXY(textX, y+labelPadding+15.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, flags, "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width w in the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectLabelInfos flattens a result into one LabelInfo per placed box,
// ordered by container, then layer, then placement order.
func CollectLabelInfos(result model.PackResult) []LabelInfo {
	var labels []LabelInfo
	for _, c := range result.Containers {
		for li, l := range c.Layers {
			for _, b := range l.Boxes {
				labels = append(labels, LabelInfo{
					UID:        b.UID,
					ItemID:     b.ItemID,
					Container:  c.Name,
					Layer:      layerName(l, li+1),
					X:          b.X,
					Y:          b.Y,
					Z:          b.Z,
					Length:     b.Length,
					Width:      b.Width,
					Height:     b.Height,
					Rotated:    b.Rotated,
					StackLevel: b.StackLevel,
				})
			}
		}
	}
	return labels
}
