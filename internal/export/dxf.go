package export

import (
	"fmt"
	"strings"

	"github.com/piwi3910/CargoStack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

var layerColors = []color.ColorNumber{
	color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta,
}

// ExportDXF writes a top view of every layer as rectangles in model space.
// Layers of a container run left to right along X, containers run downward
// along Y. Each container layer gets its own DXF layer so it can be toggled
// independently in CAD.
func ExportDXF(path string, result model.PackResult) error {
	if len(result.Containers) == 0 {
		return fmt.Errorf("no containers to export")
	}
	size := result.Size
	gap := float64(max(size.Length, size.Width)) / 10

	d := dxf.NewDrawing()
	n := 0
	for ci, c := range result.Containers {
		originY := -float64(ci) * (float64(size.Width) + gap)
		for li, l := range c.Layers {
			name := dxfLayerName(c.Name, layerName(l, li+1))
			if _, err := d.AddLayer(name, layerColors[n%len(layerColors)], dxf.DefaultLineType, true); err != nil {
				return fmt.Errorf("failed to add DXF layer %q: %w", name, err)
			}
			n++

			originX := float64(li) * (float64(size.Length) + gap)
			if err := dxfRect(d, originX, originY, float64(size.Length), float64(size.Width)); err != nil {
				return err
			}
			textH := float64(size.Width) / 40
			caption := fmt.Sprintf("%s z=%d h=%d", name, l.Z, l.Height)
			if _, err := d.Text(caption, originX, originY+float64(size.Width)+textH, 0, textH); err != nil {
				return fmt.Errorf("failed to write caption: %w", err)
			}

			for _, b := range l.Boxes {
				if err := dxfBox(d, b, originX, originY, size.Width); err != nil {
					return err
				}
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// dxfBox draws one box footprint. DXF Y points up, so the container's Y axis
// is flipped to keep the drawing oriented like the PDF top view.
func dxfBox(d *drawing.Drawing, b model.PlacedBox, originX, originY float64, width int) error {
	x := originX + float64(b.X)
	y := originY + float64(width-b.Y-b.Width)
	if err := dxfRect(d, x, y, float64(b.Length), float64(b.Width)); err != nil {
		return err
	}
	textH := float64(min(b.Length, b.Width)) / 8
	if textH <= 0 {
		return nil
	}
	label := b.ItemID
	if b.StackLevel > 1 {
		label = fmt.Sprintf("%s T%d", label, b.StackLevel)
	}
	if _, err := d.Text(label, x+textH/2, y+textH/2, 0, textH); err != nil {
		return fmt.Errorf("failed to label %s: %w", b.UID, err)
	}
	return nil
}

func dxfRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return fmt.Errorf("failed to draw line: %w", err)
		}
	}
	return nil
}

// dxfLayerName turns "Container 01" and "Layer 2" into "Container_01-Layer_2".
func dxfLayerName(container, layer string) string {
	return strings.ReplaceAll(container, " ", "_") + "-" + strings.ReplaceAll(layer, " ", "_")
}
