package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/CargoStack/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Summary"
	unplacedSheet = "Unplaced"
)

var boxHeaders = []interface{}{
	"Layer", "Stack Level", "Item", "UID", "X", "Y", "Z", "Length", "Width", "Height", "Rotated",
}

// ExportExcel writes the plan as a workbook: a summary sheet, one sheet per
// container listing every box with its position, and an unplaced sheet when
// some units did not fit.
func ExportExcel(path string, result model.PackResult) error {
	if len(result.Containers) == 0 {
		return fmt.Errorf("no containers to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if err := writeSummarySheet(f, result); err != nil {
		return err
	}

	for i, c := range result.Containers {
		name := sheetName(c.Name, i)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
		if err := writeContainerSheet(f, name, c); err != nil {
			return err
		}
	}

	if len(result.Unplaced) > 0 {
		if _, err := f.NewSheet(unplacedSheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", unplacedSheet, err)
		}
		if err := writeUnplacedSheet(f, result.Unplaced); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// sheetName returns a sheet title within Excel's 31 character limit.
func sheetName(name string, index int) string {
	if name == "" || name == summarySheet || name == unplacedSheet {
		name = fmt.Sprintf("Container %02d", index+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result model.PackResult) error {
	rows := [][]interface{}{
		{"Container Length (mm)", result.Size.Length},
		{"Container Width (mm)", result.Size.Width},
		{"Container Height (mm)", result.Size.Height},
		{"Containers Used", len(result.Containers)},
		{"Boxes Packed", result.PackedCount()},
		{"Unplaced Boxes", len(result.Unplaced)},
		{"Overall Utilization (%)", round2(result.TotalUtilization())},
		{"Best Strategy", result.BestStrategy},
		{},
		{"Container", "Layers", "Boxes", "Packed Volume (mm³)", "Utilization (%)", "Strategy"},
	}
	for _, c := range result.Containers {
		rows = append(rows, []interface{}{
			c.Name, len(c.Layers), c.PackedCount, c.PackedVolume, round2(c.Utilization(result.Size)), c.Strategy,
		})
	}

	if len(result.Scores) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Strategy", "Score", "Containers", "Packed", "Time (ms)", "Error"})
		for _, s := range result.Scores {
			rows = append(rows, []interface{}{
				s.Name, s.Score, s.Containers, s.Packed, s.Elapsed.Milliseconds(), s.Err,
			})
		}
	}

	if len(result.Rotation.Improved) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Item", "Listed L x W x H", "Suggested L x W x H", "Fit Gain (%)", "Quantity"})
		for _, a := range result.Rotation.Improved {
			rows = append(rows, []interface{}{
				a.ItemID, dimString(a.Original), dimString(a.BestOrientation), round2(a.Improvement), a.Quantity,
			})
		}
	}

	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if err := writeRow(f, summarySheet, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

func writeContainerSheet(f *excelize.File, sheet string, c model.Container) error {
	if err := writeRow(f, sheet, 1, boxHeaders); err != nil {
		return err
	}
	row := 2
	for li, l := range c.Layers {
		for _, b := range l.Boxes {
			values := []interface{}{
				layerName(l, li+1), b.StackLevel, b.ItemID, b.UID,
				b.X, b.Y, b.Z, b.Length, b.Width, b.Height, yesNo(b.Rotated),
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeUnplacedSheet(f *excelize.File, units []model.Unit) error {
	if err := writeRow(f, unplacedSheet, 1, []interface{}{"Item", "UID", "Length", "Width", "Height", "Rotatable"}); err != nil {
		return err
	}
	for i, u := range units {
		values := []interface{}{u.ItemID, u.UID, u.Length, u.Width, u.Height, yesNo(u.Rotatable)}
		if err := writeRow(f, unplacedSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func dimString(d [3]int) string {
	return fmt.Sprintf("%d x %d x %d", d[0], d[1], d[2])
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
