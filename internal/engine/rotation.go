package engine

import (
	"sort"

	"github.com/piwi3910/CargoStack/internal/model"
)

// estimateCount is the grid estimate of how many l x w x h boxes fit the
// container, allowing the whole grid to be laid with w and h swapped.
func estimateCount(size model.ContainerSize, l, w, h int) int {
	if l <= 0 || w <= 0 || h <= 0 {
		return 0
	}
	upright := (size.Length / l) * (size.Width / w) * (size.Height / h)
	onSide := (size.Length / l) * (size.Width / h) * (size.Height / w)
	return max(upright, onSide)
}

// AnalyzeRotation reports, per item, whether turning its units onto another
// face would let more of them fit a container. The first unit of each item
// is taken as its sample. Items that may not rotate are skipped. The report
// is advisory and does not change any packing.
func AnalyzeRotation(units []model.Unit, size model.ContainerSize, allowRotation bool) model.RotationReport {
	var report model.RotationReport
	if !allowRotation {
		return report
	}

	samples := make(map[string]model.Unit)
	quantities := make(map[string]int)
	var order []string
	for _, u := range units {
		if _, ok := samples[u.ItemID]; !ok {
			samples[u.ItemID] = u
			order = append(order, u.ItemID)
		}
		quantities[u.ItemID]++
	}

	for _, id := range order {
		u := samples[id]
		if !u.Rotatable {
			continue
		}
		orig := estimateCount(size, u.Length, u.Width, u.Height)
		best, bestDims := orig, [3]int{u.Length, u.Width, u.Height}
		for _, p := range permutations(u.Length, u.Width, u.Height) {
			if n := estimateCount(size, p[0], p[1], p[2]); n > best {
				best, bestDims = n, p
			}
		}
		if best <= orig {
			continue
		}
		report.Improved = append(report.Improved, model.RotationAdvice{
			ItemID:          id,
			Original:        [3]int{u.Length, u.Width, u.Height},
			BestOrientation: bestDims,
			OriginalCount:   orig,
			BestCount:       best,
			Improvement:     float64(best-orig) / float64(max(orig, 1)) * 100.0,
			Quantity:        quantities[id],
		})
	}

	sort.SliceStable(report.Improved, func(i, j int) bool {
		return report.Improved[i].Improvement > report.Improved[j].Improvement
	})

	report.ImprovedTypes = len(report.Improved)
	var sum float64
	for _, a := range report.Improved {
		report.ImprovedUnits += a.Quantity
		sum += a.Improvement
	}
	if report.ImprovedTypes > 0 {
		report.AvgImprovement = sum / float64(report.ImprovedTypes)
	}
	return report
}
