package engine

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/CargoStack/internal/model"
)

// heightStats summarizes the candidate heights of a unit pool.
type heightStats struct {
	sorted   []float64 // every candidate height, ascending
	distinct []int     // distinct candidate heights, ascending
	counts   map[int]int
}

// collectHeights gathers the unit heights that fit below remaining.
func collectHeights(units []model.Unit, remaining int) heightStats {
	hs := heightStats{counts: make(map[int]int)}
	for _, u := range units {
		if u.Height <= remaining {
			hs.sorted = append(hs.sorted, float64(u.Height))
			if hs.counts[u.Height] == 0 {
				hs.distinct = append(hs.distinct, u.Height)
			}
			hs.counts[u.Height]++
		}
	}
	sort.Float64s(hs.sorted)
	sort.Ints(hs.distinct)
	return hs
}

func (hs heightStats) empty() bool {
	return len(hs.sorted) == 0
}

// quantile returns the empirical p-quantile of the candidate heights.
func (hs heightStats) quantile(p float64) int {
	return int(stat.Quantile(p, stat.Empirical, hs.sorted, nil))
}

// mode returns the most frequent height, preferring the smallest on ties.
func (hs heightStats) mode() int {
	best, bestCount := 0, 0
	for _, h := range hs.distinct {
		if hs.counts[h] > bestCount {
			best, bestCount = h, hs.counts[h]
		}
	}
	return best
}

// tall returns the distinct heights at or above the 70th percentile.
func (hs heightStats) tall() []int {
	p70 := hs.quantile(0.7)
	var out []int
	for _, h := range hs.distinct {
		if h >= p70 {
			out = append(out, h)
		}
	}
	return out
}

// short returns the distinct heights at or below the 30th percentile.
func (hs heightStats) short() []int {
	p30 := hs.quantile(0.3)
	var out []int
	for _, h := range hs.distinct {
		if h <= p30 {
			out = append(out, h)
		}
	}
	return out
}

// SelectLayerHeight picks the height of the next layer from the heights of
// the units that still fit below remaining. When tall heights dominate the
// smallest tall height is used, when short heights dominate the largest
// short height is used, otherwise the most frequent height. It returns
// false when no unit fits.
func SelectLayerHeight(units []model.Unit, remaining int) (int, bool) {
	hs := collectHeights(units, remaining)
	if hs.empty() {
		return 0, false
	}

	tall, short := hs.tall(), hs.short()
	var h int
	switch {
	case len(tall) > len(short):
		h = tall[0]
	case len(short) > len(tall):
		h = short[len(short)-1]
	default:
		h = hs.mode()
	}
	if h > remaining {
		h = remaining
	}
	return h, true
}

// smallerHeights returns the distinct candidate heights below h, tallest first.
func smallerHeights(units []model.Unit, remaining, h int) []int {
	hs := collectHeights(units, remaining)
	var out []int
	for i := len(hs.distinct) - 1; i >= 0; i-- {
		if hs.distinct[i] < h {
			out = append(out, hs.distinct[i])
		}
	}
	return out
}
