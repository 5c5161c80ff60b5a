package engine

import (
	"sort"

	"github.com/piwi3910/CargoStack/internal/model"
)

// separateBaseRatio limits the separate strategy to bases shorter than this
// fraction of the layer height.
const separateBaseRatio = 0.7

// stackCandidate is a pool unit together with the orientation it would use.
type stackCandidate struct {
	unit    model.Unit
	variant Variant
}

// stack fills the headroom above short boxes of the layer using the
// configured strategy and returns the pool without the stacked units.
func (p *packer) stack(st *layerState, pool []model.Unit) []model.Unit {
	if len(pool) == 0 {
		return pool
	}
	switch p.settings.StackStrategy {
	case model.StackLayerLocal2D:
		return p.stackLayerLocal2D(st, pool)
	case model.StackSeparate:
		return p.stackSeparate(st, pool)
	default:
		return p.stackSameSpot(st, pool)
	}
}

// bases returns the floor boxes shorter than limit, largest footprint first.
func bases(st *layerState, limit func(model.PlacedBox) bool) []model.PlacedBox {
	var out []model.PlacedBox
	for _, b := range st.boxes {
		if b.StackLevel == 1 && limit(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Footprint() > out[j].Footprint()
	})
	return out
}

// candidatesFor returns the pool units with an orientation inside an
// envL x envW footprint no taller than gap. Each unit uses its largest
// footprint orientation.
func (p *packer) candidatesFor(pool []model.Unit, used map[string]bool, envL, envW, gap int) []stackCandidate {
	var out []stackCandidate
	for _, u := range pool {
		if used[u.UID] {
			continue
		}
		vs := Variants(u, envL, envW, gap, p.settings.CanRotate(u))
		if len(vs) > 0 {
			out = append(out, stackCandidate{unit: u, variant: vs[0]})
		}
	}
	return out
}

func shorterThanLayer(st *layerState) func(model.PlacedBox) bool {
	return func(b model.PlacedBox) bool { return b.Height < st.height }
}

// stackLayerLocal2D treats the top face of each base as a small container
// and shelf-packs tiers of units onto it until the headroom is used up.
func (p *packer) stackLayerLocal2D(st *layerState, pool []model.Unit) []model.Unit {
	used := make(map[string]bool)
	for _, base := range bases(st, shorterThanLayer(st)) {
		z := base.Top()
		gap := st.top() - z
		level := 2
		for gap > 0 {
			cands := p.candidatesFor(pool, used, base.Length, base.Width, gap)
			if len(cands) == 0 {
				break
			}
			sort.SliceStable(cands, func(i, j int) bool {
				return cands[i].variant.Area() > cands[j].variant.Area()
			})

			tier := newShelf(base.Length, base.Width)
			tierHeight := 0
			for _, c := range cands {
				x, y, ok := tier.place(c.variant.Length, c.variant.Width)
				if !ok {
					continue
				}
				st.boxes = append(st.boxes, placeBox(c.unit, c.variant, base.X+x, base.Y+y, z, level))
				used[c.unit.UID] = true
				if c.variant.Height > tierHeight {
					tierHeight = c.variant.Height
				}
			}
			if tierHeight == 0 {
				break
			}
			z += tierHeight
			gap -= tierHeight
			level++
		}
	}
	return withoutUIDs(pool, used)
}

// stackSameSpot stacks a column of units directly on each base, choosing
// the subset whose combined height comes closest to the headroom.
func (p *packer) stackSameSpot(st *layerState, pool []model.Unit) []model.Unit {
	used := make(map[string]bool)
	for _, base := range bases(st, shorterThanLayer(st)) {
		gap := st.top() - base.Top()
		cands := p.candidatesFor(pool, used, base.Length, base.Width, gap)
		if len(cands) == 0 {
			continue
		}
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].variant.Height > cands[j].variant.Height
		})

		column := bestColumn(cands, gap)
		z := base.Top()
		for i, c := range column {
			st.boxes = append(st.boxes, placeBox(c.unit, c.variant, base.X, base.Y, z, i+2))
			used[c.unit.UID] = true
			z += c.variant.Height
		}
	}
	return withoutUIDs(pool, used)
}

// bestColumn runs a greedy forward pass from every start index over
// height-sorted candidates and keeps the subset with the greatest total
// height not above gap. The search stops early once the gap is within 1mm.
func bestColumn(cands []stackCandidate, gap int) []stackCandidate {
	var best []stackCandidate
	bestHeight := 0
	for i := range cands {
		var cur []stackCandidate
		h := 0
		for _, c := range cands[i:] {
			if h+c.variant.Height <= gap {
				cur = append(cur, c)
				h += c.variant.Height
			}
			if gap-h < 1 {
				break
			}
		}
		if h > bestHeight {
			best, bestHeight = cur, h
		}
		if gap-bestHeight < 1 {
			break
		}
	}
	return best
}

// stackSeparate lifts one unit per short base onto a free spot next to it,
// resting at the base's top elevation, with an optional second unit on top.
func (p *packer) stackSeparate(st *layerState, pool []model.Unit) []model.Unit {
	used := make(map[string]bool)
	limit := func(b model.PlacedBox) bool {
		return float64(b.Height) < separateBaseRatio*float64(st.height)
	}
	for _, base := range bases(st, limit) {
		gap := st.top() - base.Top()
		if gap <= 0 {
			continue
		}
		cands := p.candidatesFor(pool, used, base.Length, base.Width, gap)
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].variant.Height > cands[j].variant.Height
		})

		for _, c := range cands {
			x, y, ok := p.findNearBase(st, base, c.variant)
			if !ok {
				continue
			}
			z := base.Top()
			first := placeBox(c.unit, c.variant, x, y, z, 2)
			st.boxes = append(st.boxes, first)
			st.floor.reserve(x, y, first.Length, first.Width)
			used[c.unit.UID] = true

			if residual := gap - first.Height; residual > 0 {
				more := p.candidatesFor(pool, used, first.Length, first.Width, residual)
				if len(more) > 0 {
					second := more[0]
					st.boxes = append(st.boxes, placeBox(second.unit, second.variant, x, y, first.Top(), 3))
					used[second.unit.UID] = true
				}
			}
			break
		}
	}
	return withoutUIDs(pool, used)
}

// findNearBase probes right of, left of, beyond, before and diagonal to the
// base, then falls back to the free row segments of the layer floor.
func (p *packer) findNearBase(st *layerState, base model.PlacedBox, v Variant) (int, int, bool) {
	probes := [][2]int{
		{base.X + base.Length, base.Y},
		{max(0, base.X-v.Length), base.Y},
		{base.X, base.Y + base.Width},
		{base.X, max(0, base.Y-v.Width)},
		{base.X + base.Length, base.Y + base.Width},
	}
	for _, pr := range probes {
		if p.freeSpot(st, pr[0], pr[1], v) {
			return pr[0], pr[1], true
		}
	}

	for _, r := range st.floor.rows {
		x, ok := firstFit(r.segments, v.Length)
		if ok && p.freeSpot(st, x, r.y, v) {
			return x, r.y, true
		}
	}
	return 0, 0, false
}

// freeSpot reports whether the footprint at (x, y) stays inside the
// container and clears every box of the layer.
func (p *packer) freeSpot(st *layerState, x, y int, v Variant) bool {
	probe := model.PlacedBox{X: x, Y: y, Length: v.Length, Width: v.Width}
	if x < 0 || y < 0 || x+v.Length > p.size.Length || y+v.Width > p.size.Width {
		return false
	}
	for _, b := range st.boxes {
		if model.FootprintsOverlap(probe, b) {
			return false
		}
	}
	return true
}
