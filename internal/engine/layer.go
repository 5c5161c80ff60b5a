package engine

import (
	"sort"

	"github.com/piwi3910/CargoStack/internal/model"
)

// LayerResult is the outcome of building one layer.
type LayerResult struct {
	Boxes     []model.PlacedBox
	Height    int          // Actual slab thickness, at least the requested height
	Remaining []model.Unit // Units left in the pool, in their original order
}

// layerState is the working state of the layer being built.
type layerState struct {
	z      int
	height int
	boxes  []model.PlacedBox
	floor  *shelf
}

// top returns the elevation of the layer ceiling.
func (st *layerState) top() int {
	return st.z + st.height
}

// BuildLayer fills one horizontal slab at elevation z with the given
// units. Boxes are laid out in rows along the container length, largest
// footprint first. When stacking is enabled the headroom above boxes
// shorter than the layer is filled afterwards.
func BuildLayer(settings model.PackSettings, size model.ContainerSize, units []model.Unit, layerHeight, z int) LayerResult {
	return newPacker(settings, size).buildLayer(units, layerHeight, z)
}

type layerCandidate struct {
	unit     model.Unit
	variants []Variant
}

func (p *packer) buildLayer(units []model.Unit, layerHeight, z int) LayerResult {
	ceiling := layerHeight + p.settings.Tolerance()
	if room := p.size.Height - z; ceiling > room {
		ceiling = room
	}

	var cands []layerCandidate
	for _, u := range units {
		vs := Variants(u, p.size.Length, p.size.Width, ceiling, p.settings.CanRotate(u))
		if len(vs) > 0 {
			cands = append(cands, layerCandidate{unit: u, variants: vs})
		}
	}
	if len(cands) == 0 {
		return LayerResult{Remaining: units}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		fi, fj := cands[i].unit.Footprint(), cands[j].unit.Footprint()
		if fi != fj {
			return fi > fj
		}
		return cands[i].unit.Height > cands[j].unit.Height
	})

	st := &layerState{z: z, floor: newShelf(p.size.Length, p.size.Width)}
	used := make(map[string]bool)
	maxHeight := 0
	for _, c := range cands {
		for _, v := range c.variants {
			x, y, ok := st.floor.place(v.Length, v.Width)
			if !ok {
				continue
			}
			st.boxes = append(st.boxes, placeBox(c.unit, v, x, y, z, 1))
			used[c.unit.UID] = true
			if v.Height > maxHeight {
				maxHeight = v.Height
			}
			break
		}
	}
	if len(st.boxes) == 0 {
		return LayerResult{Remaining: units}
	}

	st.height = layerHeight
	if maxHeight > st.height {
		st.height = maxHeight
	}

	remaining := withoutUIDs(units, used)
	if p.settings.AllowStackingInLayer {
		remaining = p.stack(st, remaining)
	}

	return LayerResult{
		Boxes:     dedupeBoxes(st.boxes),
		Height:    st.height,
		Remaining: remaining,
	}
}

func placeBox(u model.Unit, v Variant, x, y, z, level int) model.PlacedBox {
	return model.PlacedBox{
		X:          x,
		Y:          y,
		Z:          z,
		Length:     v.Length,
		Width:      v.Width,
		Height:     v.Height,
		ItemID:     u.ItemID,
		UID:        u.UID,
		Rotated:    v.Rotated,
		Stacked:    level > 1,
		StackLevel: level,
	}
}

// withoutUIDs returns the units whose uid is not in used, preserving order.
func withoutUIDs(units []model.Unit, used map[string]bool) []model.Unit {
	out := make([]model.Unit, 0, len(units))
	for _, u := range units {
		if !used[u.UID] {
			out = append(out, u)
		}
	}
	return out
}

func dedupeBoxes(boxes []model.PlacedBox) []model.PlacedBox {
	seen := make(map[string]bool, len(boxes))
	out := boxes[:0]
	for _, b := range boxes {
		if seen[b.UID] {
			continue
		}
		seen[b.UID] = true
		out = append(out, b)
	}
	return out
}
