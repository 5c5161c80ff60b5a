package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/CargoStack/internal/model"
)

// heightPicker chooses the height of the next layer.
type heightPicker interface {
	pick(units []model.Unit, remaining int) (int, bool)
}

// heuristicHeights uses SelectLayerHeight for every layer.
type heuristicHeights struct{}

func (heuristicHeights) pick(units []model.Unit, remaining int) (int, bool) {
	return SelectLayerHeight(units, remaining)
}

// packer carries the configuration shared by the layer, container and
// multi-container passes of one run.
type packer struct {
	settings model.PackSettings
	size     model.ContainerSize
	heights  heightPicker
}

func newPacker(settings model.PackSettings, size model.ContainerSize) *packer {
	return &packer{settings: settings, size: size, heights: heuristicHeights{}}
}

// PackContainer fills a single container layer by layer from the floor up.
// It returns the layers and the units that did not fit.
func PackContainer(settings model.PackSettings, size model.ContainerSize, units []model.Unit) ([]model.Layer, []model.Unit) {
	return newPacker(settings, size).packContainer(units)
}

func (p *packer) packContainer(units []model.Unit) ([]model.Layer, []model.Unit) {
	var layers []model.Layer
	remaining := units
	z := 0
	for len(remaining) > 0 && z < p.size.Height && len(layers) < p.settings.MaxLayers {
		room := p.size.Height - z
		var res LayerResult
		h, ok := p.heights.pick(remaining, room)
		if ok {
			res = p.buildLayer(remaining, h, z)
		} else {
			h = 0
		}
		if len(res.Boxes) == 0 {
			for _, alt := range p.fallbackHeights(remaining, room, h) {
				res = p.buildLayer(remaining, alt, z)
				if len(res.Boxes) > 0 {
					break
				}
			}
		}
		if len(res.Boxes) == 0 || res.Height <= 0 {
			break
		}

		layers = append(layers, model.Layer{
			Name:   fmt.Sprintf("Layer %d", len(layers)+1),
			Z:      z,
			Height: res.Height,
			Boxes:  res.Boxes,
		})
		remaining = res.Remaining
		z += res.Height
	}
	return layers, remaining
}

// fallbackHeights lists the heights to retry when a layer of height h
// stays empty: the smaller candidate heights tallest first, then the taller
// heights that units only reach when stood on another face, shortest first.
func (p *packer) fallbackHeights(units []model.Unit, room, h int) []int {
	out := smallerHeights(units, room, h)
	seen := make(map[int]bool)
	var taller []int
	for _, u := range units {
		for _, v := range Variants(u, p.size.Length, p.size.Width, room, p.settings.CanRotate(u)) {
			if v.Height > h && !seen[v.Height] {
				seen[v.Height] = true
				taller = append(taller, v.Height)
			}
		}
	}
	sort.Ints(taller)
	return append(out, taller...)
}

// PackAll opens containers one after another until every unit is placed,
// the container cap is reached or a fresh container packs nothing.
func PackAll(settings model.PackSettings, size model.ContainerSize, units []model.Unit) ([]model.Container, []model.Unit) {
	return newPacker(settings, size).packAll(units)
}

func (p *packer) packAll(units []model.Unit) ([]model.Container, []model.Unit) {
	var containers []model.Container
	remaining := units
	for len(remaining) > 0 && len(containers) < p.settings.MaxContainers {
		layers, rest := p.packContainer(remaining)
		if len(layers) == 0 {
			break
		}
		c := model.Container{Name: containerName(len(containers) + 1), Layers: layers}
		c.Recount()
		containers = append(containers, c)
		remaining = rest
	}
	return containers, remaining
}

func containerName(n int) string {
	return fmt.Sprintf("Container %02d", n)
}
