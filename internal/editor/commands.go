package editor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/piwi3910/CargoStack/internal/model"
)

var (
	ErrNoContainer = errors.New("no such container")
	ErrNoLayer     = errors.New("no such layer")
	ErrNoBox       = errors.New("no such box")
)

// Command is a reversible edit of a packing result. Apply either changes
// the result and returns the command that reverts the change, or returns
// an error and leaves the result untouched.
type Command interface {
	Apply(r *model.PackResult) (inverse Command, err error)
	Label() string
}

// BoxRef addresses one placed box.
type BoxRef struct {
	Container int    // Index into PackResult.Containers
	Layer     int    // Index into Container.Layers
	UID       string // Box identity within that layer
}

func (ref BoxRef) String() string {
	return fmt.Sprintf("%s in container %d layer %d", ref.UID, ref.Container+1, ref.Layer+1)
}

func layerAt(r *model.PackResult, container, layer int) (*model.Layer, error) {
	if container < 0 || container >= len(r.Containers) {
		return nil, fmt.Errorf("container %d: %w", container+1, ErrNoContainer)
	}
	c := &r.Containers[container]
	if layer < 0 || layer >= len(c.Layers) {
		return nil, fmt.Errorf("%s layer %d: %w", c.Name, layer+1, ErrNoLayer)
	}
	return &c.Layers[layer], nil
}

// locate returns the layer holding ref and the box's index in it.
func locate(r *model.PackResult, ref BoxRef) (*model.Layer, int, error) {
	l, err := layerAt(r, ref.Container, ref.Layer)
	if err != nil {
		return nil, 0, err
	}
	for i := range l.Boxes {
		if l.Boxes[i].UID == ref.UID {
			return l, i, nil
		}
	}
	return nil, 0, fmt.Errorf("%s: %w", ref, ErrNoBox)
}

// MoveBox repositions a box inside its layer.
type MoveBox struct {
	Box     BoxRef
	X, Y, Z int
}

func (c MoveBox) Label() string { return "Move " + c.Box.UID }

func (c MoveBox) Apply(r *model.PackResult) (Command, error) {
	l, i, err := locate(r, c.Box)
	if err != nil {
		return nil, err
	}
	b := &l.Boxes[i]
	inverse := MoveBox{Box: c.Box, X: b.X, Y: b.Y, Z: b.Z}
	b.X, b.Y, b.Z = c.X, c.Y, c.Z
	return inverse, nil
}

// RotateBox turns a box a quarter turn about the vertical axis, swapping
// its length and width. Its corner stays in place.
type RotateBox struct {
	Box BoxRef
}

func (c RotateBox) Label() string { return "Rotate " + c.Box.UID }

func (c RotateBox) Apply(r *model.PackResult) (Command, error) {
	l, i, err := locate(r, c.Box)
	if err != nil {
		return nil, err
	}
	b := &l.Boxes[i]
	b.Length, b.Width = b.Width, b.Length
	b.Rotated = !b.Rotated
	return c, nil
}

// ShiftLayer moves a layer and all of its boxes vertically by DZ.
type ShiftLayer struct {
	Container int
	Layer     int
	DZ        int
}

func (c ShiftLayer) Label() string { return fmt.Sprintf("Shift layer %d", c.Layer+1) }

func (c ShiftLayer) Apply(r *model.PackResult) (Command, error) {
	l, err := layerAt(r, c.Container, c.Layer)
	if err != nil {
		return nil, err
	}
	l.Z += c.DZ
	for i := range l.Boxes {
		l.Boxes[i].Z += c.DZ
	}
	return ShiftLayer{Container: c.Container, Layer: c.Layer, DZ: -c.DZ}, nil
}

// TransferBox moves a box to another layer, possibly in another container,
// placing it at X, Y, Z there.
type TransferBox struct {
	Box         BoxRef
	ToContainer int
	ToLayer     int
	X, Y, Z     int

	at int // Insert position in the target layer, set only for inverses
}

func (c TransferBox) Label() string { return "Transfer " + c.Box.UID }

func (c TransferBox) Apply(r *model.PackResult) (Command, error) {
	src, i, err := locate(r, c.Box)
	if err != nil {
		return nil, err
	}
	dst, err := layerAt(r, c.ToContainer, c.ToLayer)
	if err != nil {
		return nil, err
	}

	b := src.Boxes[i]
	inverse := TransferBox{
		Box:         BoxRef{Container: c.ToContainer, Layer: c.ToLayer, UID: b.UID},
		ToContainer: c.Box.Container,
		ToLayer:     c.Box.Layer,
		X:           b.X,
		Y:           b.Y,
		Z:           b.Z,
		at:          i + 1,
	}

	src.Boxes = append(src.Boxes[:i:i], src.Boxes[i+1:]...)
	b.X, b.Y, b.Z = c.X, c.Y, c.Z
	if c.at > 0 && c.at-1 <= len(dst.Boxes) {
		pos := c.at - 1
		dst.Boxes = append(dst.Boxes[:pos:pos], append([]model.PlacedBox{b}, dst.Boxes[pos:]...)...)
	} else {
		dst.Boxes = append(dst.Boxes, b)
	}

	r.Containers[c.Box.Container].Recount()
	r.Containers[c.ToContainer].Recount()
	return inverse, nil
}

// ReorderLayers sorts a container's layers by elevation and restacks them
// contiguously from the floor, renumbering their names.
type ReorderLayers struct {
	Container int
}

func (c ReorderLayers) Label() string { return fmt.Sprintf("Reorder layers of container %d", c.Container+1) }

func (c ReorderLayers) Apply(r *model.PackResult) (Command, error) {
	if c.Container < 0 || c.Container >= len(r.Containers) {
		return nil, fmt.Errorf("container %d: %w", c.Container+1, ErrNoContainer)
	}
	layers := r.Containers[c.Container].Layers

	perm := make([]int, len(layers))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return layers[perm[a]].Z < layers[perm[b]].Z
	})

	order := layerOrder{Container: c.Container, perm: perm}
	z := 0
	for i, src := range perm {
		order.z = append(order.z, z)
		order.names = append(order.names, fmt.Sprintf("Layer %d", i+1))
		z += layers[src].Height
	}
	return order.Apply(r)
}

// layerOrder rearranges a container's layers: new layer i is old layer
// perm[i], moved to elevation z[i] and renamed names[i].
type layerOrder struct {
	Container int
	perm      []int
	z         []int
	names     []string
}

func (c layerOrder) Label() string { return fmt.Sprintf("Restore layers of container %d", c.Container+1) }

func (c layerOrder) Apply(r *model.PackResult) (Command, error) {
	if c.Container < 0 || c.Container >= len(r.Containers) {
		return nil, fmt.Errorf("container %d: %w", c.Container+1, ErrNoContainer)
	}
	old := r.Containers[c.Container].Layers
	if len(c.perm) != len(old) {
		return nil, fmt.Errorf("layer order covers %d of %d layers: %w", len(c.perm), len(old), ErrNoLayer)
	}

	inverse := layerOrder{
		Container: c.Container,
		perm:      make([]int, len(old)),
		z:         make([]int, len(old)),
		names:     make([]string, len(old)),
	}
	next := make([]model.Layer, len(old))
	for i, src := range c.perm {
		l := old[src]
		dz := c.z[i] - l.Z
		inverse.perm[src] = i
		inverse.z[src] = l.Z
		inverse.names[src] = l.Name

		l.Z = c.z[i]
		l.Name = c.names[i]
		l.Boxes = append([]model.PlacedBox(nil), l.Boxes...)
		for j := range l.Boxes {
			l.Boxes[j].Z += dz
		}
		next[i] = l
	}
	r.Containers[c.Container].Layers = next
	return inverse, nil
}
