package model

import "time"

// Item is one line of the cargo list: a box size with a quantity.
type Item struct {
	ID        string `json:"id"`        // Item identifier shared by every unit of this line
	Length    int    `json:"length"`    // mm
	Width     int    `json:"width"`     // mm
	Height    int    `json:"height"`    // mm
	Quantity  int    `json:"quantity"`  // Number of physical pieces
	Rotatable bool   `json:"rotatable"` // Whether the piece may be turned onto another face
}

func NewItem(id string, l, w, h, qty int) Item {
	return Item{
		ID:        id,
		Length:    l,
		Width:     w,
		Height:    h,
		Quantity:  qty,
		Rotatable: true,
	}
}

// Volume returns the volume of a single piece in mm³.
func (it Item) Volume() int64 {
	return int64(it.Length) * int64(it.Width) * int64(it.Height)
}

// Unit is a single physical piece produced by expanding an Item by quantity.
type Unit struct {
	UID       string `json:"uid"`     // Per-instance identity, unique within a run
	ItemID    string `json:"item_id"` // Identifier of the originating Item
	Length    int    `json:"length"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Rotatable bool   `json:"rotatable"`
}

// Volume returns the unit volume in mm³.
func (u Unit) Volume() int64 {
	return int64(u.Length) * int64(u.Width) * int64(u.Height)
}

// Footprint returns the floor area the unit covers in its current orientation.
func (u Unit) Footprint() int64 {
	return int64(u.Length) * int64(u.Width)
}

// PlacedBox is a unit positioned inside a container.
// X runs along the container length, Y along its width, Z upwards.
type PlacedBox struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Z          int    `json:"z"`
	Length     int    `json:"length"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ItemID     string `json:"item_id"`
	UID        string `json:"uid"`
	Rotated    bool   `json:"rotated"`     // Oriented differently from the item's listed L/W/H
	Stacked    bool   `json:"stacked"`     // Placed in the headroom above a shorter base box
	StackLevel int    `json:"stack_level"` // 1 for floor boxes of a layer, 2+ for stacked tiers
}

// Volume returns the box volume in mm³.
func (b PlacedBox) Volume() int64 {
	return int64(b.Length) * int64(b.Width) * int64(b.Height)
}

// Footprint returns the box's floor area.
func (b PlacedBox) Footprint() int64 {
	return int64(b.Length) * int64(b.Width)
}

// Top returns the z coordinate of the box's upper face.
func (b PlacedBox) Top() int {
	return b.Z + b.Height
}

// Layer is a horizontal slab of a container.
type Layer struct {
	Name   string      `json:"name"`
	Z      int         `json:"z"`      // Base elevation (mm)
	Height int         `json:"height"` // Slab thickness (mm)
	Boxes  []PlacedBox `json:"boxes"`
}

// Top returns the elevation of the layer's ceiling.
func (l Layer) Top() int {
	return l.Z + l.Height
}

// UsedVolume returns the total volume of the boxes in the layer.
func (l Layer) UsedVolume() int64 {
	var total int64
	for _, b := range l.Boxes {
		total += b.Volume()
	}
	return total
}

// ContainerSize is the inner envelope of a container in mm.
type ContainerSize struct {
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Volume returns the container volume in mm³.
func (c ContainerSize) Volume() int64 {
	return int64(c.Length) * int64(c.Width) * int64(c.Height)
}

// Container is one loaded container of a plan.
type Container struct {
	Name         string        `json:"name"`
	Layers       []Layer       `json:"layers"`
	PackedCount  int           `json:"packed_count"`
	PackedVolume int64         `json:"packed_volume"`
	Strategy     string        `json:"strategy,omitempty"`
	Elapsed      time.Duration `json:"elapsed,omitempty"`
	BestStrategy string        `json:"best_strategy,omitempty"`
}

// Boxes returns every placed box of the container in layer order.
func (c Container) Boxes() []PlacedBox {
	var boxes []PlacedBox
	for _, l := range c.Layers {
		boxes = append(boxes, l.Boxes...)
	}
	return boxes
}

// Recount refreshes PackedCount and PackedVolume from the layers.
func (c *Container) Recount() {
	c.PackedCount = 0
	c.PackedVolume = 0
	for _, l := range c.Layers {
		c.PackedCount += len(l.Boxes)
		c.PackedVolume += l.UsedVolume()
	}
}

// Utilization returns the used volume percentage for the given envelope.
func (c Container) Utilization(size ContainerSize) float64 {
	v := size.Volume()
	if v == 0 {
		return 0
	}
	return float64(c.PackedVolume) / float64(v) * 100.0
}

// Clone returns a deep copy of the container.
func (c Container) Clone() Container {
	cp := c
	cp.Layers = make([]Layer, len(c.Layers))
	for i, l := range c.Layers {
		cp.Layers[i] = l
		cp.Layers[i].Boxes = append([]PlacedBox(nil), l.Boxes...)
	}
	return cp
}

// StrategyScore records how one strategy performed in a multi-strategy run.
type StrategyScore struct {
	Name       string        `json:"name"`
	Score      float64       `json:"score"`
	Containers int           `json:"containers"`
	Packed     int           `json:"packed"`
	Elapsed    time.Duration `json:"elapsed"`
	Err        string        `json:"error,omitempty"` // Set when the strategy failed
}

// Failed reports whether the strategy failed to produce a usable result.
func (s StrategyScore) Failed() bool {
	return s.Err != ""
}

// RotationAdvice describes an item type that would fit better turned onto another face.
type RotationAdvice struct {
	ItemID          string  `json:"item_id"`
	Original        [3]int  `json:"original"`         // L, W, H as listed
	BestOrientation [3]int  `json:"best_orientation"` // L, W, H maximizing the estimate
	OriginalCount   int     `json:"original_count"`
	BestCount       int     `json:"best_count"`
	Improvement     float64 `json:"improvement"` // Percent
	Quantity        int     `json:"quantity"`
}

// RotationReport is the advisory output of the rotation analyzer.
type RotationReport struct {
	Improved       []RotationAdvice `json:"improved"`
	ImprovedTypes  int              `json:"improved_types"`
	ImprovedUnits  int              `json:"improved_units"`
	AvgImprovement float64          `json:"avg_improvement"`
}

// PackResult holds the full solution.
type PackResult struct {
	Size         ContainerSize   `json:"size"`
	Containers   []Container     `json:"containers"`
	Unplaced     []Unit          `json:"unplaced"`
	BestStrategy string          `json:"best_strategy"`
	Scores       []StrategyScore `json:"scores,omitempty"`
	Rotation     RotationReport  `json:"rotation"`
}

// PackedCount returns the number of boxes across all containers.
func (r PackResult) PackedCount() int {
	n := 0
	for _, c := range r.Containers {
		n += c.PackedCount
	}
	return n
}

// TotalUtilization returns overall volume usage percentage.
func (r PackResult) TotalUtilization() float64 {
	if len(r.Containers) == 0 {
		return 0
	}
	var used int64
	for _, c := range r.Containers {
		used += c.PackedVolume
	}
	total := r.Size.Volume() * int64(len(r.Containers))
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100.0
}

// Plan ties everything together for save/load.
type Plan struct {
	Name     string        `json:"name"`
	Items    []Item        `json:"items"`
	Size     ContainerSize `json:"size"`
	Settings PackSettings  `json:"settings"`
	Result   *PackResult   `json:"result,omitempty"`
}

func NewPlan() Plan {
	return Plan{
		Name:     "Untitled",
		Items:    []Item{},
		Size:     ContainerSize{Length: 12000, Width: 2340, Height: 2610},
		Settings: DefaultSettings(),
	}
}
