package model

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out unit identities. Implementations must never return
// the same value twice.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues "<prefix><n>" identities from a monotonic counter.
// It is safe for concurrent use.
type SequenceGenerator struct {
	Prefix string
	next   atomic.Uint64
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s%d", g.Prefix, g.next.Add(1))
}

// ExpandItems fans items out into one Unit per physical piece.
// Items with a non-positive quantity contribute nothing.
func ExpandItems(items []Item, ids IDGenerator) []Unit {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	var units []Unit
	for _, it := range items {
		for i := 0; i < it.Quantity; i++ {
			units = append(units, Unit{
				UID:       ids.NewID(),
				ItemID:    it.ID,
				Length:    it.Length,
				Width:     it.Width,
				Height:    it.Height,
				Rotatable: it.Rotatable,
			})
		}
	}
	return units
}

// CloneUnits returns an independent copy of a unit slice.
func CloneUnits(units []Unit) []Unit {
	if units == nil {
		return nil
	}
	cp := make([]Unit, len(units))
	copy(cp, units)
	return cp
}
