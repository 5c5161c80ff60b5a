package model

import (
	"strings"

	"github.com/google/uuid"
)

// ContainerPreset is a named container type with its inner dimensions.
type ContainerPreset struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Aliases    []string      `json:"aliases,omitempty"` // Short names accepted on the command line
	Size       ContainerSize `json:"size"`
	MaxPayload int           `json:"max_payload_kg,omitempty"`
}

// NewContainerPreset creates a new ContainerPreset with a generated ID.
func NewContainerPreset(name string, l, w, h, payload int, aliases ...string) ContainerPreset {
	return ContainerPreset{
		ID:         uuid.New().String()[:8],
		Name:       name,
		Aliases:    aliases,
		Size:       ContainerSize{Length: l, Width: w, Height: h},
		MaxPayload: payload,
	}
}

// Catalog holds the user's saved container types.
type Catalog struct {
	Containers []ContainerPreset `json:"containers"`
}

// DefaultCatalog returns the common ISO container types with typical
// inner dimensions.
func DefaultCatalog() Catalog {
	return Catalog{
		Containers: []ContainerPreset{
			NewContainerPreset("20' Standard", 5898, 2352, 2393, 28200, "20ft", "20gp"),
			NewContainerPreset("40' Standard", 12032, 2352, 2393, 26700, "40ft", "40gp"),
			NewContainerPreset("40' High Cube", 12032, 2352, 2698, 26460, "40hc"),
			NewContainerPreset("45' High Cube", 13556, 2352, 2698, 27700, "45hc"),
			NewContainerPreset("20' Reefer", 5444, 2294, 2276, 27400, "20rf"),
			NewContainerPreset("40' Reefer High Cube", 11583, 2294, 2550, 29520, "40rf"),
		},
	}
}

// Find returns the preset whose ID, name or alias matches, ignoring case, or nil.
func (c *Catalog) Find(key string) *ContainerPreset {
	for i := range c.Containers {
		p := &c.Containers[i]
		if strings.EqualFold(p.ID, key) || strings.EqualFold(p.Name, key) {
			return p
		}
		for _, a := range p.Aliases {
			if strings.EqualFold(a, key) {
				return p
			}
		}
	}
	return nil
}

// Names returns the preset names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Containers))
	for i, p := range c.Containers {
		names[i] = p.Name
	}
	return names
}

// Merge appends presets from other whose IDs are not already present.
func (c *Catalog) Merge(other Catalog) {
	ids := make(map[string]bool, len(c.Containers))
	for _, p := range c.Containers {
		ids[p.ID] = true
	}
	for _, p := range other.Containers {
		if !ids[p.ID] {
			c.Containers = append(c.Containers, p)
			ids[p.ID] = true
		}
	}
}
