package model

import "fmt"

// StackStrategy selects how the headroom above short boxes is filled.
type StackStrategy string

const (
	StackLayerLocal2D StackStrategy = "layer-local-2d" // Shelf-pack a mini layer on each base's top face
	StackSameSpot     StackStrategy = "same-spot"      // Column of units directly on the base
	StackSeparate     StackStrategy = "separate"       // Probe positions next to the base
)

// StackStrategies lists every recognized strategy in declaration order.
var StackStrategies = []StackStrategy{StackLayerLocal2D, StackSameSpot, StackSeparate}

// ParseStackStrategy converts a name to a StackStrategy.
// Underscore spellings such as "2d_packing" and "same_spot" are accepted.
func ParseStackStrategy(s string) (StackStrategy, error) {
	switch s {
	case string(StackLayerLocal2D), "2d_packing", "2d":
		return StackLayerLocal2D, nil
	case string(StackSameSpot), "same_spot":
		return StackSameSpot, nil
	case string(StackSeparate):
		return StackSeparate, nil
	default:
		return "", fmt.Errorf("unknown stack strategy %q", s)
	}
}

// PackSettings holds the packing engine configuration.
// It is passed by value into every engine entry point.
type PackSettings struct {
	AllowRotation        bool          `json:"allow_rotation"`          // Global rotation switch, combined with Item.Rotatable
	GroupSimilar         bool          `json:"group_similar"`           // Snap near-identical sizes of the same item together
	DimensionTolerance   int           `json:"dimension_tolerance"`     // mm, used by grouping
	AllowStackingInLayer bool          `json:"allow_stacking_in_layer"` // Fill headroom above short boxes
	StackStrategy        StackStrategy `json:"stack_strategy"`
	AllowHeightTolerance bool          `json:"allow_height_tolerance"` // Admit boxes slightly taller than the layer
	HeightTolerance      int           `json:"height_tolerance"`       // mm
	UseMultiStrategy     bool          `json:"use_multi_strategy"`     // Run every strategy and keep the best
	MaxContainers        int           `json:"max_containers"`
	MaxLayers            int           `json:"max_layers"` // Per container
}

func DefaultSettings() PackSettings {
	return PackSettings{
		AllowRotation:        true,
		GroupSimilar:         true,
		DimensionTolerance:   5,
		AllowStackingInLayer: false,
		StackStrategy:        StackSameSpot,
		AllowHeightTolerance: false,
		HeightTolerance:      10,
		UseMultiStrategy:     true,
		MaxContainers:        100,
		MaxLayers:            200,
	}
}

// Validate checks the settings for values the engine cannot work with.
func (s PackSettings) Validate() error {
	if _, err := ParseStackStrategy(string(s.StackStrategy)); err != nil {
		return err
	}
	if s.DimensionTolerance < 0 {
		return fmt.Errorf("dimension tolerance must not be negative, got %d", s.DimensionTolerance)
	}
	if s.HeightTolerance < 0 {
		return fmt.Errorf("height tolerance must not be negative, got %d", s.HeightTolerance)
	}
	if s.MaxContainers <= 0 || s.MaxLayers <= 0 {
		return fmt.Errorf("container and layer caps must be positive")
	}
	return nil
}

// CanRotate reports whether the unit may be placed in a non-identity orientation.
func (s PackSettings) CanRotate(u Unit) bool {
	return s.AllowRotation && u.Rotatable
}

// Tolerance returns the effective height tolerance in mm.
func (s PackSettings) Tolerance() int {
	if !s.AllowHeightTolerance {
		return 0
	}
	return s.HeightTolerance
}
