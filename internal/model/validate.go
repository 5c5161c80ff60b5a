package model

import (
	"errors"
	"fmt"
)

var (
	ErrOverlap      = errors.New("boxes overlap")
	ErrOutOfBounds  = errors.New("box outside container")
	ErrDuplicateUID = errors.New("duplicate box uid")
)

// intervalsOverlap reports whether [a0,a1) and [b0,b1) share interior points.
// Touching intervals do not overlap.
func intervalsOverlap(a0, a1, b0, b1 int) bool {
	return a0 < b1 && b0 < a1
}

// BoxesOverlap reports whether two boxes share volume.
func BoxesOverlap(a, b PlacedBox) bool {
	return intervalsOverlap(a.X, a.X+a.Length, b.X, b.X+b.Length) &&
		intervalsOverlap(a.Y, a.Y+a.Width, b.Y, b.Y+b.Width) &&
		intervalsOverlap(a.Z, a.Z+a.Height, b.Z, b.Z+b.Height)
}

// FootprintsOverlap reports whether the floor projections of two boxes overlap.
func FootprintsOverlap(a, b PlacedBox) bool {
	return intervalsOverlap(a.X, a.X+a.Length, b.X, b.X+b.Length) &&
		intervalsOverlap(a.Y, a.Y+a.Width, b.Y, b.Y+b.Width)
}

// InBounds reports whether the box lies fully inside the envelope.
func (c ContainerSize) InBounds(b PlacedBox) bool {
	return b.X >= 0 && b.Y >= 0 && b.Z >= 0 &&
		b.X+b.Length <= c.Length &&
		b.Y+b.Width <= c.Width &&
		b.Z+b.Height <= c.Height
}

// ValidateContainer checks bounds, pairwise overlap and uid uniqueness
// for every box of the container.
func ValidateContainer(c Container, size ContainerSize) error {
	boxes := c.Boxes()
	seen := make(map[string]bool, len(boxes))
	for _, b := range boxes {
		if !size.InBounds(b) {
			return fmt.Errorf("%s: %s at (%d,%d,%d): %w", c.Name, b.UID, b.X, b.Y, b.Z, ErrOutOfBounds)
		}
		if seen[b.UID] {
			return fmt.Errorf("%s: %s: %w", c.Name, b.UID, ErrDuplicateUID)
		}
		seen[b.UID] = true
	}
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if BoxesOverlap(boxes[i], boxes[j]) {
				return fmt.Errorf("%s: %s and %s: %w", c.Name, boxes[i].UID, boxes[j].UID, ErrOverlap)
			}
		}
	}
	return nil
}

// ValidatePlan validates every container and checks that no uid appears in
// more than one container.
func ValidatePlan(containers []Container, size ContainerSize) error {
	seen := make(map[string]string)
	for _, c := range containers {
		if err := ValidateContainer(c, size); err != nil {
			return err
		}
		for _, b := range c.Boxes() {
			if other, ok := seen[b.UID]; ok {
				return fmt.Errorf("%s in %s and %s: %w", b.UID, other, c.Name, ErrDuplicateUID)
			}
			seen[b.UID] = c.Name
		}
	}
	return nil
}
