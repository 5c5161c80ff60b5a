package engine

import (
	"sort"

	"github.com/piwi3910/CargoStack/internal/model"
)

// Variant is one axis-aligned orientation of a unit.
type Variant struct {
	Length  int
	Width   int
	Height  int
	Rotated bool
}

// Area returns the footprint of the orientation.
func (v Variant) Area() int64 {
	return int64(v.Length) * int64(v.Width)
}

// permutations returns the six assignments of (l, w, h) to the three axes,
// identity first.
func permutations(l, w, h int) [6][3]int {
	return [6][3]int{
		{l, w, h},
		{l, h, w},
		{w, l, h},
		{h, l, w},
		{w, h, l},
		{h, w, l},
	}
}

// Variants returns the orientations of u that fit within envL x envW and
// are no taller than ceiling, largest footprint first. Without rotation
// only the identity orientation is considered. Orientations that repeat an
// earlier triple are dropped.
func Variants(u model.Unit, envL, envW, ceiling int, allowRotation bool) []Variant {
	perms := permutations(u.Length, u.Width, u.Height)
	n := len(perms)
	if !allowRotation {
		n = 1
	}

	out := make([]Variant, 0, n)
	seen := make(map[[3]int]bool, n)
	for i := 0; i < n; i++ {
		p := perms[i]
		if seen[p] {
			continue
		}
		seen[p] = true
		if p[0] > envL || p[1] > envW || p[2] > ceiling {
			continue
		}
		out = append(out, Variant{Length: p[0], Width: p[1], Height: p[2], Rotated: i != 0})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Area() > out[j].Area()
	})
	return out
}

// fitsAny reports whether u has at least one orientation inside the envelope.
func fitsAny(u model.Unit, envL, envW, ceiling int, allowRotation bool) bool {
	return len(Variants(u, envL, envW, ceiling, allowRotation)) > 0
}
