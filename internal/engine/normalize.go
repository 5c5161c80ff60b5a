package engine

import "github.com/piwi3910/CargoStack/internal/model"

// DefaultDimensionTolerance is the grouping tolerance in mm.
const DefaultDimensionTolerance = 5

// sizeGroup is a canonical size shared by near-identical units of one item.
type sizeGroup struct {
	itemID    string
	rotatable bool
	dims      [3]int
}

func withinTolerance(a, b [3]int, tol int) bool {
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > tol {
			return false
		}
	}
	return true
}

// matches reports whether the unit belongs to the group, either as listed
// or, when it may rotate, in any axis permutation.
func (g sizeGroup) matches(u model.Unit, tol int, allowRotation bool) bool {
	if u.ItemID != g.itemID || u.Rotatable != g.rotatable {
		return false
	}
	if withinTolerance([3]int{u.Length, u.Width, u.Height}, g.dims, tol) {
		return true
	}
	if !allowRotation || !u.Rotatable {
		return false
	}
	for _, p := range permutations(u.Length, u.Width, u.Height) {
		if withinTolerance(p, g.dims, tol) {
			return true
		}
	}
	return false
}

// Normalize snaps units of the same item whose sizes differ by at most tol
// millimetres on every axis to one canonical size. The first unit seen
// defines a group's size. Length, order and uids are preserved.
func Normalize(units []model.Unit, tol int, allowRotation bool) []model.Unit {
	if len(units) == 0 {
		return units
	}
	if tol < 0 {
		tol = 0
	}

	var groups []sizeGroup
	out := make([]model.Unit, len(units))
	for i, u := range units {
		out[i] = u
		matched := false
		for _, g := range groups {
			if g.matches(u, tol, allowRotation) {
				out[i].Length, out[i].Width, out[i].Height = g.dims[0], g.dims[1], g.dims[2]
				matched = true
				break
			}
		}
		if !matched {
			groups = append(groups, sizeGroup{
				itemID:    u.ItemID,
				rotatable: u.Rotatable,
				dims:      [3]int{u.Length, u.Width, u.Height},
			})
		}
	}
	return out
}
