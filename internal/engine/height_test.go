package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CargoStack/internal/model"
)

func unitsWithHeights(heights ...int) []model.Unit {
	units := make([]model.Unit, len(heights))
	for i, h := range heights {
		units[i] = model.Unit{UID: string(rune('a' + i)), ItemID: "X", Length: 100, Width: 100, Height: h, Rotatable: true}
	}
	return units
}

func TestSelectLayerHeight_UniformHeights(t *testing.T) {
	h, ok := SelectLayerHeight(unitsWithHeights(220, 220, 220, 220), 2610)
	require.True(t, ok)
	assert.Equal(t, 220, h)
}

func TestSelectLayerHeight_TallDominates(t *testing.T) {
	// p70 = 200, p30 = 100: tall {200, 300} outnumbers short {100}
	h, ok := SelectLayerHeight(unitsWithHeights(100, 100, 100, 200, 300), 1000)
	require.True(t, ok)
	assert.Equal(t, 200, h)
}

func TestSelectLayerHeight_ShortDominates(t *testing.T) {
	// p70 = 50, p30 = 30: short {10, 20, 30} outnumbers tall {50}
	h, ok := SelectLayerHeight(unitsWithHeights(10, 20, 30, 40, 50, 50, 50, 50, 50, 50), 1000)
	require.True(t, ok)
	assert.Equal(t, 30, h)
}

func TestSelectLayerHeight_TieUsesMode(t *testing.T) {
	h, ok := SelectLayerHeight(unitsWithHeights(100, 100, 200), 1000)
	require.True(t, ok)
	assert.Equal(t, 100, h)
}

func TestSelectLayerHeight_IgnoresUnitsAboveRemaining(t *testing.T) {
	h, ok := SelectLayerHeight(unitsWithHeights(300, 300, 100), 200)
	require.True(t, ok)
	assert.Equal(t, 100, h)
}

func TestSelectLayerHeight_NothingFits(t *testing.T) {
	_, ok := SelectLayerHeight(unitsWithHeights(300, 400), 200)
	assert.False(t, ok)

	_, ok = SelectLayerHeight(nil, 200)
	assert.False(t, ok)
}

func TestSelectLayerHeight_OrderIndependent(t *testing.T) {
	units := unitsWithHeights(120, 80, 300, 80, 150, 220, 220, 90, 300, 45)
	want, _ := SelectLayerHeight(units, 2000)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(units), func(a, b int) { units[a], units[b] = units[b], units[a] })
		got, ok := SelectLayerHeight(units, 2000)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestSmallerHeights_TallestFirst(t *testing.T) {
	got := smallerHeights(unitsWithHeights(50, 200, 100, 100, 300), 250, 200)
	assert.Equal(t, []int{100, 50}, got)
}
