package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CargoStack/internal/model"
)

func TestPackContainer_LayersFromTheFloorUp(t *testing.T) {
	units := expand(t, model.NewItem("BEAM", 2990, 330, 220, 100))

	layers, rest := PackContainer(model.DefaultSettings(), standardContainer, units)

	require.Len(t, layers, 4)
	assert.Empty(t, rest)
	wantCounts := []int{28, 28, 28, 16}
	for i, l := range layers {
		assert.Equal(t, i*220, l.Z)
		assert.Equal(t, 220, l.Height)
		assert.Len(t, l.Boxes, wantCounts[i])
		assert.Equal(t, "Layer "+string(rune('1'+i)), l.Name)
		for _, b := range l.Boxes {
			assert.Equal(t, l.Z, b.Z)
		}
	}
}

func TestPackContainer_StandsUnitsOnEndWhenNeeded(t *testing.T) {
	size := model.ContainerSize{Length: 1000, Width: 1000, Height: 2500}
	units := expand(t, model.NewItem("POLE", 2000, 100, 50, 2))

	layers, rest := PackContainer(model.DefaultSettings(), size, units)

	require.Len(t, layers, 1)
	assert.Empty(t, rest)
	assert.Equal(t, 2000, layers[0].Height)
	for _, b := range layers[0].Boxes {
		assert.True(t, b.Rotated)
		assert.Equal(t, 2000, b.Height)
	}
}

func TestPackContainer_RetriesWhenSelectedHeightPlacesNothing(t *testing.T) {
	size := model.ContainerSize{Length: 1000, Width: 1000, Height: 1700}
	units := expand(t,
		model.NewItem("POLE", 1200, 100, 300, 2),
		fixedItem("CRATE", 1000, 1000, 400, 1),
	)
	h, ok := SelectLayerHeight(units, size.Height)
	require.True(t, ok)
	require.Equal(t, 300, h, "the poles only fit stood on end, so nothing lies flat at 300")

	layers, rest := PackContainer(model.DefaultSettings(), size, units)

	require.Len(t, layers, 2)
	assert.Empty(t, rest)

	assert.Equal(t, 0, layers[0].Z)
	assert.Equal(t, 400, layers[0].Height)
	require.Len(t, layers[0].Boxes, 1)
	assert.Equal(t, "CRATE", layers[0].Boxes[0].ItemID)

	assert.Equal(t, 400, layers[1].Z)
	assert.Equal(t, 1200, layers[1].Height)
	require.Len(t, layers[1].Boxes, 2)
	for _, b := range layers[1].Boxes {
		assert.Equal(t, "POLE", b.ItemID)
		assert.Equal(t, 1200, b.Height)
	}
	assert.NoError(t, model.ValidateContainer(model.Container{Name: "c", Layers: layers}, size))
}

func TestFallbackHeights_SmallerThenTaller(t *testing.T) {
	size := model.ContainerSize{Length: 1000, Width: 1000, Height: 1500}
	units := expand(t,
		fixedItem("FLAT", 500, 500, 100, 1),
		model.NewItem("POLE", 1200, 100, 300, 1),
	)

	got := newPacker(model.DefaultSettings(), size).fallbackHeights(units, size.Height, 300)

	assert.Equal(t, []int{100, 1200}, got)
}

func TestPackContainer_RespectsLayerCap(t *testing.T) {
	size := model.ContainerSize{Length: 100, Width: 100, Height: 1000}
	units := expand(t, fixedItem("PLATE", 100, 100, 10, 20))
	settings := model.DefaultSettings()
	settings.MaxLayers = 5

	layers, rest := PackContainer(settings, size, units)

	assert.Len(t, layers, 5)
	assert.Len(t, rest, 15)
}

func TestPackAll_OpensContainersUntilDone(t *testing.T) {
	size := model.ContainerSize{Length: 1000, Width: 1000, Height: 1000}
	units := expand(t, fixedItem("CUBE", 500, 500, 500, 10))

	containers, rest := PackAll(model.DefaultSettings(), size, units)

	require.Len(t, containers, 2)
	assert.Empty(t, rest)
	assert.Equal(t, "Container 01", containers[0].Name)
	assert.Equal(t, "Container 02", containers[1].Name)
	assert.Equal(t, 8, containers[0].PackedCount)
	assert.Equal(t, 2, containers[1].PackedCount)
	assert.Equal(t, int64(8*500*500*500), containers[0].PackedVolume)
	assert.NoError(t, model.ValidatePlan(containers, size))
}

func TestPackAll_RespectsContainerCap(t *testing.T) {
	size := model.ContainerSize{Length: 500, Width: 500, Height: 500}
	units := expand(t, fixedItem("CUBE", 500, 500, 500, 5))
	settings := model.DefaultSettings()
	settings.MaxContainers = 3

	containers, rest := PackAll(settings, size, units)

	assert.Len(t, containers, 3)
	assert.Len(t, rest, 2)
}

func TestPackAll_ConservesUnits(t *testing.T) {
	size := model.ContainerSize{Length: 3000, Width: 2000, Height: 1500}
	units := expand(t,
		model.NewItem("A", 1200, 800, 600, 9),
		model.NewItem("B", 600, 400, 300, 23),
		model.NewItem("C", 1500, 300, 250, 14),
		fixedItem("D", 400, 400, 900, 6),
		model.NewItem("E", 250, 200, 150, 40),
	)

	for _, strategy := range model.StackStrategies {
		t.Run(string(strategy), func(t *testing.T) {
			containers, rest := PackAll(stackingSettings(strategy), size, model.CloneUnits(units))

			require.NotEmpty(t, containers)
			require.NoError(t, model.ValidatePlan(containers, size))

			seen := map[string]bool{}
			for _, c := range containers {
				for _, b := range c.Boxes() {
					seen[b.UID] = true
				}
			}
			for _, u := range rest {
				assert.False(t, seen[u.UID], "unit %s both placed and unplaced", u.UID)
				seen[u.UID] = true
			}
			assert.Len(t, seen, len(units))
		})
	}
}

func TestPackAll_LayersStayInsideContainer(t *testing.T) {
	size := model.ContainerSize{Length: 2000, Width: 1500, Height: 1000}
	units := expand(t,
		model.NewItem("A", 700, 500, 330, 12),
		model.NewItem("B", 400, 300, 210, 30),
	)

	containers, _ := PackAll(model.DefaultSettings(), size, units)

	for _, c := range containers {
		z := 0
		for _, l := range c.Layers {
			assert.Equal(t, z, l.Z, "layers are contiguous")
			assert.LessOrEqual(t, l.Top(), size.Height)
			for _, b := range l.Boxes {
				assert.LessOrEqual(t, b.Top(), l.Top())
			}
			z = l.Top()
		}
	}
}
