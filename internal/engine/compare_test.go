package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CargoStack/internal/model"
)

func failingStrategy(name string) Strategy {
	return Strategy{Name: name, Run: func(model.PackSettings, model.ContainerSize, []model.Unit) ([]model.Container, []model.Unit, error) {
		return nil, nil, errors.New("boom")
	}}
}

func panickingStrategy(name string) Strategy {
	return Strategy{Name: name, Run: func(model.PackSettings, model.ContainerSize, []model.Unit) ([]model.Container, []model.Unit, error) {
		panic("out of cheese")
	}}
}

func emptyStrategy(name string) Strategy {
	return Strategy{Name: name, Run: func(_ model.PackSettings, _ model.ContainerSize, units []model.Unit) ([]model.Container, []model.Unit, error) {
		return nil, units, nil
	}}
}

func TestScore_SingleFullContainer(t *testing.T) {
	size := model.ContainerSize{Length: 10, Width: 10, Height: 10}
	c := []model.Container{{PackedCount: 1, PackedVolume: 1000}}

	assert.InDelta(t, 1.0, Score(c, size), 1e-9)
}

func TestScore_WeightsUtilizationCountAndBalance(t *testing.T) {
	size := model.ContainerSize{Length: 10, Width: 10, Height: 10}
	c := []model.Container{
		{PackedCount: 2, PackedVolume: 500},
		{PackedCount: 1, PackedVolume: 250},
	}

	// 0.5*0.375 + 0.3*0.5 + 0.2*(1 - 1/2)
	assert.InDelta(t, 0.4375, Score(c, size), 1e-9)
	assert.Zero(t, Score(nil, size))
}

func TestRunStrategies_CapturesErrorsAndPanics(t *testing.T) {
	size := model.ContainerSize{Length: 1000, Width: 1000, Height: 1000}
	units := expand(t, fixedItem("CUBE", 500, 500, 500, 4))
	strategies := []Strategy{
		failingStrategy("broken"),
		panickingStrategy("panicky"),
		emptyStrategy("lazy"),
		{Name: "gap-filling", Run: layerStrategy},
	}

	results := RunStrategies(strategies, model.DefaultSettings(), size, units)

	require.Len(t, results, 4)
	for i, name := range []string{"broken", "panicky", "lazy", "gap-filling"} {
		assert.Equal(t, name, results[i].Strategy)
	}
	assert.True(t, results[0].Failed())
	assert.ErrorContains(t, results[0].Err, "boom")
	assert.True(t, results[1].Failed())
	assert.ErrorContains(t, results[1].Err, "out of cheese")
	assert.True(t, results[2].Failed(), "no containers counts as failure")

	var serr *StrategyError
	require.ErrorAs(t, results[1].Err, &serr)
	assert.Equal(t, "panicky", serr.Strategy)

	assert.False(t, results[3].Failed())
	assert.Equal(t, 3, BestResult(results))
	assert.Len(t, units, 4, "caller's pool is untouched")
}

func TestRunStrategies_StrategiesGetPrivateCopies(t *testing.T) {
	size := model.ContainerSize{Length: 1000, Width: 1000, Height: 1000}
	units := expand(t, fixedItem("CUBE", 500, 500, 500, 2))
	mutator := Strategy{Name: "mutator", Run: func(s model.PackSettings, sz model.ContainerSize, u []model.Unit) ([]model.Container, []model.Unit, error) {
		for i := range u {
			u[i].Length = 1
		}
		return layerStrategy(s, sz, u)
	}}

	RunStrategies([]Strategy{mutator}, model.DefaultSettings(), size, units)

	assert.Equal(t, 500, units[0].Length)
}

func TestBestResult_TiesGoToDeclarationOrder(t *testing.T) {
	results := []StrategyResult{
		{Strategy: "a", Score: 0.5, Err: errors.New("x")},
		{Strategy: "b", Score: 0.7},
		{Strategy: "c", Score: 0.7},
		{Strategy: "d", Score: 0.6},
	}
	assert.Equal(t, 1, BestResult(results))
	assert.Equal(t, -1, BestResult(results[:1]))
}

func TestStrategyResult_Summary(t *testing.T) {
	r := StrategyResult{
		Strategy:   "gap-filling",
		Score:      0.8,
		Containers: []model.Container{{PackedCount: 3}, {PackedCount: 2}},
	}
	s := r.Summary()
	assert.Equal(t, "gap-filling", s.Name)
	assert.Equal(t, 2, s.Containers)
	assert.Equal(t, 5, s.Packed)
	assert.False(t, s.Failed())

	r.Err = errors.New("bad")
	assert.True(t, r.Summary().Failed())
}

func TestDefaultStrategies_Names(t *testing.T) {
	var names []string
	for _, s := range DefaultStrategies() {
		names = append(names, s.Name)
		assert.NotNil(t, s.Run)
	}
	assert.Equal(t, []string{"gap-filling", "gap-filling-interleaved", "greedy-layer", "hybrid", "genetic-heights"}, names)
}
