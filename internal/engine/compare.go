package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/piwi3910/CargoStack/internal/model"
)

// Score weights.
const (
	utilizationWeight = 0.5
	countWeight       = 0.3
	stabilityWeight   = 0.2
)

// StrategyFunc packs a unit pool into containers. It receives its own copy
// of the pool and may modify it.
type StrategyFunc func(settings model.PackSettings, size model.ContainerSize, units []model.Unit) ([]model.Container, []model.Unit, error)

// Strategy is a named packing strategy competing in a multi-strategy run.
type Strategy struct {
	Name string
	Run  StrategyFunc
}

// layerStrategy runs the layer packer as is.
func layerStrategy(settings model.PackSettings, size model.ContainerSize, units []model.Unit) ([]model.Container, []model.Unit, error) {
	containers, unplaced := PackAll(settings, size, units)
	return containers, unplaced, nil
}

// DefaultStrategies returns the built-in strategy set in declaration order.
// The first four share the layer packer; genetic-heights evolves the
// per-layer height choice.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "gap-filling", Run: layerStrategy},
		{Name: "gap-filling-interleaved", Run: layerStrategy},
		{Name: "greedy-layer", Run: layerStrategy},
		{Name: "hybrid", Run: layerStrategy},
		{Name: "genetic-heights", Run: geneticStrategy},
	}
}

// StrategyResult holds the outcome of one strategy in a comparison.
type StrategyResult struct {
	Strategy   string
	Containers []model.Container
	Unplaced   []model.Unit
	Score      float64
	Elapsed    time.Duration
	Err        error
}

// Failed reports whether the strategy produced nothing usable.
func (r StrategyResult) Failed() bool {
	return r.Err != nil
}

// Summary converts the result to its reportable form.
func (r StrategyResult) Summary() model.StrategyScore {
	s := model.StrategyScore{
		Name:       r.Strategy,
		Score:      r.Score,
		Containers: len(r.Containers),
		Elapsed:    r.Elapsed,
	}
	for _, c := range r.Containers {
		s.Packed += c.PackedCount
	}
	if r.Err != nil {
		s.Err = r.Err.Error()
	}
	return s
}

var errNoContainers = errors.New("no containers produced")

// RunStrategies runs every strategy concurrently, each on its own copy of
// the pool, and returns the results in declaration order. Errors and panics
// are captured in the corresponding result.
func RunStrategies(strategies []Strategy, settings model.PackSettings, size model.ContainerSize, units []model.Unit) []StrategyResult {
	results := make([]StrategyResult, len(strategies))
	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			results[i] = runStrategy(s, settings, size, model.CloneUnits(units))
		}(i, s)
	}
	wg.Wait()
	return results
}

func runStrategy(s Strategy, settings model.PackSettings, size model.ContainerSize, units []model.Unit) (res StrategyResult) {
	res.Strategy = s.Name
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			res = StrategyResult{
				Strategy: s.Name,
				Elapsed:  time.Since(start),
				Err:      &StrategyError{Strategy: s.Name, Err: fmt.Errorf("panic: %v", r)},
			}
		}
	}()

	if s.Run == nil {
		res.Err = &StrategyError{Strategy: s.Name, Err: errors.New("no run function")}
		return res
	}
	containers, unplaced, err := s.Run(settings, size, units)
	if err != nil {
		res.Err = &StrategyError{Strategy: s.Name, Err: err}
		return res
	}
	if len(containers) == 0 {
		res.Err = &StrategyError{Strategy: s.Name, Err: errNoContainers}
		return res
	}
	res.Containers = containers
	res.Unplaced = unplaced
	res.Score = Score(containers, size)
	return res
}

// BestResult returns the index of the highest scoring successful result.
// Ties go to the earlier strategy. It returns -1 when every result failed.
func BestResult(results []StrategyResult) int {
	best := -1
	for i, r := range results {
		if r.Failed() {
			continue
		}
		if best < 0 || r.Score > results[best].Score {
			best = i
		}
	}
	return best
}

// Score rates a packing: half volume utilization, three tenths fewer
// containers and two tenths an even item count across containers.
func Score(containers []model.Container, size model.ContainerSize) float64 {
	if len(containers) == 0 {
		return 0
	}
	var used int64
	counts := make([]float64, len(containers))
	for i, c := range containers {
		used += c.PackedVolume
		counts[i] = float64(c.PackedCount)
	}
	util := 0.0
	if total := size.Volume() * int64(len(containers)); total > 0 {
		util = float64(used) / float64(total)
	}
	return utilizationWeight*util +
		countWeight*(1.0/float64(len(containers))) +
		stabilityWeight*stability(counts)
}

// stability is 1 minus the spread of item counts relative to the largest
// count. Empty plans are treated as stable.
func stability(counts []float64) float64 {
	hi := floats.Max(counts)
	if hi <= 0 {
		return 1
	}
	return 1 - (hi-floats.Min(counts))/hi
}
