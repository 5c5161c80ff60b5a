package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/CargoStack/internal/model"
)

// GeneticConfig holds parameters for the genetic layer-height search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Genes          int // Layer decisions encoded per chromosome
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 16,
		Generations:    12,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Genes:          24,
		Seed:           42,
	}
}

// scaledGeneticConfig shrinks the search for large pools, where every
// evaluation packs the whole plan.
func scaledGeneticConfig(units int) GeneticConfig {
	cfg := DefaultGeneticConfig()
	switch {
	case units > 1000:
		cfg.PopulationSize = 6
		cfg.Generations = 3
	case units > 300:
		cfg.PopulationSize = 8
		cfg.Generations = 6
	}
	return cfg
}

// heightRule is one way of choosing a layer height from the pool.
type heightRule uint8

const (
	ruleHeuristic  heightRule = iota // SelectLayerHeight
	ruleMinTall                      // Smallest of the tall heights
	ruleMaxShort                     // Largest of the short heights
	ruleMode                         // Most frequent height
	ruleTallestFit                   // Tallest height that still fits
	ruleCount
)

func (r heightRule) apply(units []model.Unit, remaining int) (int, bool) {
	if r == ruleHeuristic {
		return SelectLayerHeight(units, remaining)
	}
	hs := collectHeights(units, remaining)
	if hs.empty() {
		return 0, false
	}
	switch r {
	case ruleMinTall:
		return hs.tall()[0], true
	case ruleMaxShort:
		short := hs.short()
		return short[len(short)-1], true
	case ruleMode:
		return hs.mode(), true
	default:
		return hs.distinct[len(hs.distinct)-1], true
	}
}

// chromosome is a sequence of height rules, one per layer. Layers past the
// end of the sequence wrap around to its start.
type chromosome struct {
	genes   []heightRule
	fitness float64
}

// chromosomeHeights replays a chromosome while the packer builds layers.
type chromosomeHeights struct {
	genes []heightRule
	next  int
}

func (c *chromosomeHeights) pick(units []model.Unit, remaining int) (int, bool) {
	rule := c.genes[c.next%len(c.genes)]
	c.next++
	return rule.apply(units, remaining)
}

// geneticOptimizer evolves per-layer height choices for the layer packer.
type geneticOptimizer struct {
	settings model.PackSettings
	size     model.ContainerSize
	config   GeneticConfig
	units    []model.Unit
	rng      *rand.Rand
	cache    map[string]float64
}

func newGeneticOptimizer(settings model.PackSettings, size model.ContainerSize, config GeneticConfig, units []model.Unit) *geneticOptimizer {
	return &geneticOptimizer{
		settings: settings,
		size:     size,
		config:   config,
		units:    units,
		rng:      rand.New(rand.NewSource(config.Seed)),
		cache:    make(map[string]float64),
	}
}

// OptimizeGenetic packs the units with the best height-rule sequence found
// by the genetic search. Results are reproducible for a given config.
func OptimizeGenetic(settings model.PackSettings, size model.ContainerSize, config GeneticConfig, units []model.Unit) ([]model.Container, []model.Unit) {
	if len(units) == 0 || config.Genes <= 0 || config.PopulationSize <= 0 {
		return PackAll(settings, size, units)
	}
	return newGeneticOptimizer(settings, size, config, units).optimize()
}

func geneticStrategy(settings model.PackSettings, size model.ContainerSize, units []model.Unit) ([]model.Container, []model.Unit, error) {
	containers, unplaced := OptimizeGenetic(settings, size, scaledGeneticConfig(len(units)), units)
	return containers, unplaced, nil
}

func (g *geneticOptimizer) optimize() ([]model.Container, []model.Unit) {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.crossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sortByFitness(population)
	return g.decode(population[0])
}

// sortByFitness orders the population best first, keeping the earlier
// individual on ties so the run stays reproducible.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation seeds one chromosome per uniform rule, including the plain
// heuristic, and fills the rest randomly.
func (g *geneticOptimizer) initPopulation() []chromosome {
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		genes := make([]heightRule, g.config.Genes)
		if i < int(ruleCount) {
			for j := range genes {
				genes[j] = heightRule(i)
			}
		} else {
			for j := range genes {
				genes[j] = heightRule(g.rng.Intn(int(ruleCount)))
			}
		}
		population[i] = chromosome{genes: genes}
	}
	return population
}

func (g *geneticOptimizer) decode(c chromosome) ([]model.Container, []model.Unit) {
	p := newPacker(g.settings, g.size)
	p.heights = &chromosomeHeights{genes: c.genes}
	return p.packAll(model.CloneUnits(g.units))
}

// evaluate scores a chromosome by the packing it decodes to, penalizing
// units left behind.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	key := chromosomeKey(c)
	if f, ok := g.cache[key]; ok {
		return f
	}
	containers, unplaced := g.decode(c)
	fitness := Score(containers, g.size)
	if len(g.units) > 0 {
		fitness -= float64(len(unplaced)) / float64(len(g.units))
	}
	g.cache[key] = fitness
	return fitness
}

func chromosomeKey(c chromosome) string {
	b := make([]byte, len(c.genes))
	for i, r := range c.genes {
		b[i] = byte('0' + r)
	}
	return string(b)
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// crossover takes a prefix of parent1 and the rest from parent2.
func (g *geneticOptimizer) crossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n < 2 {
		return g.copyChromosome(parent1)
	}
	cut := 1 + g.rng.Intn(n-1)
	child := chromosome{genes: make([]heightRule, n)}
	copy(child.genes[:cut], parent1.genes[:cut])
	copy(child.genes[cut:], parent2.genes[cut:])
	return child
}

// mutate applies random mutations to a chromosome.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n == 0 {
		return
	}

	// Reset mutation: pick a new rule for one layer
	if g.rng.Float64() < g.config.MutationRate {
		c.genes[g.rng.Intn(n)] = heightRule(g.rng.Intn(int(ruleCount)))
	}

	if n < 2 {
		return
	}

	// Swap mutation: exchange the rules of two layers
	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion mutation: reverse a segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

// copyChromosome creates a deep copy of a chromosome.
func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]heightRule, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
