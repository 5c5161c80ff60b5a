package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/piwi3910/CargoStack/internal/model"
)

// Optimizer loads cargo into containers by running competing layer-packing
// strategies and keeping the best plan.
type Optimizer struct {
	Settings   model.PackSettings
	Strategies []Strategy
	IDs        model.IDGenerator
	logger     *slog.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for strategy progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStrategies replaces the default strategy set.
func WithStrategies(s ...Strategy) Option {
	return func(o *Optimizer) {
		o.Strategies = s
	}
}

// WithIDGenerator sets the source of unit identities.
func WithIDGenerator(g model.IDGenerator) Option {
	return func(o *Optimizer) {
		o.IDs = g
	}
}

func New(settings model.PackSettings, opts ...Option) *Optimizer {
	o := &Optimizer{
		Settings:   settings,
		Strategies: DefaultStrategies(),
		IDs:        model.UUIDGenerator{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// activeStrategies returns the strategies to run. Single-strategy mode
// runs only the first one.
func (o *Optimizer) activeStrategies() []Strategy {
	if !o.Settings.UseMultiStrategy && len(o.Strategies) > 1 {
		return o.Strategies[:1]
	}
	return o.Strategies
}

// Optimize packs the items into as few containers of the given size as it
// can. Input errors are returned before any packing is attempted. Failing
// strategies are recorded in the result's scores; the run only fails when
// none of them produced a plan.
func (o *Optimizer) Optimize(items []model.Item, size model.ContainerSize) (model.PackResult, error) {
	if err := o.Settings.Validate(); err != nil {
		return model.PackResult{}, fmt.Errorf("invalid settings: %w", err)
	}
	if err := ValidateInput(items, size, o.Settings); err != nil {
		return model.PackResult{}, err
	}

	units := model.ExpandItems(items, o.IDs)
	result := model.PackResult{
		Size:     size,
		Rotation: AnalyzeRotation(units, size, o.Settings.AllowRotation),
	}
	if o.Settings.GroupSimilar {
		units = Normalize(units, o.Settings.DimensionTolerance, o.Settings.AllowRotation)
	}

	strategies := o.activeStrategies()
	o.logger.Debug("packing started",
		"items", len(items),
		"units", len(units),
		"strategies", len(strategies),
		"stacking", o.Settings.AllowStackingInLayer,
		"stack_strategy", o.Settings.StackStrategy)

	results := RunStrategies(strategies, o.Settings, size, units)
	for _, r := range results {
		result.Scores = append(result.Scores, r.Summary())
		if r.Failed() {
			o.logger.Warn("strategy failed", "strategy", r.Strategy, "error", r.Err)
			continue
		}
		o.logger.Debug("strategy finished",
			"strategy", r.Strategy,
			"containers", len(r.Containers),
			"score", r.Score,
			"elapsed", r.Elapsed)
	}

	best := BestResult(results)
	if best < 0 {
		return result, noUsableStrategy(results)
	}
	winner := results[best]
	result.BestStrategy = winner.Strategy
	result.Containers = finalizeContainers(winner.Containers, winner.Strategy, winner.Elapsed)
	result.Unplaced = winner.Unplaced

	o.logger.Info("packing finished",
		"strategy", winner.Strategy,
		"containers", len(result.Containers),
		"packed", result.PackedCount(),
		"unplaced", len(result.Unplaced),
		"utilization", fmt.Sprintf("%.1f%%", result.TotalUtilization()))
	return result, nil
}

// finalizeContainers renames the winning containers sequentially and tags
// them with the strategy that produced them.
func finalizeContainers(containers []model.Container, strategy string, elapsed time.Duration) []model.Container {
	out := make([]model.Container, len(containers))
	for i, c := range containers {
		out[i] = c.Clone()
		out[i].Name = containerName(i + 1)
		out[i].Strategy = strategy
		out[i].BestStrategy = strategy
		out[i].Elapsed = elapsed
		out[i].Recount()
	}
	return out
}

func noUsableStrategy(results []StrategyResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no strategies configured: %w", ErrNoUsableStrategy)
	}
	errs := make([]error, 0, len(results))
	names := make([]string, 0, len(results))
	for _, r := range results {
		errs = append(errs, r.Err)
		names = append(names, r.Strategy)
	}
	return fmt.Errorf("%w (tried %s): %w", ErrNoUsableStrategy, strings.Join(names, ", "), errors.Join(errs...))
}
