package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/CargoStack/internal/model"
)

var (
	// ErrDegenerateInput is returned for empty cargo lists and non-positive dimensions.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrInfeasibleItem is wrapped by InfeasibleItemError.
	ErrInfeasibleItem = errors.New("item does not fit the container in any orientation")
	// ErrNoUsableStrategy is returned when every strategy failed.
	ErrNoUsableStrategy = errors.New("no strategy produced a usable result")
)

// InfeasibleItemError lists every item that cannot fit the container.
type InfeasibleItemError struct {
	Items []model.Item
}

func (e *InfeasibleItemError) Error() string {
	names := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		names = append(names, fmt.Sprintf("%s (%dx%dx%d)", it.ID, it.Length, it.Width, it.Height))
	}
	return fmt.Sprintf("%d item(s) exceed the container: %s", len(e.Items), strings.Join(names, ", "))
}

func (e *InfeasibleItemError) Unwrap() error {
	return ErrInfeasibleItem
}

// StrategyError records why a single strategy failed.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// ValidateInput rejects cargo lists the engine cannot pack before any work is done.
func ValidateInput(items []model.Item, size model.ContainerSize, settings model.PackSettings) error {
	if size.Length <= 0 || size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("container %dx%dx%d: %w", size.Length, size.Width, size.Height, ErrDegenerateInput)
	}
	if len(items) == 0 {
		return fmt.Errorf("no items: %w", ErrDegenerateInput)
	}
	for _, it := range items {
		if it.Length <= 0 || it.Width <= 0 || it.Height <= 0 || it.Quantity <= 0 {
			return fmt.Errorf("item %s: dimensions and quantity must be positive: %w", it.ID, ErrDegenerateInput)
		}
	}

	var infeasible []model.Item
	for _, it := range items {
		probe := model.Unit{ItemID: it.ID, Length: it.Length, Width: it.Width, Height: it.Height, Rotatable: it.Rotatable}
		if !fitsAny(probe, size.Length, size.Width, size.Height, settings.CanRotate(probe)) {
			infeasible = append(infeasible, it)
		}
	}
	if len(infeasible) > 0 {
		return &InfeasibleItemError{Items: infeasible}
	}
	return nil
}
