// Package editor applies manual corrections to a packing result with
// undo and redo.
package editor

import (
	"errors"
	"fmt"

	"github.com/piwi3910/CargoStack/internal/model"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Editor owns a working copy of a packing result. Every edit is checked
// against the placement invariants before it is kept: a rejected edit
// leaves the result exactly as it was.
type Editor struct {
	result  model.PackResult
	history *History
}

// New returns an editor over a deep copy of result.
func New(result model.PackResult) *Editor {
	return &Editor{
		result:  cloneResult(result),
		history: NewHistory(),
	}
}

// Result returns a deep copy of the current state.
func (e *Editor) Result() model.PackResult {
	return cloneResult(e.result)
}

// History exposes the undo/redo state.
func (e *Editor) History() *History {
	return e.history
}

// Do applies cmd and records it for undo.
func (e *Editor) Do(cmd Command) error {
	inverse, err := e.apply(cmd)
	if err != nil {
		return err
	}
	e.history.push(entry{inverse: inverse, label: cmd.Label()})
	return nil
}

// Undo reverts the most recent edit.
func (e *Editor) Undo() error {
	last, ok := e.history.popUndo()
	if !ok {
		return ErrNothingToUndo
	}
	redo, err := e.apply(last.inverse)
	if err != nil {
		e.history.pushUndo(last)
		return fmt.Errorf("undo %s: %w", last.label, err)
	}
	e.history.pushRedo(entry{inverse: redo, label: last.label})
	return nil
}

// Redo reapplies the most recently undone edit.
func (e *Editor) Redo() error {
	last, ok := e.history.popRedo()
	if !ok {
		return ErrNothingToRedo
	}
	undo, err := e.apply(last.inverse)
	if err != nil {
		e.history.pushRedo(last)
		return fmt.Errorf("redo %s: %w", last.label, err)
	}
	e.history.pushUndo(entry{inverse: undo, label: last.label})
	return nil
}

// apply runs cmd and validates the outcome, reverting on failure.
func (e *Editor) apply(cmd Command) (Command, error) {
	inverse, err := cmd.Apply(&e.result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Label(), err)
	}
	if verr := model.ValidatePlan(e.result.Containers, e.result.Size); verr != nil {
		if _, rerr := inverse.Apply(&e.result); rerr != nil {
			return nil, errors.Join(fmt.Errorf("%s: %w", cmd.Label(), verr), rerr)
		}
		return nil, fmt.Errorf("%s rejected: %w", cmd.Label(), verr)
	}
	return inverse, nil
}

func cloneResult(r model.PackResult) model.PackResult {
	cp := r
	cp.Containers = make([]model.Container, len(r.Containers))
	for i, c := range r.Containers {
		cp.Containers[i] = c.Clone()
	}
	cp.Unplaced = model.CloneUnits(r.Unplaced)
	cp.Scores = append([]model.StrategyScore(nil), r.Scores...)
	return cp
}
