package editor

const defaultMaxDepth = 50

// entry is one step of the history: the command that reverses an edit,
// plus the label of the edit it reverses.
type entry struct {
	inverse Command
	label   string
}

// History manages undo/redo stacks of inverse commands.
type History struct {
	undoStack []entry
	redoStack []entry
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// push records the inverse of an edit that was just applied and clears the
// redo stack. The oldest entry is dropped beyond maxDepth.
func (h *History) push(e entry) {
	h.pushUndo(e)
	h.redoStack = nil
}

func (h *History) pushUndo(e entry) {
	h.undoStack = append(h.undoStack, e)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
}

func (h *History) pushRedo(e entry) {
	h.redoStack = append(h.redoStack, e)
}

func (h *History) popUndo() (entry, bool) {
	if len(h.undoStack) == 0 {
		return entry{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	return last, true
}

func (h *History) popRedo() (entry, bool) {
	if len(h.redoStack) == 0 {
		return entry{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	return last, true
}

// CanUndo returns true if there is at least one edit to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one edit to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoLabel returns the label of the edit Undo would revert, or "".
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].label
}

// RedoLabel returns the label of the edit Redo would reapply, or "".
func (h *History) RedoLabel() string {
	if len(h.redoStack) == 0 {
		return ""
	}
	return h.redoStack[len(h.redoStack)-1].label
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}
