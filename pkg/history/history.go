// Package history implements a bounded linear undo/redo stack over
// immutable snapshots. It is storage free; callers supply a clone
// function so pushed values cannot alias live state.
package history

// Snapshot pairs a captured state with the action label that produced
// it, so undo can surface what is being reverted ("moved group",
// "added insight"). Map editors store their groups and insights as the
// state; the deep copy comes from the clone function given to New.
type Snapshot[T any] struct {
	State       T      `json:"state"`
	Description string `json:"description"`
}

// SnapshotClone lifts a state clone into a snapshot clone for use with
// New over Snapshot values
func SnapshotClone[T any](clone func(T) T) func(Snapshot[T]) Snapshot[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return func(s Snapshot[T]) Snapshot[T] {
		return Snapshot[T]{State: clone(s.State), Description: s.Description}
	}
}

// History holds up to maxDepth snapshots with a cursor into them.
// Pushing after an undo discards the redo tail.
type History[T any] struct {
	snapshots []T
	cursor    int
	maxDepth  int
	clone     func(T) T
}

// DefaultDepth is the snapshot capacity used when none is given.
const DefaultDepth = 20

// New creates a history with the given depth. A nil clone stores
// values as passed; callers with reference types should supply one.
func New[T any](depth int, clone func(T) T) *History[T] {
	if depth <= 0 {
		depth = DefaultDepth
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &History[T]{
		cursor:   -1,
		maxDepth: depth,
		clone:    clone,
	}
}

// Push records a new snapshot, truncating any redo tail. When the
// stack is full the oldest snapshot is evicted.
func (h *History[T]) Push(state T) {
	h.snapshots = h.snapshots[:h.cursor+1]
	h.snapshots = append(h.snapshots, h.clone(state))

	if len(h.snapshots) > h.maxDepth {
		h.snapshots = h.snapshots[len(h.snapshots)-h.maxDepth:]
	}
	h.cursor = len(h.snapshots) - 1
}

// Undo steps the cursor back and returns that snapshot. At the oldest
// snapshot it returns the zero value and false.
func (h *History[T]) Undo() (T, bool) {
	var zero T
	if h.cursor <= 0 {
		return zero, false
	}
	h.cursor--
	return h.clone(h.snapshots[h.cursor]), true
}

// Redo steps the cursor forward and returns that snapshot. At the
// newest snapshot it returns the zero value and false.
func (h *History[T]) Redo() (T, bool) {
	var zero T
	if h.cursor >= len(h.snapshots)-1 {
		return zero, false
	}
	h.cursor++
	return h.clone(h.snapshots[h.cursor]), true
}

// CanUndo reports whether an older snapshot exists
func (h *History[T]) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether a newer snapshot exists
func (h *History[T]) CanRedo() bool {
	return h.cursor < len(h.snapshots)-1
}

// Len returns the number of stored snapshots
func (h *History[T]) Len() int {
	return len(h.snapshots)
}

// Clear drops all snapshots
func (h *History[T]) Clear() {
	h.snapshots = nil
	h.cursor = -1
}
