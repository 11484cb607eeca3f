package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoRedoLinearity(t *testing.T) {
	h := New[int](10, nil)

	h.Push(1)
	h.Push(2)
	h.Push(3)

	v, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// at the oldest snapshot undo refuses
	_, ok = h.Undo()
	assert.False(t, ok)

	v, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	// at the newest snapshot redo refuses
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestPushTruncatesRedoTail(t *testing.T) {
	h := New[int](10, nil)

	h.Push(1)
	h.Push(2)
	h.Push(3)

	_, _ = h.Undo()
	_, _ = h.Undo()
	require.True(t, h.CanRedo())

	h.Push(9)
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())

	v, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestDepthEviction(t *testing.T) {
	h := New[int](3, nil)

	for i := 1; i <= 5; i++ {
		h.Push(i)
	}
	assert.Equal(t, 3, h.Len())

	// undo walks back through the surviving window only
	v, _ := h.Undo()
	assert.Equal(t, 4, v)
	v, _ = h.Undo()
	assert.Equal(t, 3, v)
	_, ok := h.Undo()
	assert.False(t, ok)
}

func TestCanUndoCanRedo(t *testing.T) {
	h := New[string](0, nil)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	h.Push("a")
	assert.False(t, h.CanUndo())

	h.Push("b")
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, _ = h.Undo()
	assert.False(t, h.CanUndo())
	assert.True(t, h.CanRedo())
}

func TestCloneIsolatesSnapshots(t *testing.T) {
	clone := func(s []string) []string {
		out := make([]string, len(s))
		copy(out, s)
		return out
	}
	h := New(10, clone)

	state := []string{"a"}
	h.Push(state)
	state[0] = "mutated"

	h.Push([]string{"b"})
	restored, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, restored)

	// mutating what Undo returned must not corrupt the stored snapshot
	restored[0] = "mutated again"
	again, ok := h.Redo()
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, again)
	once, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, once)
}

func TestSnapshotCarriesDescription(t *testing.T) {
	type canvas struct {
		groups   map[string][]string
		insights []string
	}
	cloneCanvas := func(c canvas) canvas {
		out := canvas{
			groups:   make(map[string][]string, len(c.groups)),
			insights: append([]string(nil), c.insights...),
		}
		for id, members := range c.groups {
			out.groups[id] = append([]string(nil), members...)
		}
		return out
	}

	h := New(10, SnapshotClone(cloneCanvas))

	initial := canvas{groups: map[string][]string{"g1": {"i1"}}, insights: []string{"i2"}}
	h.Push(Snapshot[canvas]{State: initial, Description: "initial"})
	h.Push(Snapshot[canvas]{
		State:       canvas{groups: map[string][]string{"g1": {"i1", "i2"}}},
		Description: "added insight",
	})

	// mutating the pushed state must not reach the stored snapshot
	initial.groups["g1"][0] = "mutated"

	restored, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "initial", restored.Description)
	assert.Equal(t, []string{"i1"}, restored.State.groups["g1"])
	assert.Equal(t, []string{"i2"}, restored.State.insights)

	redone, ok := h.Redo()
	require.True(t, ok)
	assert.Equal(t, "added insight", redone.Description)
}

func TestClear(t *testing.T) {
	h := New[int](5, nil)
	h.Push(1)
	h.Push(2)

	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
