package overlay

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y float64
}

func TestSetGetRemove(t *testing.T) {
	o := New[position]()

	_, ok := o.Get("g-1")
	assert.False(t, ok)

	o.Set("g-1", position{X: 10, Y: 20})
	v, ok := o.Get("g-1")
	require.True(t, ok)
	assert.Equal(t, position{X: 10, Y: 20}, v)

	// a later set overwrites the pending value
	o.Set("g-1", position{X: 30, Y: 40})
	v, _ = o.Get("g-1")
	assert.Equal(t, position{X: 30, Y: 40}, v)

	o.Remove("g-1")
	_, ok = o.Get("g-1")
	assert.False(t, ok)

	// removing an absent key is a no-op
	o.Remove("g-1")
}

func TestClear(t *testing.T) {
	o := New[position]()
	o.Set("g-1", position{})
	o.Set("g-2", position{})
	require.Equal(t, 2, o.Len())

	o.Clear()
	assert.Equal(t, 0, o.Len())

	o.Set("g-3", position{X: 1})
	assert.Equal(t, 1, o.Len())
}

func TestConcurrentAccess(t *testing.T) {
	o := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%4))
			o.Set(key, n)
			o.Get(key)
			if n%10 == 0 {
				o.Remove(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, o.Len(), 4)
}
