package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[int64, string](2)
	c.Put(1, "image")
	c.Put(2, "video")

	// Touch 1 so 2 becomes the eviction candidate.
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "image", v)

	c.Put(3, "image")
	assert.True(t, c.Contains(1))
	assert.False(t, c.Contains(2))
	assert.True(t, c.Contains(3))
	assert.Equal(t, 2, c.Len())
}

func TestLRUCachePutOverwrites(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[string, int](3)
	c.Put("a", 1)
	c.Put("a", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCacheTakeAndDelete(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Take("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = c.Take("a")
	assert.False(t, ok)

	c.Delete("b")
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[int, int](16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put(j%32, i)
				c.Get(j % 32)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
