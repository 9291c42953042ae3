package cache_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tgpaywall/tgpaywall/pkg/cache"
)

func TestLRUCache(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)

		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Get("a")
		c.Put("c", 3)

		_, ok := c.Get("b")
		assert.False(t, ok)
		_, ok = c.Get("a")
		assert.True(t, ok)
	})

	t.Run("update keeps size", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("a", 5)
		v, _ := c.Get("a")
		assert.Equal(t, 5, v)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("remove and remove func", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](10)
		c.Put("content:tree", 1)
		c.Put("content:page:a", 2)
		c.Put("subscription:1", 3)

		assert.True(t, c.Remove("subscription:1"))
		assert.False(t, c.Remove("subscription:1"))
		n := c.RemoveFunc(func(k string) bool { return strings.HasPrefix(k, "content:") })
		assert.Equal(t, 2, n)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("zero capacity panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[int, int](50)
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := range 100 {
					c.Put(n*100+j, j)
					c.Get(n*100 + j)
				}
			}(i)
		}
		wg.Wait()
		assert.LessOrEqual(t, c.Len(), 50)
	})
}
