package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stangelandcl/lsmtable/internal/block"
)

func testBlock(key string) *block.Block {
	b := block.NewBuilder(64)
	b.Add([]byte(key), []byte("v"))
	return b.Build()
}

func TestCacheKeyedByTableAndBlock(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	a := testBlock("a")
	b := testBlock("b")
	c.Add(1, 0, a)
	c.Add(2, 0, b)

	got, ok := c.Get(1, 0)
	require.True(t, ok)
	assert.Same(t, a, got)

	got, ok = c.Get(2, 0)
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = c.Get(1, 1)
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCacheGetOrLoad(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	loads := 0
	load := func() (*block.Block, error) {
		loads++
		return testBlock("k"), nil
	}
	first, err := c.GetOrLoad(7, 3, load)
	require.NoError(t, err)
	second, err := c.GetOrLoad(7, 3, load)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, loads)

	boom := errors.New("boom")
	_, err = c.GetOrLoad(7, 4, func() (*block.Block, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get(7, 4)
	assert.False(t, ok)
}

func TestNilCache(t *testing.T) {
	var c *BlockCache
	c.Add(1, 1, testBlock("a"))
	_, ok := c.Get(1, 1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	loads := 0
	for i := 0; i < 2; i++ {
		_, err := c.GetOrLoad(1, 1, func() (*block.Block, error) {
			loads++
			return testBlock("a"), nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, loads)
}
