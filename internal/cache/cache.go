package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/stangelandcl/lsmtable/internal/block"
)

// Key identifies a decoded block across every open table
type Key struct {
	Table uint64
	Block int
}

// BlockCache holds decoded blocks shared between tables and iterators.
// a nil *BlockCache caches nothing
type BlockCache struct {
	c *lru.TwoQueueCache
}

// New creates a 2Q cache of size blocks.
// multiply size by block size to estimate memory use
func New(size int) (*BlockCache, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New2Q(size)
	if err != nil {
		return nil, err
	}
	return &BlockCache{c: c}, nil
}

func (c *BlockCache) Get(table uint64, idx int) (*block.Block, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.c.Get(Key{Table: table, Block: idx})
	if !ok {
		return nil, false
	}
	return v.(*block.Block), true
}

func (c *BlockCache) Add(table uint64, idx int, b *block.Block) {
	if c == nil {
		return
	}
	c.c.Add(Key{Table: table, Block: idx}, b)
}

// GetOrLoad returns the cached block or loads and caches it.
// concurrent misses may load the same block twice, last one wins
func (c *BlockCache) GetOrLoad(table uint64, idx int, load func() (*block.Block, error)) (*block.Block, error) {
	if b, ok := c.Get(table, idx); ok {
		return b, nil
	}
	b, err := load()
	if err != nil {
		return nil, err
	}
	c.Add(table, idx, b)
	return b, nil
}

// Len is the number of cached blocks
func (c *BlockCache) Len() int {
	if c == nil {
		return 0
	}
	return c.c.Len()
}

// Purge drops every block of every table
func (c *BlockCache) Purge() {
	if c == nil {
		return
	}
	c.c.Purge()
}
