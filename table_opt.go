package lsmtable

import (
	"math"

	"github.com/stangelandcl/lsmtable/internal/cache"
)

type Opt func(o *options)

type options struct {
	blockSize int
	cache     *cache.BlockCache
	cacheSize int
}

// LRU cache of decoded blocks, 2Q algorithm.
// can be shared between any number of tables
type Cache = *cache.BlockCache

// new 2Q cache of blockCount blocks.
// multiply blockCount * block size to estimate cache memory use
func NewCache(blockCount int) (Cache, error) {
	return cache.New(blockCount)
}

func newOptions(opts []Opt) options {
	o := options{
		blockSize: 4096,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.blockSize <= 0 {
		o.blockSize = 4096
	}
	// offsets within a block are 2 bytes
	if o.blockSize > math.MaxUint16 {
		o.blockSize = math.MaxUint16
	}
	return o
}

// resolves WithCacheSize once the block size is known
func (o *options) blockCache() (*cache.BlockCache, error) {
	if o.cache != nil || o.cacheSize <= 0 {
		return o.cache, nil
	}
	c, err := cache.New(o.cacheSize / o.blockSize)
	if err != nil {
		return nil, err
	}
	o.cache = c
	return c, nil
}

// size of an individual block in a file. 4K, 8K, 16K, etc.
// 4K is the default. at most 65535
func WithBlockSize(size int) Opt {
	return func(o *options) {
		o.blockSize = size
	}
}

// cache for holding decoded blocks
func WithCache(c Cache) Opt {
	return func(o *options) {
		o.cache = c
	}
}

// cache size in bytes. ignored when WithCache is given
func WithCacheSize(size int) Opt {
	return func(o *options) {
		o.cacheSize = size
	}
}
