package table

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/stangelandcl/lsmtable/internal/block"
	"github.com/stangelandcl/lsmtable/internal/cache"
	"github.com/stangelandcl/lsmtable/internal/file"
)

// Builder packs sorted entries into blocks. it is single use:
// after Build every call returns ErrBuilt
type Builder struct {
	metas     []BlockMeta
	blocks    []*block.Block
	block     *block.Builder
	blockSize int
	// encoded size of flushed blocks, the offset of the next block
	offset int
	built  bool
}

func NewBuilder(blockSize int) *Builder {
	return &Builder{
		block:     block.NewBuilder(blockSize),
		blockSize: blockSize,
	}
}

// Add appends an entry. keys must be non-empty and strictly ascending.
// returns ErrEntryTooLarge when the entry does not fit a fresh block
func (b *Builder) Add(key, value []byte) error {
	if b.built {
		return ErrBuilt
	}
	if b.block.Add(key, value) {
		return nil
	}

	full := b.block
	b.block = block.NewBuilder(b.blockSize)
	if !full.IsEmpty() {
		b.flush(full)
	}

	if !b.block.Add(key, value) {
		return ErrEntryTooLarge
	}
	return nil
}

func (b *Builder) flush(bb *block.Builder) {
	blk := bb.Build()
	it := block.NewIteratorFirst(blk)
	b.metas = append(b.metas, BlockMeta{
		Offset:   b.offset,
		FirstKey: append([]byte(nil), it.Key()...),
	})
	b.offset += blk.EncodedLen()
	b.blocks = append(b.blocks, blk)
}

// EstimatedSize of the flushed blocks. the block being filled is not counted
func (b *Builder) EstimatedSize() int {
	n := 0
	for _, blk := range b.blocks {
		n += blk.EstimatedSize()
	}
	return n
}

// Build flushes the last block, writes the table to path and returns it opened.
// c is seeded with the built blocks when not nil
func (b *Builder) Build(id uint64, c *cache.BlockCache, path string) (*Table, error) {
	if b.built {
		return nil, ErrBuilt
	}
	if !b.block.IsEmpty() {
		b.flush(b.block)
	}
	if len(b.blocks) == 0 {
		return nil, ErrEmptyTable
	}
	if uint64(b.offset) > math.MaxUint32 {
		log.Panicln("table: block section larger than 4GB:", b.offset)
	}

	buf := make([]byte, 0, b.offset+metaLen(b.metas)+footerSize)
	for _, blk := range b.blocks {
		buf = blk.AppendEncoded(buf)
	}
	buf = EncodeBlockMeta(buf, b.metas)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.offset))

	// a failed write leaves the builder usable so Build can be retried
	f, err := file.Create(path, buf)
	if err != nil {
		return nil, err
	}
	b.built = true

	for i, blk := range b.blocks {
		c.Add(id, i, blk)
	}
	t := &Table{
		id:         id,
		file:       f,
		metas:      b.metas,
		metaOffset: b.offset,
		cache:      c,
	}
	b.blocks = nil
	return t, nil
}
