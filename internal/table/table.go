package table

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/stangelandcl/lsmtable/internal/block"
	"github.com/stangelandcl/lsmtable/internal/cache"
)

// table layout:
//
//	block 0 | ... | block n-1 | meta section | meta offset (u32 le)
const footerSize = 4

var (
	ErrCorruptTable  = errors.New("table: corrupt table")
	ErrEmptyTable    = errors.New("table: tried to build empty table")
	ErrEntryTooLarge = errors.New("table: entry does not fit in an empty block")
	ErrBuilt         = errors.New("table: builder already built")
)

// File is the byte addressable storage a table reads blocks from
type File interface {
	ReadRange(offset, length int) ([]byte, error)
	Size() int
	Close() error
}

// Table is immutable and safe for concurrent readers
type Table struct {
	id         uint64
	file       File
	metas      []BlockMeta
	metaOffset int
	cache      *cache.BlockCache
}

// Open reads the footer and meta section of f. c may be nil
func Open(id uint64, c *cache.BlockCache, f File) (*Table, error) {
	size := f.Size()
	if size < footerSize {
		return nil, fmt.Errorf("%w: %v bytes", ErrCorruptTable, size)
	}
	footer, err := f.ReadRange(size-footerSize, footerSize)
	if err != nil {
		return nil, err
	}
	metaOffset := int(binary.LittleEndian.Uint32(footer))
	if metaOffset > size-footerSize {
		return nil, fmt.Errorf("%w: meta offset %v past end %v", ErrCorruptTable, metaOffset, size-footerSize)
	}

	buf, err := f.ReadRange(metaOffset, size-footerSize-metaOffset)
	if err != nil {
		return nil, err
	}
	metas, err := DecodeBlockMeta(buf)
	if err != nil {
		return nil, err
	}
	if err := checkMetas(metas, metaOffset); err != nil {
		return nil, err
	}

	return &Table{
		id:         id,
		file:       f,
		metas:      metas,
		metaOffset: metaOffset,
		cache:      c,
	}, nil
}

func checkMetas(metas []BlockMeta, metaOffset int) error {
	if len(metas) == 0 {
		return fmt.Errorf("%w: no blocks", ErrCorruptTable)
	}
	if metas[0].Offset != 0 {
		return fmt.Errorf("%w: first block at %v", ErrCorruptTable, metas[0].Offset)
	}
	for i := 1; i < len(metas); i++ {
		if metas[i].Offset <= metas[i-1].Offset {
			return fmt.Errorf("%w: block %v offset %v not increasing", ErrCorruptTable, i, metas[i].Offset)
		}
		if bytes.Compare(metas[i].FirstKey, metas[i-1].FirstKey) <= 0 {
			return fmt.Errorf("%w: block %v first key not increasing", ErrCorruptTable, i)
		}
	}
	if last := metas[len(metas)-1].Offset; last >= metaOffset {
		return fmt.Errorf("%w: block offset %v past meta offset %v", ErrCorruptTable, last, metaOffset)
	}
	return nil
}

func (t *Table) ID() uint64 {
	return t.id
}

func (t *Table) NumBlocks() int {
	return len(t.metas)
}

// BlockMetas must not be modified
func (t *Table) BlockMetas() []BlockMeta {
	return t.metas
}

// BlockMetaOffset is where the meta section starts
func (t *Table) BlockMetaOffset() int {
	return t.metaOffset
}

func (t *Table) FirstKey() []byte {
	return t.metas[0].FirstKey
}

// ReadBlock reads and decodes block idx from the file
func (t *Table) ReadBlock(idx int) (*block.Block, error) {
	if idx < 0 || idx >= len(t.metas) {
		return nil, fmt.Errorf("table: block %v out of range of %v blocks", idx, len(t.metas))
	}
	start := t.metas[idx].Offset
	end := t.metaOffset
	if idx+1 < len(t.metas) {
		end = t.metas[idx+1].Offset
	}
	buf, err := t.file.ReadRange(start, end-start)
	if err != nil {
		return nil, err
	}
	b, err := block.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("table %v block %v: %w", t.id, idx, err)
	}
	return b, nil
}

// ReadBlockCached reads block idx through the block cache
func (t *Table) ReadBlockCached(idx int) (*block.Block, error) {
	return t.cache.GetOrLoad(t.id, idx, func() (*block.Block, error) {
		return t.ReadBlock(idx)
	})
}

// FindBlockIdx returns the block that may contain key: the last block whose
// first key is <= key, or block 0 when key sorts before every block
func (t *Table) FindBlockIdx(key []byte) int {
	idx := sort.Search(len(t.metas), func(i int) bool {
		return bytes.Compare(t.metas[i].FirstKey, key) > 0
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (t *Table) Close() error {
	return t.file.Close()
}
