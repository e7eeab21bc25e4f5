package table

import "github.com/stangelandcl/lsmtable/internal/block"

// Iterator walks a table in key order, loading blocks through the cache
type Iterator struct {
	table  *Table
	blk    *block.Iterator
	blkIdx int
}

// NewIteratorFirst positions at the first entry of the table
func NewIteratorFirst(t *Table) (*Iterator, error) {
	it := &Iterator{table: t}
	if err := it.SeekToFirst(); err != nil {
		return nil, err
	}
	return it, nil
}

// NewIteratorSeek positions at the first key >= key
func NewIteratorSeek(t *Table, key []byte) (*Iterator, error) {
	it := &Iterator{table: t}
	if err := it.SeekToKey(key); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *Iterator) Valid() bool {
	return it.blk != nil && it.blk.Valid()
}

func (it *Iterator) Key() []byte {
	if it.blk == nil {
		return nil
	}
	return it.blk.Key()
}

func (it *Iterator) Value() []byte {
	if it.blk == nil {
		return nil
	}
	return it.blk.Value()
}

func (it *Iterator) SeekToFirst() error {
	if err := it.load(0); err != nil {
		return err
	}
	it.blk.SeekToFirst()
	return nil
}

func (it *Iterator) SeekToKey(key []byte) error {
	if err := it.load(it.table.FindBlockIdx(key)); err != nil {
		return err
	}
	it.blk.SeekToKey(key)
	// key can sort after the last key of its block, answer is then the next block's first
	return it.skipExhausted()
}

func (it *Iterator) Next() error {
	if !it.Valid() {
		return nil
	}
	it.blk.Next()
	return it.skipExhausted()
}

func (it *Iterator) skipExhausted() error {
	for !it.blk.Valid() && it.blkIdx+1 < it.table.NumBlocks() {
		if err := it.load(it.blkIdx + 1); err != nil {
			return err
		}
		it.blk.SeekToFirst()
	}
	return nil
}

func (it *Iterator) load(idx int) error {
	b, err := it.table.ReadBlockCached(idx)
	if err != nil {
		it.blk = nil
		return err
	}
	it.blk = block.NewIterator(b)
	it.blkIdx = idx
	return nil
}
