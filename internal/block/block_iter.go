package block

import (
	"bytes"
	"sort"
)

type iterState byte

const (
	exhausted iterState = iota
	positioned
)

// Iterator is a cursor over one block. each iterator keeps its own
// position so many can share a block without locking
type Iterator struct {
	block *Block
	state iterState
	idx   int
	key   []byte
	value []byte
}

func NewIterator(b *Block) *Iterator {
	return &Iterator{block: b}
}

// NewIteratorFirst creates an iterator positioned at the first entry
func NewIteratorFirst(b *Block) *Iterator {
	it := NewIterator(b)
	it.SeekToFirst()
	return it
}

// NewIteratorSeek creates an iterator positioned at the first key >= key
func NewIteratorSeek(b *Block, key []byte) *Iterator {
	it := NewIterator(b)
	it.SeekToKey(key)
	return it
}

func (it *Iterator) Valid() bool {
	return it.state == positioned
}

// Key is nil when the iterator is not valid
func (it *Iterator) Key() []byte {
	return it.key
}

// Value is nil when the iterator is not valid
func (it *Iterator) Value() []byte {
	return it.value
}

func (it *Iterator) SeekToFirst() {
	it.seek(0)
}

func (it *Iterator) Next() {
	if it.state == exhausted {
		return
	}
	it.seek(it.idx + 1)
}

// SeekToKey moves to the first key >= key or becomes invalid if
// every key is smaller
func (it *Iterator) SeekToKey(key []byte) {
	idx := sort.Search(it.block.Len(), func(i int) bool {
		k, _ := it.block.Entry(i)
		return bytes.Compare(k, key) >= 0
	})
	it.seek(idx)
}

func (it *Iterator) seek(idx int) {
	if idx >= it.block.Len() {
		it.state = exhausted
		it.idx = it.block.Len()
		it.key = nil
		it.value = nil
		return
	}
	it.state = positioned
	it.idx = idx
	it.key, it.value = it.block.Entry(idx)
}
