package block

import (
	"encoding/binary"
	"log"
	"math"
)

// Builder fills a single block up to blockSize bytes
type Builder struct {
	blockSize int
	block     Block
}

func NewBuilder(blockSize int) *Builder {
	return &Builder{
		blockSize: blockSize,
	}
}

// HasSpace reports whether key and value can be added without going over
// the block size. an empty block always has space so oversized entries
// still make progress. keys and values over 64K never fit
func (b *Builder) HasSpace(keylen, vallen int) bool {
	if keylen > math.MaxUint16 || vallen > math.MaxUint16 {
		return false
	}
	if b.IsEmpty() {
		return true
	}
	// next entry offset must fit in a u16
	if len(b.block.data) > math.MaxUint16 {
		return false
	}
	// offset + key len + value len + key + value
	sz := b.block.EstimatedSize() + 3*sizeofU16 + keylen + vallen
	return sz <= b.blockSize
}

// Add returns false without changing the block when it is full.
// keys must be added in ascending order
func (b *Builder) Add(key, value []byte) bool {
	if len(key) == 0 {
		log.Panicln("block: key must not be empty")
	}
	if !b.HasSpace(len(key), len(value)) {
		return false
	}

	b.block.offsets = append(b.block.offsets, uint16(len(b.block.data)))
	b.block.data = binary.LittleEndian.AppendUint16(b.block.data, uint16(len(key)))
	b.block.data = append(b.block.data, key...)
	b.block.data = binary.LittleEndian.AppendUint16(b.block.data, uint16(len(value)))
	b.block.data = append(b.block.data, value...)
	return true
}

func (b *Builder) IsEmpty() bool {
	return len(b.block.offsets) == 0
}

// EstimatedSize of the block being built
func (b *Builder) EstimatedSize() int {
	return b.block.EstimatedSize()
}

// Build hands the block over and leaves the builder empty
func (b *Builder) Build() *Block {
	if b.IsEmpty() {
		log.Panicln("block: tried to build empty block")
	}
	blk := &Block{
		data:    b.block.data,
		offsets: b.block.offsets,
	}
	b.block = Block{}
	return blk
}
