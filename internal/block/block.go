package block

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
)

// entry layout within data:
//
//	key len (u16) | key | value len (u16) | value
//
// encoded block layout:
//
//	entry 0 | ... | entry n-1 | offset 0 (u16) | ... | offset n-1 (u16) | n (u16)
//
// everything little endian
const sizeofU16 = 2

var ErrCorruptBlock = errors.New("block: corrupt block")

// Block is immutable once built. it can be shared between
// any number of iterators and the block cache.
type Block struct {
	data    []byte
	offsets []uint16
}

// Len returns the number of entries
func (b *Block) Len() int {
	return len(b.offsets)
}

// Entry returns key and value at idx. slices reference block memory
// and must not be modified
func (b *Block) Entry(idx int) (key, value []byte) {
	pos := int(b.offsets[idx])
	n := int(binary.LittleEndian.Uint16(b.data[pos:]))
	pos += sizeofU16
	key = b.data[pos : pos+n]
	pos += n
	n = int(binary.LittleEndian.Uint16(b.data[pos:]))
	pos += sizeofU16
	value = b.data[pos : pos+n]
	return
}

// 1 for the entry count + data + offsets
func (b *Block) EstimatedSize() int {
	return 1 + len(b.data) + len(b.offsets)*sizeofU16
}

// EncodedLen is the exact length of Encode()
func (b *Block) EncodedLen() int {
	return len(b.data) + len(b.offsets)*sizeofU16 + sizeofU16
}

func (b *Block) Encode() []byte {
	return b.AppendEncoded(nil)
}

// AppendEncoded appends the encoded block to dst
func (b *Block) AppendEncoded(dst []byte) []byte {
	if len(b.offsets) == 0 {
		log.Panicln("block: tried to encode empty block")
	}
	dst = append(dst, b.data...)
	for _, o := range b.offsets {
		dst = binary.LittleEndian.AppendUint16(dst, o)
	}
	return binary.LittleEndian.AppendUint16(dst, uint16(len(b.offsets)))
}

// Decode copies buf so the block stays valid after the
// underlying file is unmapped
func Decode(buf []byte) (*Block, error) {
	if len(buf) < sizeofU16 {
		return nil, fmt.Errorf("%w: %v bytes", ErrCorruptBlock, len(buf))
	}
	end := len(buf) - sizeofU16
	count := int(binary.LittleEndian.Uint16(buf[end:]))
	if count == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrCorruptBlock)
	}
	start := end - count*sizeofU16
	if start < 0 {
		return nil, fmt.Errorf("%w: %v entries in %v bytes", ErrCorruptBlock, count, len(buf))
	}

	b := &Block{
		data:    append([]byte(nil), buf[:start]...),
		offsets: make([]uint16, count),
	}
	for i := range b.offsets {
		b.offsets[i] = binary.LittleEndian.Uint16(buf[start+i*sizeofU16:])
	}
	if err := b.check(); err != nil {
		return nil, err
	}
	return b, nil
}

// check verifies every entry lies inside data and ends where the next one starts
// so Entry can never read out of bounds
func (b *Block) check() error {
	if b.offsets[0] != 0 {
		return fmt.Errorf("%w: first offset %v", ErrCorruptBlock, b.offsets[0])
	}
	for i, o := range b.offsets {
		end := len(b.data)
		if i+1 < len(b.offsets) {
			end = int(b.offsets[i+1])
		}
		if end <= int(o) || end > len(b.data) {
			return fmt.Errorf("%w: offset %v out of range at entry %v", ErrCorruptBlock, o, i)
		}

		pos := int(o)
		if pos+sizeofU16 > end {
			return fmt.Errorf("%w: truncated key length at entry %v", ErrCorruptBlock, i)
		}
		klen := int(binary.LittleEndian.Uint16(b.data[pos:]))
		if klen == 0 {
			return fmt.Errorf("%w: empty key at entry %v", ErrCorruptBlock, i)
		}
		pos += sizeofU16 + klen
		if pos+sizeofU16 > end {
			return fmt.Errorf("%w: truncated key at entry %v", ErrCorruptBlock, i)
		}
		vlen := int(binary.LittleEndian.Uint16(b.data[pos:]))
		pos += sizeofU16 + vlen
		if pos != end {
			return fmt.Errorf("%w: entry %v length mismatch", ErrCorruptBlock, i)
		}
	}
	return nil
}
