package table

import (
	"encoding/binary"
	"fmt"

	"github.com/stangelandcl/lsmtable/internal/varint"
)

// BlockMeta locates a block inside the table without decoding it
type BlockMeta struct {
	// byte offset of the encoded block from the start of the file
	Offset int
	// first key stored in the block
	FirstKey []byte
}

// meta section layout, all uvarints except the keys:
//
//	count | offset 0 | key len 0 | key 0 | ... | offset n-1 | key len n-1 | key n-1
func metaLen(metas []BlockMeta) int {
	n := varint.Len(len(metas))
	for _, m := range metas {
		n += varint.Len(m.Offset) + varint.Len(len(m.FirstKey)) + len(m.FirstKey)
	}
	return n
}

// EncodeBlockMeta appends the encoded meta section to dst
func EncodeBlockMeta(dst []byte, metas []BlockMeta) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(metas)))
	for _, m := range metas {
		dst = binary.AppendUvarint(dst, uint64(m.Offset))
		dst = binary.AppendUvarint(dst, uint64(len(m.FirstKey)))
		dst = append(dst, m.FirstKey...)
	}
	return dst
}

// DecodeBlockMeta decodes a meta section. buf must hold exactly one section.
// keys are copied out of buf
func DecodeBlockMeta(buf []byte) ([]BlockMeta, error) {
	pos := 0
	count, err := varint.Read(buf, &pos)
	if err != nil {
		return nil, fmt.Errorf("%w: meta count: %v", ErrCorruptTable, err)
	}
	// every meta takes at least 3 bytes
	if count > (len(buf)-pos)/3 {
		return nil, fmt.Errorf("%w: %v metas in %v bytes", ErrCorruptTable, count, len(buf))
	}

	metas := make([]BlockMeta, 0, count)
	for i := 0; i < count; i++ {
		offset, err := varint.Read(buf, &pos)
		if err != nil {
			return nil, fmt.Errorf("%w: meta %v offset: %v", ErrCorruptTable, i, err)
		}
		klen, err := varint.Read(buf, &pos)
		if err != nil {
			return nil, fmt.Errorf("%w: meta %v key length: %v", ErrCorruptTable, i, err)
		}
		if klen == 0 || klen > len(buf)-pos {
			return nil, fmt.Errorf("%w: meta %v key length %v", ErrCorruptTable, i, klen)
		}
		key := make([]byte, klen)
		copy(key, buf[pos:pos+klen])
		pos += klen
		metas = append(metas, BlockMeta{Offset: offset, FirstKey: key})
	}
	if pos != len(buf) {
		return nil, fmt.Errorf("%w: %v trailing meta bytes", ErrCorruptTable, len(buf)-pos)
	}
	return metas, nil
}
