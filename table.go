package lsmtable

import (
	"errors"
	"log"
	"sync/atomic"

	"github.com/stangelandcl/lsmtable/internal/file"
	"github.com/stangelandcl/lsmtable/internal/table"
)

var (
	ErrEmptyKey   = errors.New("lsmtable: empty key")
	ErrOutOfOrder = errors.New("lsmtable: adding keys out of order")
	ErrClosed     = errors.New("lsmtable: writer closed")

	ErrCorrupt       = table.ErrCorruptTable
	ErrEmpty         = table.ErrEmptyTable
	ErrEntryTooLarge = table.ErrEntryTooLarge
)

// ids key the block cache so they must be unique per process
var tableID uint64

func nextID() uint64 {
	return atomic.AddUint64(&tableID, 1)
}

// Table is an immutable sorted table file.
// safe for concurrent use by multiple cursors
type Table struct {
	t *table.Table
}

// open existing table file
func Open(path string, opts ...Opt) (*Table, error) {
	o := newOptions(opts)
	c, err := o.blockCache()
	if err != nil {
		return nil, err
	}

	f, err := file.Open(path)
	if err != nil {
		return nil, err
	}
	t, err := table.Open(nextID(), c, f)
	if err != nil {
		f.Close()
		log.Printf("lsmtable: error opening %v: %v\n", path, err)
		return nil, err
	}
	return &Table{t: t}, nil
}

type Stats struct {
	// number of data blocks
	Blocks int
	// bytes of encoded blocks, the meta section starts here
	BlockBytes int
	// first key in the table
	FirstKey []byte
}

func (t *Table) Stats() Stats {
	return Stats{
		Blocks:     t.t.NumBlocks(),
		BlockBytes: t.t.BlockMetaOffset(),
		FirstKey:   t.t.FirstKey(),
	}
}

// cursors are cheap. each has its own position
func (t *Table) Cursor() *Cursor {
	return &Cursor{t: t.t}
}

// blocks stay in a shared cache after close
func (t *Table) Close() error {
	return t.t.Close()
}
