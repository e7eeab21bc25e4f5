package lsmtable

import (
	"bytes"
	"fmt"

	"github.com/stangelandcl/lsmtable/internal/cache"
	"github.com/stangelandcl/lsmtable/internal/table"
)

// Writer builds one table. nothing touches disk until Commit
type Writer struct {
	path   string
	cache  *cache.BlockCache
	b      *table.Builder
	last   []byte
	closed bool
}

func Create(path string, opts ...Opt) (*Writer, error) {
	o := newOptions(opts)
	c, err := o.blockCache()
	if err != nil {
		return nil, err
	}
	return &Writer{
		path:  path,
		cache: c,
		b:     table.NewBuilder(o.blockSize),
	}, nil
}

// keys must be added in sorted order.
// fails if bytes.Compare(key, lastKey) <= 0
func (w *Writer) Add(key, val []byte) error {
	if w.closed {
		return ErrClosed
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if w.last != nil && bytes.Compare(w.last, key) >= 0 {
		return fmt.Errorf("%w. last: %q current: %q", ErrOutOfOrder, w.last, key)
	}
	if err := w.b.Add(key, val); err != nil {
		return err
	}
	w.last = append(w.last[:0], key...)
	return nil
}

// estimated bytes of full blocks so far. callers can
// commit and start a new table once this is big enough
func (w *Writer) EstimatedSize() int {
	return w.b.EstimatedSize()
}

// Commit writes the table file in one pass and returns it opened
func (w *Writer) Commit() (*Table, error) {
	if w.closed {
		return nil, ErrClosed
	}
	t, err := w.b.Build(nextID(), w.cache, w.path)
	if err != nil {
		return nil, err
	}
	w.closed = true
	return &Table{t: t}, nil
}
