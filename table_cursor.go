package lsmtable

import (
	"bytes"

	"github.com/stangelandcl/lsmtable/internal/table"
)

type FindResult int

const (
	// no values greater or equal to key exist
	NotFound FindResult = iota
	// exact match
	Found
	// found a value greater or equal to key
	FoundGreater
)

func (r FindResult) Empty() bool {
	return r == NotFound
}

func (r FindResult) Any() bool {
	return r != NotFound
}

type KV struct {
	Key, Value []byte
}

// Cursor moves forward over a table. key and value slices are
// valid until the table is closed
type Cursor struct {
	t   *table.Table
	it  *table.Iterator
	err error
}

// error from the last block read, if any
func (c *Cursor) Err() error {
	return c.err
}

func (c *Cursor) First(kv *KV) bool {
	c.it, c.err = table.NewIteratorFirst(c.t)
	return c.current(kv)
}

// if more is true kv is valid
func (c *Cursor) Next(kv *KV) bool {
	if c.it == nil {
		return c.First(kv)
	}
	if c.err != nil {
		return false
	}
	c.err = c.it.Next()
	return c.current(kv)
}

// set Key on input. key and value will be set if found or partial is true
// returns Found for exact match
// FoundGreater for found a value greater than key.
// NotFound for no values >= key
func (c *Cursor) Find(kv *KV) FindResult {
	find := kv.Key
	c.it, c.err = table.NewIteratorSeek(c.t, find)
	if !c.current(kv) {
		return NotFound
	}
	if bytes.Equal(kv.Key, find) {
		return Found
	}
	return FoundGreater
}

// set Key on input, value will be set if found is true
func (c *Cursor) Get(kv *KV) bool {
	find := kv.Key
	tmp := KV{Key: find}
	if c.Find(&tmp) != Found {
		return false
	}
	kv.Value = tmp.Value
	return true
}

func (c *Cursor) current(kv *KV) bool {
	if c.err != nil || c.it == nil || !c.it.Valid() {
		return false
	}
	kv.Key = c.it.Key()
	kv.Value = c.it.Value()
	return true
}
