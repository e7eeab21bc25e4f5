package file

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
)

var ErrOutOfRange = errors.New("file: read out of range")

// Object is a read only, byte addressable table file.
// safe for concurrent reads
type Object struct {
	Filename string
	f        *os.File
	buf      []byte
	unmap    func([]byte) error
}

// Create writes data to path in a single pass and opens the result.
// data goes to a temp file which is synced then renamed over path
func Create(path string, data []byte) (*Object, error) {
	tmp := path + ".tmp"
	err := write(tmp, data)
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		if rerr := os.Remove(tmp); rerr != nil && !os.IsNotExist(rerr) {
			log.Printf("file: removing %v: %v\n", tmp, rerr)
		}
		return nil, err
	}
	return Open(path)
}

func write(filename string, data []byte) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(f, 1024*1024)
	_, err1 := w.Write(data)
	if err1 == nil {
		err1 = w.Flush()
	}
	var err2 error
	if err1 == nil {
		err2 = f.Sync()
	}
	err3 := f.Close()
	if err1 != nil {
		return err1
	}
	if err2 != nil {
		return err2
	}
	return err3
}

func Open(path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	o := &Object{
		Filename: path,
		f:        f,
	}
	if fi.Size() > 0 {
		o.buf, o.unmap, err = mapFile(f, int(fi.Size()))
		if err != nil {
			f.Close()
			return nil, err
		}
	}
	return o, nil
}

func (o *Object) Size() int {
	return len(o.buf)
}

// ReadRange returns length bytes at offset. the slice references the
// mapping and is only valid until Close
func (o *Object) ReadRange(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(o.buf) {
		return nil, fmt.Errorf("%w: %v+%v of %v in %v", ErrOutOfRange, offset, length, len(o.buf), o.Filename)
	}
	return o.buf[offset : offset+length], nil
}

// Close is safe to call more than once
func (o *Object) Close() error {
	if o.f == nil {
		return nil
	}
	var err1 error
	if o.buf != nil && o.unmap != nil {
		err1 = o.unmap(o.buf)
	}
	err2 := o.f.Close()
	o.buf = nil
	o.f = nil
	if err1 != nil {
		return err1
	}
	return err2
}
