//go:build !(darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd)
// +build !darwin,!dragonfly,!freebsd,!linux,!openbsd,!solaris,!netbsd

package file

import (
	"io"
	"os"
)

// no mmap, read the whole file
func mapFile(f *os.File, size int) ([]byte, func([]byte) error, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(f, b); err != nil {
		return nil, nil, err
	}
	return b, nil, nil
}
