//go:build unix

package engine

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapRegion maps [offset, offset+length) of f. mmap wants a page aligned
// offset, so the mapping starts at the enclosing page boundary.
func mapRegion(f *os.File, offset, length int64) ([]byte, func() error, error) {
	page := int64(os.Getpagesize())
	aligned := offset - offset%page
	skip := offset - aligned

	mem, err := unix.Mmap(int(f.Fd()), aligned, int(length+skip), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}

	return mem[skip : skip+length], func() error { return unix.Munmap(mem) }, nil
}
