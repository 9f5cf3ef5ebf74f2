//go:build linux

package mmap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// osDoubleMap backs the region with an anonymous memfd and maps it twice.
// The fd can be closed as soon as the views exist; they keep the backing
// object alive.
func osDoubleMap(size int) ([]byte, func() error, error) {
	fd, err := unix.MemfdCreate("mirrorbuf", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: memfd_create: %w", ErrOutOfMemory, err)
	}
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, nil, fmt.Errorf("%w: ftruncate to %d bytes: %w", ErrOutOfMemory, size, err)
	}

	return mapTwice(fd, size)
}
