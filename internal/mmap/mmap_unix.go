//go:build unix && !linux

package mmap

import (
	"fmt"
	"os"
)

// osDoubleMap backs the region with an unlinked temp file. memfd_create is
// Linux-only; an unlinked file behaves the same for mapping purposes and
// its storage disappears with the last reference.
func osDoubleMap(size int) ([]byte, func() error, error) {
	f, err := os.CreateTemp("", "mirrorbuf-*")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create backing file: %w", ErrOutOfMemory, err)
	}
	defer f.Close()
	_ = os.Remove(f.Name())

	if err := f.Truncate(int64(size)); err != nil {
		return nil, nil, fmt.Errorf("%w: truncate backing file to %d bytes: %w", ErrOutOfMemory, size, err)
	}

	return mapTwice(int(f.Fd()), size)
}
