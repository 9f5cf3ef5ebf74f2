//go:build unix

package mmap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapTwice reserves 2*size bytes of address space and overlays two shared
// read/write views of fd onto the two halves. MAP_FIXED inside our own
// reservation cannot clobber unrelated mappings, so a failed overlay only
// costs us the reservation; a fresh candidate is tried up to maxAttempts
// times.
func mapTwice(fd int, size int) ([]byte, func() error, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_SHARED | unix.MAP_FIXED

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := unix.Mmap(-1, 0, 2*size, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reserve %d bytes: %w", ErrMappingFailed, 2*size, err)
		}
		base := unsafe.Pointer(&res[0])

		if _, err := unix.MmapPtr(fd, 0, base, uintptr(size), prot, flags); err != nil {
			lastErr = fmt.Errorf("map first half: %w", err)
			_ = unix.Munmap(res)
			continue
		}
		if _, err := unix.MmapPtr(fd, 0, unsafe.Add(base, size), uintptr(size), prot, flags); err != nil {
			lastErr = fmt.Errorf("map second half: %w", err)
			_ = unix.Munmap(res)
			continue
		}

		// Both fixed maps landed inside the reservation, so a single munmap
		// of the full doubled range releases everything.
		unmap := func() error {
			return unix.Munmap(res)
		}
		return res, unmap, nil
	}

	return nil, nil, fmt.Errorf("%w: %d attempts: %w", ErrMappingFailed, maxAttempts, lastErr)
}
