package mmap

import (
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/mirrorbuf/internal/conv"
)

// maxAttempts bounds the retry loop for address-space collisions while
// placing the two fixed-address views.
const maxAttempts = 64

// Mapping represents a double-mapped memory region.
// It owns both views and the backing object and is responsible for
// releasing them.
type Mapping struct {
	data   []byte // doubled window: len(data) == 2*Size()
	size   int    // bytes in one half
	closed atomic.Bool
	// unmap is the platform-specific function to release both views
	// and the backing object.
	unmap func() error
}

// Granularity returns the allocation granularity all realized sizes are
// rounded to. On Unix this is the system page size; on Windows it is the
// allocation granularity required for fixed-address views.
func Granularity() int {
	return osGranularity()
}

// RealizedSize returns the granularity-rounded size of one half for a
// request of minBytes. It fails with ErrSizeOverflow if the rounded size,
// or its doubled reservation, cannot be represented.
func RealizedSize(minBytes int) (int, error) {
	if minBytes <= 0 {
		return 0, ErrInvalidSize
	}

	g := Granularity()
	rounded, err := conv.AddInt(minBytes, g-1)
	if err != nil {
		return 0, ErrSizeOverflow
	}
	size := rounded &^ (g - 1)

	// The reservation spans both halves.
	if _, err := conv.MulInt(size, 2); err != nil {
		return 0, ErrSizeOverflow
	}
	return size, nil
}

// Map allocates a double-mapped region of at least minBytes bytes.
// The realized size is RealizedSize(minBytes); construction is
// all-or-nothing.
func Map(minBytes int) (*Mapping, error) {
	size, err := RealizedSize(minBytes)
	if err != nil {
		return nil, err
	}

	data, unmap, err := osDoubleMap(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		unmap: unmap,
	}, nil
}

// Close unmaps both views and releases the backing object. It is idempotent.
func (m *Mapping) Close() error {
	if m == nil {
		return nil
	}
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil {
		return m.unmap()
	}
	return nil
}

// Size returns the size of one half in bytes. It is always a positive
// multiple of Granularity().
func (m *Mapping) Size() int {
	return m.size
}

// Base returns the start address of the primary half, or nil when closed.
// The address is Granularity()-aligned for the lifetime of the mapping.
func (m *Mapping) Base() unsafe.Pointer {
	if m.closed.Load() {
		return nil
	}
	return unsafe.Pointer(&m.data[0])
}

// Bytes returns the doubled window of 2*Size() bytes, or nil when closed.
// The second half aliases the first: Bytes()[Size()+k] is the same storage
// as Bytes()[k].
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Advise provides hints to the kernel about how the region will be accessed.
// The hint covers both views.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.data, pattern)
}

// Lock pins both views into physical memory.
func (m *Mapping) Lock() error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osLock(m.data)
}

// Unlock releases a previous Lock.
func (m *Mapping) Unlock() error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osUnlock(m.data)
}
