package mirrorbuf

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/mirrorbuf/internal/conv"
	"github.com/hupe1980/mirrorbuf/internal/mmap"
)

// AccessPattern provides hints to the kernel about how the buffer memory
// will be accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects data to be accessed sequentially.
	AccessSequential
	// AccessRandom expects data to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects data to be accessed in the near future.
	AccessWillNeed
	// AccessDontNeed expects data to not be accessed in the near future.
	AccessDontNeed
)

// PageSize returns the platform mapping granularity that realized buffer
// sizes are rounded to: the system page size on Unix, the allocation
// granularity on Windows.
func PageSize() int {
	return mmap.Granularity()
}

// Buffer is a double-mapped memory region typed over element type T.
//
// One half holds Len() elements; the adjacent half mirrors it, so the
// windows returned by Slice and SliceWithOffset alias the same physical
// storage. The buffer exclusively owns the underlying region: both
// mappings are released by Close, and no accessor result may outlive it.
//
// A Buffer carries no internal synchronization. Concurrent mutation and
// observation of overlapping index ranges across goroutines must be
// coordinated by the caller.
type Buffer[T any] struct {
	mapping  *mmap.Mapping
	items    int
	elemSize uintptr
	acquirer MemoryAcquirer
	charged  int64
	closed   atomic.Bool
}

// New creates a buffer with room for at least minItems elements of type T.
//
// The realized capacity is the smallest page-rounded size that fits the
// request, so Len() >= minItems. Element size and alignment are derived
// from T; alignments above PageSize() are unsupported. Construction is
// all-or-nothing: on error no resources remain acquired.
func New[T any](minItems int, opts ...Option) (*Buffer[T], error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	elemAlign := int(unsafe.Alignof(zero))

	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	mapping, items, charged, err := newRegion(minItems, elemSize, elemAlign, &cfg)
	if err != nil {
		return nil, err
	}

	return &Buffer[T]{
		mapping:  mapping,
		items:    items,
		elemSize: uintptr(elemSize),
		acquirer: cfg.acquirer,
		charged:  charged,
	}, nil
}

// newRegion validates the element layout, budgets the doubled address space
// and establishes the double mapping. It is the untyped core of New;
// generics only supply the element layout.
func newRegion(minItems, elemSize, elemAlign int, cfg *config) (*mmap.Mapping, int, int64, error) {
	if minItems <= 0 {
		return nil, 0, 0, ErrInvalidItemCount
	}
	if elemSize <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: zero-size element type", ErrUnsupported)
	}
	if elemAlign <= 0 || bits.OnesCount(uint(elemAlign)) != 1 {
		return nil, 0, 0, fmt.Errorf("%w: alignment %d is not a power of two", ErrUnsupported, elemAlign)
	}
	if g := mmap.Granularity(); elemAlign > g {
		return nil, 0, 0, fmt.Errorf("%w: alignment %d exceeds mapping granularity %d", ErrUnsupported, elemAlign, g)
	}

	minBytes, err := conv.MulInt(minItems, elemSize)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %d items of %d bytes", ErrSizeOverflow, minItems, elemSize)
	}

	size, err := mmap.RealizedSize(minBytes)
	if err != nil {
		return nil, 0, 0, translateError(err)
	}

	// Both halves count against the budget.
	charged := 2 * int64(size)
	if cfg.acquirer != nil {
		if err := cfg.acquirer.AcquireMemory(charged); err != nil {
			return nil, 0, 0, err
		}
	}

	mapping, err := mmap.Map(minBytes)
	if err != nil {
		if cfg.acquirer != nil {
			cfg.acquirer.ReleaseMemory(charged)
		}
		return nil, 0, 0, translateError(err)
	}

	return mapping, mapping.Size() / elemSize, charged, nil
}

// Len returns the number of elements in one half of the buffer.
// Len() * sizeof(T) is at most the realized byte length; remainder bytes
// of a half (when sizeof(T) does not divide it) are unreachable.
func (b *Buffer[T]) Len() int {
	return b.items
}

// Slice returns the primary window of Len() elements starting at the base
// of the region, or nil if the buffer is closed.
//
// The window is both readable and writable and aliases the storage seen by
// every other accessor; see the package safety contract.
func (b *Buffer[T]) Slice() []T {
	base := b.mapping.Base()
	if base == nil {
		return nil
	}
	return unsafe.Slice((*T)(base), b.items)
}

// SliceWithOffset returns a window of Len() elements starting offset
// elements into the region, or nil if the buffer is closed. The offset
// must be in [0, Len()]: at Len() the window lies entirely in the mirrored
// half, in between it straddles both halves. In every case
//
//	b.SliceWithOffset(off)[i] == b.Slice()[(off+i) % b.Len()]
//
// holds by the mirroring invariant alone; the accessor computes only an
// address and a length. It panics if offset is out of range.
func (b *Buffer[T]) SliceWithOffset(offset int) []T {
	if offset < 0 || offset > b.items {
		panic(fmt.Sprintf("mirrorbuf: offset %d out of range [0, %d]", offset, b.items))
	}
	base := b.mapping.Base()
	if base == nil {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Add(base, uintptr(offset)*b.elemSize)), b.items)
}

// Advise provides a kernel hint for the expected access pattern.
// No-op on platforms without madvise.
func (b *Buffer[T]) Advise(pattern AccessPattern) error {
	return translateError(b.mapping.Advise(pattern.internal()))
}

// Lock pins the buffer (both halves) into physical memory, for
// latency-sensitive consumers that cannot tolerate page faults.
func (b *Buffer[T]) Lock() error {
	return translateError(b.mapping.Lock())
}

// Unlock releases a previous Lock.
func (b *Buffer[T]) Unlock() error {
	return translateError(b.mapping.Unlock())
}

// Close unmaps both halves and releases the backing storage. It is
// idempotent. Windows returned by earlier accessor calls must not be used
// afterwards.
func (b *Buffer[T]) Close() error {
	if b.closed.Swap(true) {
		return nil // Already closed
	}

	err := b.mapping.Close()
	if b.acquirer != nil {
		b.acquirer.ReleaseMemory(b.charged)
	}
	return err
}

func (p AccessPattern) internal() mmap.AccessPattern {
	switch p {
	case AccessSequential:
		return mmap.AccessSequential
	case AccessRandom:
		return mmap.AccessRandom
	case AccessWillNeed:
		return mmap.AccessWillNeed
	case AccessDontNeed:
		return mmap.AccessDontNeed
	default:
		return mmap.AccessDefault
	}
}
