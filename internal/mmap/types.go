package mmap

import "errors"

// AccessPattern provides hints to the kernel about how the mapped memory
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

var (
	// ErrClosed is returned when attempting to operate on a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the requested size is not positive.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrSizeOverflow is returned when the doubled, granularity-rounded size
	// cannot be represented.
	ErrSizeOverflow = errors.New("mmap: size overflow")
	// ErrOutOfMemory is returned when the backing object cannot be allocated.
	ErrOutOfMemory = errors.New("mmap: backing allocation failed")
	// ErrMappingFailed is returned when the two fixed-address views cannot be
	// established after bounded retries.
	ErrMappingFailed = errors.New("mmap: double mapping failed")
)
