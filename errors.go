package mirrorbuf

import (
	"errors"
	"fmt"

	"github.com/hupe1980/mirrorbuf/internal/mmap"
)

var (
	// ErrInvalidItemCount is returned when the requested item count is not positive.
	ErrInvalidItemCount = errors.New("item count must be positive")
	// ErrSizeOverflow is returned when the requested region size cannot be represented.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrUnsupported is returned when the element layout cannot be honored by
	// page-granularity mapping (zero-size elements, alignment above the page size).
	ErrUnsupported = errors.New("unsupported element layout")
	// ErrOutOfMemory is returned when the backing storage allocation fails.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrMappingFailed is returned when the double mapping cannot be
	// established even after bounded retries for address-space races.
	ErrMappingFailed = errors.New("double mapping failed")
	// ErrClosed is returned when operating on a closed buffer.
	ErrClosed = errors.New("buffer is closed")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, mmap.ErrSizeOverflow), errors.Is(err, mmap.ErrInvalidSize):
		return fmt.Errorf("%w: %w", ErrSizeOverflow, err)
	case errors.Is(err, mmap.ErrOutOfMemory):
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	case errors.Is(err, mmap.ErrMappingFailed):
		return fmt.Errorf("%w: %w", ErrMappingFailed, err)
	case errors.Is(err, mmap.ErrClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return err
}
