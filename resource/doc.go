// Package resource tracks and limits the virtual address space consumed by
// double-mapped buffers.
//
// Every buffer reserves twice its realized size (both halves of the double
// mapping). Programs that create many buffers can share one Controller to
// keep the total reservation under a hard limit:
//
//	rc := resource.NewController(resource.Config{
//	    MappedBytesLimit: 1 << 30, // 1 GiB of doubled address space
//	})
//
//	buf, err := mirrorbuf.New[byte](4096, mirrorbuf.WithAcquirer(rc))
//	if errors.Is(err, resource.ErrLimitExceeded) { ... }
//
// AcquireMemory is non-blocking and fails fast; callers own any retry or
// backoff policy. A nil *Controller is valid and enforces nothing.
package resource
