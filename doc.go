// Package mirrorbuf provides a double-mapped (mirrored) memory buffer for Go.
//
// A Buffer is a region of virtual address space backed by a single physical
// allocation that is mapped twice, contiguously: the byte range immediately
// following the region is a live mirror of the region itself. A circular
// buffer built on top of it can always be addressed linearly — any window
// of up to Len() elements starting at any offset in [0, Len()] is plain
// contiguous memory, with wraparound handled by the virtual memory system
// instead of index arithmetic or copying.
//
// # Quick Start
//
//	buf, err := mirrorbuf.New[byte](4096)
//	if err != nil { ... }
//	defer buf.Close()
//
//	n := buf.Len() // realized capacity, >= 4096, page-rounded
//
//	// A window that starts near the end of the region runs seamlessly
//	// into the mirrored half:
//	w := buf.SliceWithOffset(n - 3)
//	copy(w, payload) // no wrap handling needed
//
// The element type is carried by the type parameter; element size and
// alignment are derived from it. Alignment up to the page size is
// guaranteed by the mapping itself.
//
// # Safety Contract
//
// Slice and SliceWithOffset return windows over the same storage — that
// aliasing is the entire point of the structure. The package performs no
// internal synchronization: callers that mutate and observe overlapping
// index ranges from different goroutines must coordinate with their own
// synchronization (e.g. publish a write index with atomic ordering before
// a reader consumes it). Single-goroutine use needs no such discipline.
//
// Returned slices must not be used after Close; accessors called on a
// closed buffer return nil.
//
// # Sizing
//
// The realized size of one half is the requested byte count rounded up to
// PageSize(), so Len() can exceed the requested item count. When the
// element size does not divide the realized byte length, the remainder
// bytes at the tail of a half are unreachable through the typed view.
//
// # Resource Budgeting
//
// Each buffer consumes address space for both halves (2x its realized
// size). Programs creating many buffers can bound the total with a shared
// resource.Controller via WithAcquirer.
package mirrorbuf
