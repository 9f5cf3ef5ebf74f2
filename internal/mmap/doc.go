// Package mmap establishes double-mapped memory regions: one physical
// allocation mapped twice at adjacent virtual addresses, so the byte range
// following the region is a live mirror of the region itself.
//
// # Overview
//
// A Mapping owns a backing object of Size() bytes and two contiguous
// read/write views of it. For every offset k in [0, Size()), the bytes at
// Base()+k and Base()+Size()+k are the same physical storage; a write
// through either address is immediately visible through the other. Ring
// buffers built on top of this never need wraparound index arithmetic.
//
// # Usage
//
//	m, err := mmap.Map(4096)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // 2*Size() bytes, second half mirrors the first
//	data[0] = 42      // data[m.Size()] is now 42 as well
//
// # Platform Support
//
// The package provides a unified API across platforms:
//
//   - Linux: memfd_create(2) backing, two MAP_FIXED|MAP_SHARED maps inside
//     a private PROT_NONE reservation
//   - Other Unix (macOS, BSD): unlinked temp-file backing, same mapping
//     technique
//   - Windows: pagefile-backed CreateFileMapping with two MapViewOfFileEx
//     views at probed fixed addresses, retried on address-space collisions
//
// All realized sizes are rounded up to Granularity(): the page size on
// Unix, the allocation granularity (64 KiB) on Windows.
//
// # Thread Safety
//
// Close() is idempotent and protected by atomic operations. The mapped
// memory itself carries no synchronization; callers coordinate concurrent
// access to overlapping ranges themselves.
package mmap
