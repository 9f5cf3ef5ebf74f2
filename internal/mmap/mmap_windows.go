//go:build windows

package mmap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32         = windows.NewLazySystemDLL("kernel32.dll")
	procMapViewOfFileEx = modkernel32.NewProc("MapViewOfFileEx")
)

// osDoubleMap backs the region with a pagefile-backed section and maps two
// adjacent views of it. Windows has no MAP_FIXED-into-reservation
// equivalent: a throwaway reservation probes for a doubled-size hole, is
// released, and the hole is re-claimed with two fixed-address views. The
// release-to-map window can race with unrelated mappings in other threads,
// so a collision retries with a fresh candidate address.
func osDoubleMap(size int) ([]byte, func() error, error) {
	sz := uint64(size)
	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, uint32(sz>>32), uint32(sz), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: CreateFileMapping: %w", ErrOutOfMemory, err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		addr, err := windows.VirtualAlloc(0, uintptr(2*size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
		if err != nil {
			lastErr = fmt.Errorf("reserve %d bytes: %w", 2*size, err)
			break
		}
		if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
			lastErr = fmt.Errorf("release reservation: %w", err)
			break
		}

		access := uint32(windows.FILE_MAP_READ | windows.FILE_MAP_WRITE)
		v1, err := mapViewOfFileEx(h, access, 0, 0, uintptr(size), addr)
		if err != nil {
			lastErr = fmt.Errorf("map first half: %w", err)
			continue
		}
		v2, err := mapViewOfFileEx(h, access, 0, 0, uintptr(size), addr+uintptr(size))
		if err != nil {
			lastErr = fmt.Errorf("map second half: %w", err)
			_ = windows.UnmapViewOfFile(v1)
			continue
		}

		data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), 2*size)
		unmap := func() error {
			err1 := windows.UnmapViewOfFile(v1)
			err2 := windows.UnmapViewOfFile(v2)
			err3 := windows.CloseHandle(h)
			if err1 != nil {
				return err1
			}
			if err2 != nil {
				return err2
			}
			return err3
		}
		return data, unmap, nil
	}

	_ = windows.CloseHandle(h)
	return nil, nil, fmt.Errorf("%w: %d attempts: %w", ErrMappingFailed, maxAttempts, lastErr)
}

func mapViewOfFileEx(h windows.Handle, access uint32, offHigh, offLow uint32, length uintptr, base uintptr) (uintptr, error) {
	r0, _, e1 := procMapViewOfFileEx.Call(uintptr(h), uintptr(access), uintptr(offHigh), uintptr(offLow), length, base)
	if r0 == 0 {
		return 0, e1
	}
	return r0, nil
}
