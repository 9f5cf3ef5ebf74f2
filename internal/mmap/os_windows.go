//go:build windows

package mmap

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var procGetSystemInfo = modkernel32.NewProc("GetSystemInfo")

type systemInfo struct {
	processorArchitecture     uint16
	reserved                  uint16
	pageSize                  uint32
	minimumApplicationAddress uintptr
	maximumApplicationAddress uintptr
	activeProcessorMask       uintptr
	numberOfProcessors        uint32
	processorType             uint32
	allocationGranularity     uint32
	processorLevel            uint16
	processorRevision         uint16
}

// osGranularity returns the allocation granularity (64 KiB on current
// Windows), not the 4 KiB page size: MapViewOfFileEx base addresses must
// be granularity-aligned.
var osGranularity = sync.OnceValue(func() int {
	var si systemInfo
	_, _, _ = procGetSystemInfo.Call(uintptr(unsafe.Pointer(&si)))
	return int(si.allocationGranularity)
})

func osAdvise(data []byte, pattern AccessPattern) error {
	// Windows has no direct madvise equivalent. PrefetchVirtualMemory could
	// serve AccessWillNeed on Windows 8+, but the hint is non-critical, so
	// this is a no-op.
	_ = data
	_ = pattern
	return nil
}

func osLock(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return windows.VirtualLock(uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)))
}

func osUnlock(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return windows.VirtualUnlock(uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)))
}
