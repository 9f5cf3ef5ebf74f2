//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func osGranularity() int {
	return os.Getpagesize()
}

func osAdvise(data []byte, pattern AccessPattern) error {
	if len(data) == 0 {
		return nil
	}

	var advice int
	switch pattern {
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	case AccessDontNeed:
		advice = unix.MADV_DONTNEED
	default:
		advice = unix.MADV_NORMAL
	}

	// The hint is advisory and non-critical; EINVAL (e.g. an advice value
	// the kernel rejects for shared mappings) is silently ignored.
	err := unix.Madvise(data, advice)
	if err == unix.EINVAL {
		return nil
	}
	return err
}

func osLock(data []byte) error {
	return unix.Mlock(data)
}

func osUnlock(data []byte) error {
	return unix.Munlock(data)
}
