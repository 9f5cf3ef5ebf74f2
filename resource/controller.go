package resource

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrLimitExceeded is returned when an acquisition would exceed the
// configured mapped-bytes limit.
var ErrLimitExceeded = errors.New("resource: mapped-bytes limit exceeded")

// Config holds resource limits.
type Config struct {
	// MappedBytesLimit is the hard limit for doubled mapped address space.
	// If 0, no hard limit is enforced (only tracking).
	MappedBytesLimit int64
}

// Controller tracks the address space reserved by double-mapped buffers.
type Controller struct {
	cfg Config

	sem  *semaphore.Weighted // nil if unlimited
	used atomic.Int64
}

// NewController creates a new Controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MappedBytesLimit > 0 {
		c.sem = semaphore.NewWeighted(cfg.MappedBytesLimit)
	}

	return c
}

// AcquireMemory attempts to reserve address space.
// Returns ErrLimitExceeded if the limit would be exceeded.
// Non-blocking - callers control retry/backoff policy.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.sem != nil {
		if !c.sem.TryAcquire(bytes) {
			return ErrLimitExceeded
		}
	}

	c.used.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved address space.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.sem != nil {
		c.sem.Release(bytes)
	}
	c.used.Add(-bytes)
}

// MemoryUsage returns the currently reserved address space in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.used.Load()
}

// MemoryLimit returns the configured limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MappedBytesLimit
}
