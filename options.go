package mirrorbuf

// MemoryAcquirer budgets the address space consumed by buffers.
// *resource.Controller implements it; custom trackers can too.
type MemoryAcquirer interface {
	// AcquireMemory reserves the given number of bytes, or fails without
	// reserving anything.
	AcquireMemory(bytes int64) error
	// ReleaseMemory returns previously acquired bytes.
	ReleaseMemory(bytes int64)
}

type config struct {
	acquirer MemoryAcquirer
}

// Option configures buffer construction.
type Option func(*config)

// WithAcquirer charges the doubled realized size of the buffer against a
// shared budget before the mapping is established. If the acquisition
// fails, New returns that error and nothing is mapped; the charge is
// released when the buffer is closed (or when mapping fails).
func WithAcquirer(a MemoryAcquirer) Option {
	return func(c *config) {
		c.acquirer = a
	}
}
