//go:build !debug_init_allocs

package ewram

import "github.com/ewramkit/arena/memutils/freelist"

const (
	// InitializeAllocs causes all new allocations to be filled with deterministic data, and all
	// released allocations to be overwritten. If you are concerned that stale or uninitialized arena
	// contents are causing a bug, you can activate this to help diagnose the issue. It impacts
	// performance and should generally be left deactivated.
	InitializeAllocs bool = false
)

func (a *Allocator) fillAllocation(ptr freelist.Pointer, size int, pattern uint8) {}
