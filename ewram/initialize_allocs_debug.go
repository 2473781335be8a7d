//go:build debug_init_allocs

package ewram

import (
	"fmt"

	"github.com/ewramkit/arena/memutils/freelist"
)

const (
	// InitializeAllocs causes all new allocations to be filled with deterministic data, and all
	// released allocations to be overwritten. If you are concerned that stale or uninitialized arena
	// contents are causing a bug, you can activate this to help diagnose the issue. It impacts
	// performance and should generally be left deactivated.
	InitializeAllocs bool = true
)

func (a *Allocator) fillAllocation(ptr freelist.Pointer, size int, pattern uint8) {
	data, err := a.metadata.Bytes(ptr, size)
	if err != nil {
		panic(fmt.Sprintf("failed when attempting to view arena memory during debug pattern fill: %+v", err))
	}

	for i := range data {
		data[i] = pattern
	}
}
