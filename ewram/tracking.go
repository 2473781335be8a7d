package ewram

import "github.com/dolthub/swiss"

type trackedAllocation struct {
	name string
	size int
}

// allocationTracker records every live allocation so that releases of unknown addresses can be
// rejected before they reach the arena
type allocationTracker struct {
	allocations *swiss.Map[Address, trackedAllocation]
}

func newAllocationTracker() *allocationTracker {
	return &allocationTracker{
		allocations: swiss.NewMap[Address, trackedAllocation](64),
	}
}

func (t *allocationTracker) Register(address Address, name string, size int) {
	t.allocations.Put(address, trackedAllocation{name: name, size: size})
}

func (t *allocationTracker) Lookup(address Address) (trackedAllocation, bool) {
	return t.allocations.Get(address)
}

func (t *allocationTracker) Unregister(address Address) bool {
	if !t.allocations.Has(address) {
		return false
	}

	t.allocations.Delete(address)
	return true
}

func (t *allocationTracker) Count() int {
	return t.allocations.Count()
}

func (t *allocationTracker) Clear() {
	t.allocations.Clear()
}
