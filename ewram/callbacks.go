package ewram

// AcquireMemoryCallback is called after a block has been handed out by the allocator. size is the
// number of payload bytes the block can hold, which may be more than was requested.
type AcquireMemoryCallback func(
	allocator *Allocator,
	address Address,
	size int,
	userData interface{},
)

// ReleaseMemoryCallback is called after a block has been returned to the allocator
type ReleaseMemoryCallback func(
	allocator *Allocator,
	address Address,
	size int,
	userData interface{},
)

// MemoryCallbackOptions is an optional set of callbacks executed as blocks change hands
type MemoryCallbackOptions struct {
	Acquire  AcquireMemoryCallback
	Release  ReleaseMemoryCallback
	UserData interface{}
}

type memoryCallbacks struct {
	Callbacks *MemoryCallbackOptions
	Allocator *Allocator
}

func (c *memoryCallbacks) Acquire(address Address, size int) {
	if c.Callbacks != nil && c.Callbacks.Acquire != nil {
		c.Callbacks.Acquire(c.Allocator, address, size, c.Callbacks.UserData)
	}
}

func (c *memoryCallbacks) Release(address Address, size int) {
	if c.Callbacks != nil && c.Callbacks.Release != nil {
		c.Callbacks.Release(c.Allocator, address, size, c.Callbacks.UserData)
	}
}
