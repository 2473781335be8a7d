package ewram

import (
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

var (
	initMutex        sync.Mutex
	defaultAllocator atomic.Pointer[Allocator]
)

// Init creates the process-wide allocator. It may only succeed once per process, or once per call
// to Shutdown; later calls return ErrAlreadyInitialized and leave the existing allocator alone.
func Init(logger *slog.Logger, options CreateOptions) error {
	initMutex.Lock()
	defer initMutex.Unlock()

	if defaultAllocator.Load() != nil {
		return ErrAlreadyInitialized
	}

	allocator, err := New(logger, options)
	if err != nil {
		return err
	}

	defaultAllocator.Store(allocator)
	return nil
}

// Default returns the process-wide allocator. It panics with ErrNotInitialized if Init has not
// been called.
func Default() *Allocator {
	allocator := defaultAllocator.Load()
	if allocator == nil {
		panic(ErrNotInitialized)
	}

	return allocator
}

// Acquire acquires a block from the process-wide allocator
func Acquire(size int, alignment uint) (Address, error) {
	return Default().Acquire(size, alignment)
}

// Release releases a block to the process-wide allocator
func Release(address Address) error {
	return Default().Release(address)
}

// Shutdown destroys the process-wide allocator so that Init may be called again. It fails, leaving
// the allocator in place, if any allocation is still live.
func Shutdown() error {
	initMutex.Lock()
	defer initMutex.Unlock()

	allocator := defaultAllocator.Load()
	if allocator == nil {
		return ErrNotInitialized
	}

	err := allocator.Destroy()
	if err != nil {
		return err
	}

	defaultAllocator.Store(nil)
	return nil
}
